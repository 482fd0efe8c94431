package usecase

import "github.com/Abdurahmanit/GroupProject/virtucasa-service/internal/browsing/domain"

// ToggleFavorite returns a new identity snapshot with propertyID added to or
// removed from its favorites. The input is never mutated. Additions go to
// the end so the stored order stays insertion order.
func ToggleFavorite(identity *domain.Identity, propertyID string) (*domain.Identity, bool, error) {
	if identity == nil {
		return nil, false, domain.ErrLoginRequired
	}
	next := identity.Clone()
	if !identity.HasFavorite(propertyID) {
		next.FavoriteIDs = append(next.FavoriteIDs, propertyID)
		return next, true, nil
	}
	kept := next.FavoriteIDs[:0]
	for _, id := range next.FavoriteIDs {
		if id != propertyID {
			kept = append(kept, id)
		}
	}
	next.FavoriteIDs = kept
	return next, false, nil
}
