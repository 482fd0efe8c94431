package usecase

import (
	"strings"

	"github.com/Abdurahmanit/GroupProject/virtucasa-service/internal/browsing/domain"
)

// DefaultCriteria matches every property of the catalog.
func DefaultCriteria(c *Catalog) domain.FilterCriteria {
	r := c.PriceRange()
	return domain.FilterCriteria{
		Kind:     domain.KindAll,
		MinPrice: r.Min,
		MaxPrice: r.Max,
		Bedrooms: domain.AnyBedrooms,
	}
}

// Filter returns the properties that satisfy every predicate of criteria,
// in their original order. An empty result is not an error.
func Filter(props []domain.Property, criteria domain.FilterCriteria) []domain.Property {
	term := strings.ToLower(criteria.SearchTerm)
	out := make([]domain.Property, 0, len(props))
	for _, p := range props {
		if matchesText(p, term) &&
			criteria.Kind.Matches(p.Kind) &&
			p.Price >= criteria.MinPrice && p.Price <= criteria.MaxPrice &&
			criteria.Bedrooms.Matches(p.Bedrooms) {
			out = append(out, p)
		}
	}
	return out
}

// term is already lowercased. Surrounding whitespace is significant.
func matchesText(p domain.Property, term string) bool {
	if term == "" {
		return true
	}
	return strings.Contains(strings.ToLower(p.Title), term) ||
		strings.Contains(strings.ToLower(p.Address.City), term) ||
		strings.Contains(strings.ToLower(p.Address.Street), term)
}

// NormalizeCriteria clamps negative prices to zero and swaps inverted price
// bounds. An unknown listing type is rejected with domain.ErrInvalidFilter.
func NormalizeCriteria(c domain.FilterCriteria) (domain.FilterCriteria, error) {
	kind, err := domain.ParseKindSelector(string(c.Kind))
	if err != nil {
		return c, err
	}
	c.Kind = kind
	if c.MinPrice < 0 {
		c.MinPrice = 0
	}
	if c.MaxPrice < 0 {
		c.MaxPrice = 0
	}
	if c.MinPrice > c.MaxPrice {
		c.MinPrice, c.MaxPrice = c.MaxPrice, c.MinPrice
	}
	if c.Bedrooms < 0 {
		c.Bedrooms = domain.AnyBedrooms
	}
	return c, nil
}

// FavoriteProperties lists the identity's favorites in catalog order.
func FavoriteProperties(props []domain.Property, identity *domain.Identity) []domain.Property {
	if identity == nil || len(identity.FavoriteIDs) == 0 {
		return []domain.Property{}
	}
	wanted := make(map[string]struct{}, len(identity.FavoriteIDs))
	for _, id := range identity.FavoriteIDs {
		wanted[id] = struct{}{}
	}
	out := make([]domain.Property, 0, len(wanted))
	for _, p := range props {
		if _, ok := wanted[p.ID]; ok {
			out = append(out, p)
		}
	}
	return out
}
