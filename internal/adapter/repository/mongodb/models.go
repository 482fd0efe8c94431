package mongodb

import (
	"time"

	"github.com/Abdurahmanit/GroupProject/virtucasa-service/internal/browsing/domain"
)

// propertyDocument is a catalog record in the "properties" collection.
// Position keeps the catalog order stable across loads.
type propertyDocument struct {
	ID          string  `bson:"_id"`
	Position    int     `bson:"position"`
	Title       string  `bson:"title"`
	Description string  `bson:"description"`
	Price       float64 `bson:"price"`
	Street      string  `bson:"street"`
	City        string  `bson:"city"`
	Zip         string  `bson:"zip"`
	Kind        string  `bson:"type"`
	Bedrooms    int     `bson:"bedrooms"`
	Bathrooms   int     `bson:"bathrooms"`
	Area        int     `bson:"area"`
	ImageURL    string  `bson:"image_url"`
	TourURL     string  `bson:"tour_url"`
}

type identityDocument struct {
	ID          string   `bson:"_id"`
	Name        string   `bson:"name"`
	Email       string   `bson:"email"`
	FavoriteIDs []string `bson:"favorite_ids"`
}

type messageDocument struct {
	ID        string    `bson:"id"`
	SenderID  string    `bson:"sender_id"`
	Text      string    `bson:"text"`
	Timestamp time.Time `bson:"timestamp"`
}

type conversationDocument struct {
	ID         string            `bson:"_id"`
	UserID     string            `bson:"user_id"`
	PropertyID string            `bson:"property_id"`
	Messages   []messageDocument `bson:"messages"`
}

func toPropertyDocument(p domain.Property, position int) propertyDocument {
	return propertyDocument{
		ID:          p.ID,
		Position:    position,
		Title:       p.Title,
		Description: p.Description,
		Price:       p.Price,
		Street:      p.Address.Street,
		City:        p.Address.City,
		Zip:         p.Address.Zip,
		Kind:        string(p.Kind),
		Bedrooms:    p.Bedrooms,
		Bathrooms:   p.Bathrooms,
		Area:        p.Area,
		ImageURL:    p.ImageURL,
		TourURL:     p.TourURL,
	}
}

func toDomainProperty(d propertyDocument) domain.Property {
	return domain.Property{
		ID:          d.ID,
		Title:       d.Title,
		Description: d.Description,
		Price:       d.Price,
		Address:     domain.Address{Street: d.Street, City: d.City, Zip: d.Zip},
		Kind:        domain.ListingKind(d.Kind),
		Bedrooms:    d.Bedrooms,
		Bathrooms:   d.Bathrooms,
		Area:        d.Area,
		ImageURL:    d.ImageURL,
		TourURL:     d.TourURL,
	}
}

func toIdentityDocument(i *domain.Identity) identityDocument {
	return identityDocument{
		ID:          i.ID,
		Name:        i.Name,
		Email:       i.Email,
		FavoriteIDs: append([]string{}, i.FavoriteIDs...),
	}
}

func toDomainIdentity(d identityDocument) *domain.Identity {
	return &domain.Identity{
		ID:          d.ID,
		Name:        d.Name,
		Email:       d.Email,
		FavoriteIDs: append([]string{}, d.FavoriteIDs...),
	}
}

func toConversationDocument(c *domain.Conversation) conversationDocument {
	msgs := make([]messageDocument, 0, len(c.Messages))
	for _, m := range c.Messages {
		msgs = append(msgs, messageDocument{ID: m.ID, SenderID: m.SenderID, Text: m.Text, Timestamp: m.Timestamp})
	}
	return conversationDocument{ID: c.ID, UserID: c.UserID, PropertyID: c.PropertyID, Messages: msgs}
}

func toDomainConversation(d conversationDocument) *domain.Conversation {
	msgs := make([]domain.Message, 0, len(d.Messages))
	for _, m := range d.Messages {
		msgs = append(msgs, domain.Message{ID: m.ID, SenderID: m.SenderID, Text: m.Text, Timestamp: m.Timestamp.UTC()})
	}
	return &domain.Conversation{ID: d.ID, UserID: d.UserID, PropertyID: d.PropertyID, Messages: msgs}
}
