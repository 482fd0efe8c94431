// Package catalog serves the built-in demo catalog, the demo identity and
// its seeded conversations.
package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/Abdurahmanit/GroupProject/virtucasa-service/internal/browsing/domain"
)

const DemoUserID = "user-123"

func Properties() []domain.Property {
	return []domain.Property{
		{
			ID:          "1",
			Title:       "Modern Downtown Loft",
			Description: "Open-plan loft with exposed brick, floor-to-ceiling windows and a rooftop terrace shared with four units.",
			Price:       750000,
			Address:     domain.Address{Street: "123 Main St", City: "Metropolis", Zip: "10001"},
			Kind:        domain.KindSale,
			Bedrooms:    2,
			Bathrooms:   2,
			Area:        1500,
			ImageURL:    "https://picsum.photos/seed/loft/800/600",
			TourURL:     "https://pannellum.org/images/alma.jpg",
		},
		{
			ID:          "2",
			Title:       "Suburban Family Home",
			Description: "Four-bedroom colonial on a quiet cul-de-sac with a fenced backyard and a two-car garage.",
			Price:       550000,
			Address:     domain.Address{Street: "456 Oak Ave", City: "Springfield", Zip: "62704"},
			Kind:        domain.KindSale,
			Bedrooms:    4,
			Bathrooms:   3,
			Area:        2800,
			ImageURL:    "https://picsum.photos/seed/family/800/600",
			TourURL:     "https://pannellum.org/images/cerro-toco-0.jpg",
		},
		{
			ID:          "3",
			Title:       "Cozy Beachside Cottage",
			Description: "Two-bedroom cottage a short walk from the sand, with a screened porch and an outdoor shower.",
			Price:       3200,
			Address:     domain.Address{Street: "789 Shoreline Dr", City: "Bayview", Zip: "90210"},
			Kind:        domain.KindRent,
			Bedrooms:    2,
			Bathrooms:   1,
			Area:        950,
			ImageURL:    "https://picsum.photos/seed/beach/800/600",
			TourURL:     "https://pannellum.org/images/bma-1.jpg",
		},
		{
			ID:          "4",
			Title:       "Chic Urban Apartment",
			Description: "Renovated one-bedroom in a doorman building, close to transit, with in-unit laundry.",
			Price:       2500,
			Address:     domain.Address{Street: "101 City Center Blvd", City: "Metropolis", Zip: "10002"},
			Kind:        domain.KindRent,
			Bedrooms:    1,
			Bathrooms:   1,
			Area:        700,
			ImageURL:    "https://picsum.photos/seed/urban/800/600",
			TourURL:     "https://pannellum.org/images/alma.jpg",
		},
		{
			ID:          "5",
			Title:       "Luxury Hillside Villa",
			Description: "Five-bedroom villa with panoramic valley views, an infinity pool and a chef's kitchen.",
			Price:       2100000,
			Address:     domain.Address{Street: "1 Summit Ridge", City: "Crestwood", Zip: "94027"},
			Kind:        domain.KindSale,
			Bedrooms:    5,
			Bathrooms:   6,
			Area:        6200,
			ImageURL:    "https://picsum.photos/seed/villa/800/600",
			TourURL:     "https://pannellum.org/images/cerro-toco-0.jpg",
		},
		{
			ID:          "6",
			Title:       "Rustic Mountain Cabin",
			Description: "Log cabin on two wooded acres with a stone fireplace and a wraparound deck.",
			Price:       1800,
			Address:     domain.Address{Street: "22 Pine Hollow Rd", City: "Aspen Grove", Zip: "81611"},
			Kind:        domain.KindRent,
			Bedrooms:    3,
			Bathrooms:   2,
			Area:        1600,
			ImageURL:    "https://picsum.photos/seed/cabin/800/600",
			TourURL:     "https://pannellum.org/images/bma-1.jpg",
		},
		{
			ID:          "7",
			Title:       "Historic Brownstone",
			Description: "Restored 1890s brownstone with original moldings, a garden level and a private patio.",
			Price:       1350000,
			Address:     domain.Address{Street: "58 Heritage Row", City: "Old Town", Zip: "02108"},
			Kind:        domain.KindSale,
			Bedrooms:    3,
			Bathrooms:   2,
			Area:        2400,
			ImageURL:    "https://picsum.photos/seed/brownstone/800/600",
			TourURL:     "https://pannellum.org/images/alma.jpg",
		},
		{
			ID:          "8",
			Title:       "Lakeside Studio Retreat",
			Description: "Sunny studio with a private dock, lake views from every window and a kitchenette.",
			Price:       1450,
			Address:     domain.Address{Street: "9 Lakeshore Ln", City: "Bayview", Zip: "90211"},
			Kind:        domain.KindRent,
			Bedrooms:    0,
			Bathrooms:   1,
			Area:        520,
			ImageURL:    "https://picsum.photos/seed/lake/800/600",
			TourURL:     "https://pannellum.org/images/cerro-toco-0.jpg",
		},
	}
}

func DemoIdentity() *domain.Identity {
	return &domain.Identity{
		ID:          DemoUserID,
		Name:        "Alex Doe",
		Email:       "alex.doe@example.com",
		FavoriteIDs: []string{"2", "5", "8"},
	}
}

func DemoConversations() []*domain.Conversation {
	at := func(s string) time.Time {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			panic(err)
		}
		return t
	}
	return []*domain.Conversation{
		{
			ID:         domain.ConversationID(DemoUserID, "1"),
			UserID:     DemoUserID,
			PropertyID: "1",
			Messages: []domain.Message{
				{ID: "msg1", SenderID: DemoUserID, Text: "Hello, is this loft still available for viewing this weekend?", Timestamp: at("2023-10-26T10:00:00Z")},
				{ID: "msg2", SenderID: domain.AgentSenderID, Text: "Good morning! Yes, it is. We have slots open on Saturday afternoon. Would that work for you?", Timestamp: at("2023-10-26T10:05:00Z")},
			},
		},
		{
			ID:         domain.ConversationID(DemoUserID, "4"),
			UserID:     DemoUserID,
			PropertyID: "4",
			Messages: []domain.Message{
				{ID: "msg3", SenderID: DemoUserID, Text: "Hi, I am very interested in the Chic Urban Apartment. What is the policy on pets?", Timestamp: at("2023-10-27T14:20:00Z")},
			},
		},
	}
}

// FixtureSource is a domain.CatalogSource over Properties.
type FixtureSource struct{}

func (FixtureSource) Load(context.Context) ([]domain.Property, error) {
	return Properties(), nil
}

// FixtureDirectory knows only the demo identity.
type FixtureDirectory struct{}

func (FixtureDirectory) FindIdentity(_ context.Context, userID string) (*domain.Identity, error) {
	if userID != DemoUserID {
		return nil, fmt.Errorf("%w: %q", domain.ErrIdentityNotFound, userID)
	}
	return DemoIdentity(), nil
}

func (FixtureDirectory) FindConversations(_ context.Context, userID string) ([]*domain.Conversation, error) {
	if userID != DemoUserID {
		return nil, nil
	}
	return DemoConversations(), nil
}
