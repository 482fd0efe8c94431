package domain

import "time"

type ListingKind string

const (
	KindSale ListingKind = "sale"
	KindRent ListingKind = "rent"
)

func (k ListingKind) IsValid() bool {
	return k == KindSale || k == KindRent
}

type Address struct {
	Street string `json:"street"`
	City   string `json:"city"`
	Zip    string `json:"zip"`
}

// Property is an immutable catalog record.
type Property struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Price       float64     `json:"price"`
	Address     Address     `json:"address"`
	Kind        ListingKind `json:"type"`
	Bedrooms    int         `json:"bedrooms"`
	Bathrooms   int         `json:"bathrooms"`
	Area        int         `json:"area"` // sqft
	ImageURL    string      `json:"imageUrl"`
	TourURL     string      `json:"tourUrl"`
}

// Identity is the logged-in user. It lives only as long as the login.
type Identity struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Email       string   `json:"email"`
	FavoriteIDs []string `json:"favoriteIds"`
}

func (i *Identity) HasFavorite(propertyID string) bool {
	if i == nil {
		return false
	}
	for _, id := range i.FavoriteIDs {
		if id == propertyID {
			return true
		}
	}
	return false
}

// Clone returns a deep copy so snapshots can be replaced instead of mutated.
func (i *Identity) Clone() *Identity {
	if i == nil {
		return nil
	}
	out := *i
	out.FavoriteIDs = append([]string(nil), i.FavoriteIDs...)
	return &out
}

// AgentSenderID is the sender id of the automated responder.
const AgentSenderID = "agent-001"

// AgentReplyText is the scripted acknowledgment appended after a user message.
const AgentReplyText = "Thank you for your message! An agent will get back to you shortly regarding this property."

type Message struct {
	ID        string    `json:"id"`
	SenderID  string    `json:"senderId"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// Conversation is the thread between one identity and the agent for one
// property. Messages are append-only and kept in insertion order.
type Conversation struct {
	ID         string    `json:"id"`
	UserID     string    `json:"userId"`
	PropertyID string    `json:"propertyId"`
	Messages   []Message `json:"messages"`
}

func ConversationID(userID, propertyID string) string {
	return "convo-" + userID + "-" + propertyID
}

func (c *Conversation) Clone() *Conversation {
	if c == nil {
		return nil
	}
	out := *c
	out.Messages = append([]Message(nil), c.Messages...)
	return &out
}

type View string

const (
	ViewListing   View = "listing"
	ViewFavorites View = "favorites"
	ViewDetail    View = "detail"
)

func (v View) IsGrid() bool {
	return v == ViewListing || v == ViewFavorites
}

// Transition describes one move of the view machine. ScrollToTop is raised
// when detail is entered so the presentation layer can reset scroll.
type Transition struct {
	From        View `json:"from"`
	To          View `json:"to"`
	ScrollToTop bool `json:"scrollToTop"`
}

type DescriptionStatus string

const (
	DescriptionIdle     DescriptionStatus = "idle"
	DescriptionPending  DescriptionStatus = "pending"
	DescriptionResolved DescriptionStatus = "resolved"
	DescriptionFailed   DescriptionStatus = "failed"
)

type DescriptionState struct {
	PropertyID string            `json:"propertyId"`
	Status     DescriptionStatus `json:"status"`
	Text       string            `json:"text,omitempty"`
}

func (s DescriptionState) Loading() bool {
	return s.Status == DescriptionPending
}

type PanoramaSource struct {
	ImageURL string `json:"imageUrl"`
	Title    string `json:"title"`
}
