package domain

import (
	"context"
	"time"
)

// CatalogSource provides the starting snapshot of the catalog.
type CatalogSource interface {
	Load(ctx context.Context) ([]Property, error)
}

// IdentityDirectory resolves a login to an identity and its seeded
// conversations. Both are copied into the session on login.
type IdentityDirectory interface {
	FindIdentity(ctx context.Context, userID string) (*Identity, error)
	FindConversations(ctx context.Context, userID string) ([]*Conversation, error)
}

// Cancel stops a scheduled task. It reports whether the task was stopped
// before it ran.
type Cancel func() bool

type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Cancel
}

type DescriptionGenerator interface {
	Generate(ctx context.Context, property Property) (string, error)
}

// PanoramaViewer is one mounted 360° viewer instance.
type PanoramaViewer interface {
	ID() string
	Source() PanoramaSource
	Destroy()
}

type PanoramaHost interface {
	Mount(ctx context.Context, src PanoramaSource) (PanoramaViewer, error)
}

// MediaResolver turns a stored media reference into a URL a viewer can load.
type MediaResolver interface {
	Resolve(ctx context.Context, ref string) (string, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, subject string, data interface{}) error
}

// InquiryNotifier tells the listing agent that a new conversation started.
type InquiryNotifier interface {
	NotifyInquiry(ctx context.Context, identity Identity, property Property, text string) error
}

const (
	SubjectFavoriteToggled = "browsing.favorite.toggled"
	SubjectMessageSent     = "browsing.message.sent"
	SubjectAgentReplied    = "browsing.agent.replied"
)

type FavoriteToggledEvent struct {
	UserID     string `json:"user_id"`
	PropertyID string `json:"property_id"`
	Favorite   bool   `json:"favorite"`
}

type MessageEvent struct {
	ConversationID string    `json:"conversation_id"`
	UserID         string    `json:"user_id"`
	PropertyID     string    `json:"property_id"`
	MessageID      string    `json:"message_id"`
	SenderID       string    `json:"sender_id"`
	Text           string    `json:"text"`
	Timestamp      time.Time `json:"timestamp"`
}
