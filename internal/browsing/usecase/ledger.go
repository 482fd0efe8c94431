package usecase

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Abdurahmanit/GroupProject/virtucasa-service/internal/browsing/domain"
)

// NewMessageID is the default message id generator.
func NewMessageID() string {
	return "msg-" + uuid.NewString()
}

// ValidateMessageText rejects text that is empty after trimming. The text
// itself is stored untrimmed.
func ValidateMessageText(text string) error {
	if strings.TrimSpace(text) == "" {
		return domain.ErrEmptyMessage
	}
	return nil
}

// Ledger holds the conversations of one logged-in identity, keyed by
// property id. It is not safe for concurrent use.
type Ledger struct {
	byProperty map[string]*domain.Conversation
	newID      func() string
	now        func() time.Time
}

func NewLedger(newID func() string, now func() time.Time) *Ledger {
	if newID == nil {
		newID = NewMessageID
	}
	if now == nil {
		now = time.Now
	}
	return &Ledger{
		byProperty: make(map[string]*domain.Conversation),
		newID:      newID,
		now:        now,
	}
}

// Seed replaces the ledger contents with copies of convs.
func (l *Ledger) Seed(convs []*domain.Conversation) {
	l.byProperty = make(map[string]*domain.Conversation, len(convs))
	for _, c := range convs {
		if c == nil {
			continue
		}
		l.byProperty[c.PropertyID] = c.Clone()
	}
}

// Send appends a message from identity to the conversation about
// propertyID, creating the conversation on first contact.
func (l *Ledger) Send(identity *domain.Identity, propertyID, text string) (domain.Message, *domain.Conversation, bool, error) {
	if identity == nil {
		return domain.Message{}, nil, false, domain.ErrLoginRequired
	}
	conv, ok := l.byProperty[propertyID]
	created := !ok
	if created {
		conv = &domain.Conversation{
			ID:         domain.ConversationID(identity.ID, propertyID),
			UserID:     identity.ID,
			PropertyID: propertyID,
		}
		l.byProperty[propertyID] = conv
	}
	msg := domain.Message{
		ID:        l.newID(),
		SenderID:  identity.ID,
		Text:      text,
		Timestamp: l.now(),
	}
	conv.Messages = append(conv.Messages, msg)
	return msg, conv.Clone(), created, nil
}

// Reply appends the scripted agent acknowledgment. It reports false when
// no conversation exists for propertyID.
func (l *Ledger) Reply(propertyID string) (domain.Message, *domain.Conversation, bool) {
	conv, ok := l.byProperty[propertyID]
	if !ok {
		return domain.Message{}, nil, false
	}
	msg := domain.Message{
		ID:        l.newID(),
		SenderID:  domain.AgentSenderID,
		Text:      domain.AgentReplyText,
		Timestamp: l.now(),
	}
	conv.Messages = append(conv.Messages, msg)
	return msg, conv.Clone(), true
}

func (l *Ledger) Get(propertyID string) (*domain.Conversation, bool) {
	conv, ok := l.byProperty[propertyID]
	if !ok {
		return nil, false
	}
	return conv.Clone(), true
}

// All returns copies of every conversation ordered by id.
func (l *Ledger) All() []*domain.Conversation {
	out := make([]*domain.Conversation, 0, len(l.byProperty))
	for _, c := range l.byProperty {
		out = append(out, c.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (l *Ledger) Len() int {
	return len(l.byProperty)
}

func (l *Ledger) Clear() {
	l.byProperty = make(map[string]*domain.Conversation)
}
