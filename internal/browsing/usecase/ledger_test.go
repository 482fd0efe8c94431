package usecase

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Abdurahmanit/GroupProject/virtucasa-service/internal/browsing/domain"
)

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("msg-%d", n)
	}
}

func TestLedger_SendCreatesConversationLazily(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	l := NewLedger(sequentialIDs(), func() time.Time { return now })
	identity := &domain.Identity{ID: "user-123"}

	msg, conv, created, err := l.Send(identity, "7", "Is it available?")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "convo-user-123-7", conv.ID)
	assert.Equal(t, domain.Message{ID: "msg-1", SenderID: "user-123", Text: "Is it available?", Timestamp: now}, msg)

	_, conv, created, err = l.Send(identity, "7", "Hello?")
	require.NoError(t, err)
	assert.False(t, created)
	require.Len(t, conv.Messages, 2)
	assert.Equal(t, "Hello?", conv.Messages[1].Text)
	assert.Equal(t, 1, l.Len())
}

func TestLedger_SendRequiresIdentity(t *testing.T) {
	l := NewLedger(nil, nil)
	_, _, _, err := l.Send(nil, "1", "hi")
	assert.ErrorIs(t, err, domain.ErrLoginRequired)
	assert.Zero(t, l.Len())
}

func TestLedger_Reply(t *testing.T) {
	l := NewLedger(sequentialIDs(), nil)
	_, ok := l.Get("1")
	assert.False(t, ok)

	_, _, ok = l.Reply("1")
	assert.False(t, ok, "no conversation, no reply")

	_, _, _, _ = l.Send(&domain.Identity{ID: "u"}, "1", "hi")
	msg, conv, ok := l.Reply("1")
	require.True(t, ok)
	assert.Equal(t, domain.AgentSenderID, msg.SenderID)
	assert.Equal(t, domain.AgentReplyText, msg.Text)
	assert.Len(t, conv.Messages, 2)
}

func TestLedger_SeedCopiesAndAllIsSorted(t *testing.T) {
	seed := []*domain.Conversation{
		{ID: "convo-u-4", UserID: "u", PropertyID: "4"},
		{ID: "convo-u-1", UserID: "u", PropertyID: "1", Messages: []domain.Message{{ID: "m"}}},
	}
	l := NewLedger(nil, nil)
	l.Seed(seed)
	_, _, _, _ = l.Send(&domain.Identity{ID: "u"}, "1", "more")

	assert.Len(t, seed[1].Messages, 1, "seed data must not be mutated")
	all := l.All()
	require.Len(t, all, 2)
	assert.Equal(t, "convo-u-1", all[0].ID)
	assert.Equal(t, "convo-u-4", all[1].ID)

	l.Clear()
	assert.Zero(t, l.Len())
}

func TestValidateMessageText(t *testing.T) {
	assert.ErrorIs(t, ValidateMessageText(""), domain.ErrEmptyMessage)
	assert.ErrorIs(t, ValidateMessageText(" \t\n"), domain.ErrEmptyMessage)
	assert.NoError(t, ValidateMessageText(" hi "))
}
