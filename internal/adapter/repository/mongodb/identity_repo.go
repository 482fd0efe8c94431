package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Abdurahmanit/GroupProject/virtucasa-service/internal/browsing/domain"
	"github.com/Abdurahmanit/GroupProject/virtucasa-service/internal/platform/logger"
)

const (
	identitiesCollection    = "identities"
	conversationsCollection = "conversations"
)

// IdentityRepository is the identity directory backed by MongoDB. Sessions
// copy what it returns; nothing is written back.
type IdentityRepository struct {
	identities    *mongo.Collection
	conversations *mongo.Collection
	logger        *logger.Logger
}

func NewIdentityRepository(db *mongo.Database, log *logger.Logger) *IdentityRepository {
	return &IdentityRepository{
		identities:    db.Collection(identitiesCollection),
		conversations: db.Collection(conversationsCollection),
		logger:        log,
	}
}

func (r *IdentityRepository) FindIdentity(ctx context.Context, userID string) (*domain.Identity, error) {
	var doc identityDocument
	err := r.identities.FindOne(ctx, bson.M{"_id": userID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			r.logger.Info("IdentityRepository.FindIdentity: identity not found", "user_id", userID)
			return nil, fmt.Errorf("%w: %q", domain.ErrIdentityNotFound, userID)
		}
		r.logger.Error("IdentityRepository.FindIdentity: failed to find identity", "user_id", userID, "error", err)
		return nil, err
	}
	return toDomainIdentity(doc), nil
}

func (r *IdentityRepository) FindConversations(ctx context.Context, userID string) ([]*domain.Conversation, error) {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cursor, err := r.conversations.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		r.logger.Error("IdentityRepository.FindConversations: find failed", "user_id", userID, "error", err)
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []conversationDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode conversations: %w", err)
	}
	out := make([]*domain.Conversation, 0, len(docs))
	for _, d := range docs {
		out = append(out, toDomainConversation(d))
	}
	return out, nil
}

// Upsert stores identity and its conversations, replacing existing records
// with the same ids.
func (r *IdentityRepository) Upsert(ctx context.Context, identity *domain.Identity, convs []*domain.Conversation) error {
	replace := options.Replace().SetUpsert(true)
	if _, err := r.identities.ReplaceOne(ctx, bson.M{"_id": identity.ID}, toIdentityDocument(identity), replace); err != nil {
		return fmt.Errorf("upsert identity %s: %w", identity.ID, err)
	}
	for _, c := range convs {
		if _, err := r.conversations.ReplaceOne(ctx, bson.M{"_id": c.ID}, toConversationDocument(c), replace); err != nil {
			return fmt.Errorf("upsert conversation %s: %w", c.ID, err)
		}
	}
	r.logger.Info("IdentityRepository.Upsert: identity stored", "user_id", identity.ID, "conversations", len(convs))
	return nil
}
