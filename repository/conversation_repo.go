package repository

import (
	"context"
	"errors"

	"github.com/tieubaoca/ai-tutor-be/types"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// ConversationRepo persists per-session turn logs. The whole log is read
// and rewritten per chat call; concurrent writers are last-write-wins.
type ConversationRepo interface {
	GetMessages(ctx context.Context, sessionID string) ([]types.Message, error)
	SaveMessages(ctx context.Context, sessionID string, messages []types.Message) error
}

type conversationDoc struct {
	ID       string          `bson:"_id"`
	Messages []types.Message `bson:"messages"`
}

type conversationRepo struct {
	collection *mongo.Collection
}

func NewConversationRepo(collection *mongo.Collection) ConversationRepo {
	return &conversationRepo{
		collection: collection,
	}
}

// GetMessages returns the session's turn log, or an empty log for a
// session that has never been seen.
func (r *conversationRepo) GetMessages(ctx context.Context, sessionID string) ([]types.Message, error) {
	var doc conversationDoc
	err := r.collection.FindOne(ctx, map[string]string{"_id": sessionID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return []types.Message{}, nil
		}
		return nil, err
	}
	return doc.Messages, nil
}

func (r *conversationRepo) SaveMessages(ctx context.Context, sessionID string, messages []types.Message) error {
	_, err := r.collection.ReplaceOne(
		ctx,
		map[string]string{"_id": sessionID},
		conversationDoc{ID: sessionID, Messages: messages},
		options.Replace().SetUpsert(true),
	)
	return err
}
