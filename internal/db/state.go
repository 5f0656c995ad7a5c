package db

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/harborops/portfleet/internal/models"
)

const (
	settingsDocID   = "user_settings"
	resetTokenDocID = "reset_token"
)

// MongoStateStore persists the externally stored collections and blobs:
// the user and audit-log snapshots, the settings document and the single
// pending password-reset token.
type MongoStateStore struct {
	Users     *mongo.Collection
	AuditLogs *mongo.Collection
	Blobs     *mongo.Collection
}

// NewMongoStateStore wires a state store over the given database.
func NewMongoStateStore(database *mongo.Database) *MongoStateStore {
	return &MongoStateStore{
		Users:     database.Collection("users"),
		AuditLogs: database.Collection("audit_logs"),
		Blobs:     database.Collection("blobs"),
	}
}

// SaveUsers replaces the whole persisted user collection.
func (s *MongoStateStore) SaveUsers(ctx context.Context, users []models.User) error {
	return replaceAll(ctx, s.Users, toDocs(users))
}

// LoadUsers reloads the persisted user collection.
func (s *MongoStateStore) LoadUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := loadAll(ctx, s.Users, &users); err != nil {
		return nil, fmt.Errorf("load users: %w", err)
	}
	return users, nil
}

// SaveAuditLogs replaces the whole persisted audit log.
func (s *MongoStateStore) SaveAuditLogs(ctx context.Context, logs []models.UserAuditLog) error {
	return replaceAll(ctx, s.AuditLogs, toDocs(logs))
}

// LoadAuditLogs reloads the persisted audit log.
func (s *MongoStateStore) LoadAuditLogs(ctx context.Context) ([]models.UserAuditLog, error) {
	var logs []models.UserAuditLog
	if err := loadAll(ctx, s.AuditLogs, &logs); err != nil {
		return nil, fmt.Errorf("load audit logs: %w", err)
	}
	return logs, nil
}

// SaveSettings upserts the settings document.
func (s *MongoStateStore) SaveSettings(ctx context.Context, settings models.Settings) error {
	if s.Blobs == nil {
		return fmt.Errorf("mongo collection is nil")
	}
	_, err := s.Blobs.UpdateOne(
		ctx,
		bson.M{"_id": settingsDocID},
		bson.M{"$set": bson.M{"settings": settings}},
		options.Update().SetUpsert(true),
	)
	return err
}

// LoadSettings returns the persisted settings; the bool is false when none
// have been saved yet.
func (s *MongoStateStore) LoadSettings(ctx context.Context) (models.Settings, bool, error) {
	if s.Blobs == nil {
		return models.Settings{}, false, fmt.Errorf("mongo collection is nil")
	}
	var doc struct {
		Settings models.Settings `bson:"settings"`
	}
	err := s.Blobs.FindOne(ctx, bson.M{"_id": settingsDocID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Settings{}, false, nil
		}
		return models.Settings{}, false, err
	}
	return doc.Settings, true, nil
}

// SaveResetToken overwrites the single pending password-reset token.
func (s *MongoStateStore) SaveResetToken(ctx context.Context, token string) error {
	if s.Blobs == nil {
		return fmt.Errorf("mongo collection is nil")
	}
	_, err := s.Blobs.UpdateOne(
		ctx,
		bson.M{"_id": resetTokenDocID},
		bson.M{"$set": bson.M{"token": token}},
		options.Update().SetUpsert(true),
	)
	return err
}

// LoadResetToken returns the pending reset token, empty when none is set.
func (s *MongoStateStore) LoadResetToken(ctx context.Context) (string, error) {
	if s.Blobs == nil {
		return "", fmt.Errorf("mongo collection is nil")
	}
	var doc struct {
		Token string `bson:"token"`
	}
	err := s.Blobs.FindOne(ctx, bson.M{"_id": resetTokenDocID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return "", nil
		}
		return "", err
	}
	return doc.Token, nil
}

// ClearResetToken deletes the pending reset token.
func (s *MongoStateStore) ClearResetToken(ctx context.Context) error {
	if s.Blobs == nil {
		return fmt.Errorf("mongo collection is nil")
	}
	_, err := s.Blobs.DeleteOne(ctx, bson.M{"_id": resetTokenDocID})
	return err
}

func toDocs[T any](items []T) []interface{} {
	docs := make([]interface{}, len(items))
	for i, item := range items {
		docs[i] = item
	}
	return docs
}

// replaceAll swaps the full contents of a collection for the given
// documents. Snapshot persistence keeps reload trivial at the cost of
// rewriting the collection per save, which matches the small data sets
// this system manages.
func replaceAll(ctx context.Context, coll *mongo.Collection, docs []interface{}) error {
	if coll == nil {
		return fmt.Errorf("mongo collection is nil")
	}
	if _, err := coll.DeleteMany(ctx, bson.M{}); err != nil {
		return err
	}
	if len(docs) == 0 {
		return nil
	}
	_, err := coll.InsertMany(ctx, docs)
	return err
}

func loadAll(ctx context.Context, coll *mongo.Collection, out interface{}) error {
	if coll == nil {
		return fmt.Errorf("mongo collection is nil")
	}
	cursor, err := coll.Find(ctx, bson.M{})
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)
	return cursor.All(ctx, out)
}
