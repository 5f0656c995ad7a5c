package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/harborops/portfleet/internal/ids"
)

// counterDoc is the persisted shape of one display-id counter.
type counterDoc struct {
	Category string `bson:"_id"`
	Value    int    `bson:"value"`
}

// MongoCounters implements ids.CounterStore over a counters collection,
// one document per category.
type MongoCounters struct {
	Collection *mongo.Collection
}

// Load returns the last issued counter for a category, zero if absent.
func (c *MongoCounters) Load(category ids.Category) (int, error) {
	if c.Collection == nil {
		return 0, fmt.Errorf("mongo collection is nil")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var doc counterDoc
	err := c.Collection.FindOne(ctx, bson.M{"_id": string(category)}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return 0, nil
		}
		return 0, err
	}
	return doc.Value, nil
}

// Save upserts the counter for a category.
func (c *MongoCounters) Save(category ids.Category, value int) error {
	if c.Collection == nil {
		return fmt.Errorf("mongo collection is nil")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := c.Collection.UpdateOne(
		ctx,
		bson.M{"_id": string(category)},
		bson.M{"$set": bson.M{"value": value}},
		options.Update().SetUpsert(true),
	)
	return err
}
