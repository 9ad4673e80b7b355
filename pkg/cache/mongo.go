package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Defaults for the MongoDB backend.
const (
	DefaultMongoDatabase   = "sankeyflow"
	DefaultMongoCollection = "cache"
)

// MongoCache stores entries as documents in a single collection. A TTL
// index on expires_at lets the server delete expired documents; Get also
// checks expiry because the TTL monitor runs only once a minute.
type MongoCache struct {
	client *mongo.Client
	coll   *mongo.Collection
	now    func() time.Time
}

type mongoEntry struct {
	Key       string     `bson:"_id"`
	Data      []byte     `bson:"data"`
	ExpiresAt *time.Time `bson:"expires_at,omitempty"`
}

// NewMongoCache connects to uri, pings the primary and ensures the TTL index.
// An empty database selects DefaultMongoDatabase.
func NewMongoCache(ctx context.Context, uri, database string) (*MongoCache, error) {
	if strings.TrimSpace(uri) == "" {
		return nil, errors.New("mongo: uri is required")
	}
	if database == "" {
		database = DefaultMongoDatabase
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo: connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo: ping: %w: %v", ErrNetwork, err)
	}

	coll := client.Database(database).Collection(DefaultMongoCollection)
	_, err = coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "expires_at", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(0),
	})
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo: create ttl index: %w", err)
	}

	return &MongoCache{client: client, coll: coll, now: time.Now}, nil
}

// Get retrieves a value. Missing and expired documents are misses.
func (c *MongoCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var e mongoEntry
	err := c.coll.FindOne(ctx, bson.M{"_id": key}).Decode(&e)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("mongo find: %w", err)
	}
	if e.ExpiresAt != nil && c.now().After(*e.ExpiresAt) {
		return nil, false, nil
	}
	return e.Data, true, nil
}

// Set upserts a value. A non-positive ttl means no expiry.
func (c *MongoCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	e := mongoEntry{Key: key, Data: data}
	if ttl > 0 {
		at := c.now().Add(ttl).UTC()
		e.ExpiresAt = &at
	}
	_, err := c.coll.ReplaceOne(ctx, bson.M{"_id": key}, e, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("mongo replace: %w", err)
	}
	return nil
}

// Delete removes a value.
func (c *MongoCache) Delete(ctx context.Context, key string) error {
	if _, err := c.coll.DeleteOne(ctx, bson.M{"_id": key}); err != nil {
		return fmt.Errorf("mongo delete: %w", err)
	}
	return nil
}

// Close disconnects the client.
func (c *MongoCache) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return c.client.Disconnect(ctx)
}

var _ Cache = (*MongoCache)(nil)
