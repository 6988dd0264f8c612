package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/lawyer4u/portal/internal/core/ports"
)

const collectionBrowserStorage = "browser_storage"

// Storage keeps browser storage entries in MongoDB, one document per
// (browser_id, key) pair.
type Storage struct {
	client *mongo.Client
	col    *mongo.Collection
	ttl    time.Duration
}

// NewStorage returns a Storage over db. A zero ttl disables expiry.
func NewStorage(client *mongo.Client, db *mongo.Database, ttl time.Duration) *Storage {
	return &Storage{client: client, col: db.Collection(collectionBrowserStorage), ttl: ttl}
}

type storageEntry struct {
	BrowserID string    `bson:"browser_id"`
	Key       string    `bson:"key"`
	Value     string    `bson:"value"`
	UpdatedAt time.Time `bson:"updated_at"`
}

func (s *Storage) Scope(browserID string) ports.Storage {
	return &scope{col: s.col, browserID: browserID}
}

func (s *Storage) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

func (s *Storage) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// EnsureIndexes creates the lookup index and, when a ttl is configured, the
// expiry index on updated_at.
func (s *Storage) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "browser_id", Value: 1}, {Key: "key", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
	if s.ttl > 0 {
		indexes = append(indexes, mongo.IndexModel{
			Keys:    bson.D{{Key: "updated_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(int32(s.ttl.Seconds())),
		})
	}

	_, err := s.col.Indexes().CreateMany(ctx, indexes)
	return err
}

type scope struct {
	col       *mongo.Collection
	browserID string
}

func (s *scope) filter(key string) bson.M {
	return bson.M{"browser_id": s.browserID, "key": key}
}

func (s *scope) GetItem(ctx context.Context, key string) (string, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var e storageEntry
	err := s.col.FindOne(ctx, s.filter(key)).Decode(&e)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("find %s: %w", key, err)
	}
	return e.Value, true, nil
}

func (s *scope) SetItem(ctx context.Context, key, value string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := bson.M{"$set": storageEntry{
		BrowserID: s.browserID,
		Key:       key,
		Value:     value,
		UpdatedAt: time.Now().UTC(),
	}}
	if _, err := s.col.UpdateOne(ctx, s.filter(key), update, options.Update().SetUpsert(true)); err != nil {
		return fmt.Errorf("upsert %s: %w", key, err)
	}
	return nil
}

func (s *scope) RemoveItem(ctx context.Context, key string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := s.col.DeleteOne(ctx, s.filter(key)); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}
