package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	apperrors "github.com/matzehuels/archsketch/pkg/errors"
)

// Mongo defaults.
const (
	DefaultMongoDatabase   = "archsketch"
	DefaultMongoCollection = "sessions"
)

// MongoStore keeps one document per session, keyed by session id.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoStore connects to uri and uses database.sessions.
func NewMongoStore(ctx context.Context, uri, database string) (*MongoStore, error) {
	if database == "" {
		database = DefaultMongoDatabase
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	coll := client.Database(database).Collection(DefaultMongoCollection)
	_, err = coll.Indexes().CreateOne(ctx, mongo.IndexModel{Keys: bson.D{{Key: "updated_at", Value: -1}}})
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("create session index: %w", err)
	}
	return &MongoStore{client: client, coll: coll}, nil
}

// Get implements [Store].
func (m *MongoStore) Get(ctx context.Context, id string) (*Session, error) {
	var sess Session
	err := m.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&sess)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find session: %w", err)
	}
	if sess.IsExpired() {
		return nil, ErrNotFound
	}
	return &sess, nil
}

// Set implements [Store].
func (m *MongoStore) Set(ctx context.Context, sess *Session) error {
	if err := apperrors.ValidateSessionID(sess.ID); err != nil {
		return err
	}
	_, err := m.coll.ReplaceOne(ctx, bson.M{"_id": sess.ID}, sess, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Delete implements [Store].
func (m *MongoStore) Delete(ctx context.Context, id string) error {
	_, err := m.coll.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// List implements [Store].
func (m *MongoStore) List(ctx context.Context) ([]*Session, error) {
	cur, err := m.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "updated_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer cur.Close(ctx)

	var out []*Session
	for cur.Next(ctx) {
		var sess Session
		if err := cur.Decode(&sess); err != nil {
			continue
		}
		if !sess.IsExpired() {
			out = append(out, &sess)
		}
	}
	return out, cur.Err()
}

// Cleanup implements [Store]. Sessions without an expiry are kept.
func (m *MongoStore) Cleanup(ctx context.Context) (int, error) {
	res, err := m.coll.DeleteMany(ctx, bson.M{
		"expires_at": bson.M{"$gt": time.Time{}, "$lt": time.Now()},
	})
	if err != nil {
		return 0, fmt.Errorf("cleanup sessions: %w", err)
	}
	return int(res.DeletedCount), nil
}

// Close disconnects the client.
func (m *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return m.client.Disconnect(ctx)
}

var _ Store = (*MongoStore)(nil)
