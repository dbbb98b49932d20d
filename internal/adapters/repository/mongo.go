package repository

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/timetrial/timetrial/internal/domain/model"
	"github.com/timetrial/timetrial/pkg/metrics"
)

// MongoStore is a Store backed by a MongoDB collection. Records are stored
// with a hex ObjectID string as _id so they round-trip through the string
// ID field on the model.
type MongoStore struct {
	uri            string
	database       string
	collectionName string
	connectTimeout time.Duration
	opTimeout      time.Duration

	client     *mongo.Client
	collection *mongo.Collection

	mu     sync.RWMutex
	closed bool
}

// NewMongoStore connects to MongoDB, verifies the connection with a ping,
// and ensures the leaderboard index exists.
func NewMongoStore(ctx context.Context, opts ...MongoOption) (*MongoStore, error) {
	s := &MongoStore{
		uri:            defaultMongoURI,
		database:       defaultMongoDatabase,
		collectionName: defaultMongoCollection,
		connectTimeout: defaultConnectTimeout,
		opTimeout:      defaultOperationTimeout,
	}

	for _, opt := range opts {
		opt(s)
	}

	clientOpts := options.Client().
		ApplyURI(s.uri).
		SetConnectTimeout(s.connectTimeout).
		SetServerSelectionTimeout(s.connectTimeout)

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fail(opConnect, err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, s.connectTimeout)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fail(opPing, err)
	}

	s.client = client
	s.collection = client.Database(s.database).Collection(s.collectionName)
	s.ensureIndex(ctx)
	metrics.UpdateStorageConnected(true)

	return s, nil
}

// ensureIndex creates the compound leaderboard index. Failure is not fatal;
// queries fall back to unindexed sorts.
func (s *MongoStore) ensureIndex(ctx context.Context) {
	opCtx, cancel := context.WithTimeout(ctx, s.opTimeout)
	defer cancel()

	_, err := s.collection.Indexes().CreateOne(opCtx, mongo.IndexModel{
		Keys: bson.D{{Key: "score", Value: -1}, {Key: "timeTaken", Value: 1}},
	})
	if err != nil {
		metrics.RecordStorageError(opEnsureIndex)
	}
}

// CreatePlayer inserts the record with a fresh ID and returns the stored copy.
func (s *MongoStore) CreatePlayer(ctx context.Context, rec *model.PlayerRecord) (*model.PlayerRecord, error) {
	if s.isClosed() {
		return nil, fail(opCreatePlayer, ErrClosed)
	}

	stored := *rec
	if stored.ID == "" {
		stored.ID = primitive.NewObjectID().Hex()
	}

	opCtx, cancel := context.WithTimeout(ctx, s.opTimeout)
	defer cancel()

	start := time.Now()
	_, err := s.collection.InsertOne(opCtx, &stored)
	metrics.RecordStorageLatency(opCreatePlayer, time.Since(start).Seconds()*1000)
	if err != nil {
		return nil, fail(opCreatePlayer, err)
	}
	return &stored, nil
}

// TopPlayers reads at most limit records, sorted in the database by score
// descending and time taken ascending.
func (s *MongoStore) TopPlayers(ctx context.Context, limit int) ([]model.PlayerRecord, error) {
	if s.isClosed() {
		return nil, fail(opTopPlayers, ErrClosed)
	}
	if limit <= 0 {
		return nil, ErrInvalidLimit
	}

	opCtx, cancel := context.WithTimeout(ctx, s.opTimeout)
	defer cancel()

	findOpts := options.Find().
		SetSort(bson.D{{Key: "score", Value: -1}, {Key: "timeTaken", Value: 1}}).
		SetLimit(int64(limit))

	start := time.Now()
	cursor, err := s.collection.Find(opCtx, bson.M{}, findOpts)
	if err != nil {
		return nil, fail(opTopPlayers, err)
	}

	records := make([]model.PlayerRecord, 0, limit)
	if err := cursor.All(opCtx, &records); err != nil {
		return nil, fail(opTopPlayers, err)
	}
	metrics.RecordStorageLatency(opTopPlayers, time.Since(start).Seconds()*1000)

	return records, nil
}

// CountPlayers returns the number of stored records.
func (s *MongoStore) CountPlayers(ctx context.Context) (int64, error) {
	if s.isClosed() {
		return 0, fail(opCountPlayers, ErrClosed)
	}

	opCtx, cancel := context.WithTimeout(ctx, s.opTimeout)
	defer cancel()

	count, err := s.collection.CountDocuments(opCtx, bson.M{})
	if err != nil {
		return 0, fail(opCountPlayers, err)
	}
	return count, nil
}

// Connected pings the server under a short deadline.
func (s *MongoStore) Connected(ctx context.Context) bool {
	if s.isClosed() {
		return false
	}

	pingCtx, cancel := context.WithTimeout(ctx, defaultPingTimeout)
	defer cancel()

	err := s.client.Ping(pingCtx, readpref.Primary())
	metrics.UpdateStorageConnected(err == nil)
	return err == nil
}

// Close disconnects from the server. Subsequent operations fail with ErrClosed.
func (s *MongoStore) Close(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	metrics.UpdateStorageConnected(false)

	if err := s.client.Disconnect(ctx); err != nil {
		return fail(opClose, err)
	}
	return nil
}

func (s *MongoStore) isClosed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.closed
}
