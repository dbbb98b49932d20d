// Package repository defines the player store interface and its backends.
package repository

import "time"

// Default Mongo store configuration constants.
const (
	defaultMongoURI         = "mongodb://localhost:27017"
	defaultMongoDatabase    = "timetrial"
	defaultMongoCollection  = "players"
	defaultConnectTimeout   = 10 * time.Second
	defaultOperationTimeout = 5 * time.Second
	defaultPingTimeout      = 2 * time.Second
)

// MongoOption applies a configuration option to the MongoStore.
type MongoOption func(*MongoStore)

// WithURI sets the MongoDB connection string.
func WithURI(uri string) MongoOption {
	return func(s *MongoStore) {
		if uri != "" {
			s.uri = uri
		}
	}
}

// WithDatabase sets the database name.
func WithDatabase(name string) MongoOption {
	return func(s *MongoStore) {
		if name != "" {
			s.database = name
		}
	}
}

// WithCollection sets the collection name.
func WithCollection(name string) MongoOption {
	return func(s *MongoStore) {
		if name != "" {
			s.collectionName = name
		}
	}
}

// WithConnectTimeout bounds connection establishment and server selection.
func WithConnectTimeout(timeout time.Duration) MongoOption {
	return func(s *MongoStore) {
		if timeout > 0 {
			s.connectTimeout = timeout
		}
	}
}

// WithOperationTimeout bounds every individual storage operation.
func WithOperationTimeout(timeout time.Duration) MongoOption {
	return func(s *MongoStore) {
		if timeout > 0 {
			s.opTimeout = timeout
		}
	}
}
