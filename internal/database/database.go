package database

import (
	"context"
	"log"
	"sync"
	"time"

	"hostel-management-backend/internal/config"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Mongo owns the process-wide client. It is constructed once in main and
// injected into every repository; the dial itself is single-flight so
// concurrent first callers share one connection attempt instead of opening
// duplicates.
type Mongo struct {
	cfg config.DatabaseConfig

	once   sync.Once
	client *mongo.Client
	err    error
}

// New prepares a Mongo handle without dialing.
func New(cfg config.DatabaseConfig) *Mongo {
	return &Mongo{cfg: cfg}
}

// Client returns the shared client, dialing on first use.
func (m *Mongo) Client(ctx context.Context) (*mongo.Client, error) {
	m.once.Do(func() {
		opts := options.Client().
			ApplyURI(m.cfg.URI).
			SetMaxPoolSize(100).
			SetServerSelectionTimeout(10 * time.Second)

		client, err := mongo.Connect(ctx, opts)
		if err != nil {
			m.err = err
			return
		}
		if err := client.Ping(ctx, readpref.Primary()); err != nil {
			m.err = err
			return
		}
		log.Println("Successfully connected to MongoDB")
		m.client = client
	})
	return m.client, m.err
}

// Database returns the configured application database, dialing on first use.
func (m *Mongo) Database(ctx context.Context) (*mongo.Database, error) {
	client, err := m.Client(ctx)
	if err != nil {
		return nil, err
	}
	return client.Database(m.cfg.Database), nil
}

// Name returns the configured database name.
func (m *Mongo) Name() string {
	return m.cfg.Database
}

// Connect eagerly establishes the connection and returns the application
// database. Startup fails fast when the database is unreachable.
func Connect(cfg config.DatabaseConfig) *mongo.Database {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	m := New(cfg)
	db, err := m.Database(ctx)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	return db
}
