package database

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Mongo is an explicitly constructed MongoDB handle. It is created once in
// main and passed to the stores that need it; there is no package-level
// connection state.
type Mongo struct {
	uri string

	mu     sync.Mutex
	client *mongo.Client
	db     *mongo.Database
}

func New(mongoURI string) *Mongo {
	return &Mongo{uri: mongoURI}
}

// Connect establishes the connection and pings the server. Calling Connect
// on an already-connected handle is a no-op.
func (m *Mongo) Connect(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.client != nil {
		return nil
	}
	if m.uri == "" {
		return errors.New("mongodb connection string is required")
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	clientOptions := options.Client().ApplyURI(m.uri)
	// Keep server selection bounded so a bad URI fails fast at startup
	clientOptions.SetServerSelectionTimeout(10 * time.Second)

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return err
	}

	pingCtx, pingCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer pingCancel()

	if err := client.Ping(pingCtx, nil); err != nil {
		client.Disconnect(context.Background())
		return err
	}

	m.client = client
	m.db = client.Database(dbNameFromURI(m.uri))

	log.Println("✅ Connected to MongoDB")
	return nil
}

// Disconnect closes the connection. Safe to call on a never-connected handle.
func (m *Mongo) Disconnect(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.client == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	err := m.client.Disconnect(ctx)
	m.client = nil
	m.db = nil
	return err
}

// Collection returns a handle to the named collection. Connect must have
// succeeded first.
func (m *Mongo) Collection(name string) *mongo.Collection {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.db.Collection(name)
}

// dbNameFromURI extracts the database name from a connection string of the
// form mongodb://.../database_name?... Defaults to "mindwell".
func dbNameFromURI(mongoURI string) string {
	dbName := "mindwell"
	parts := strings.Split(mongoURI, "/")
	if len(parts) > 3 {
		dbPart := strings.Split(parts[len(parts)-1], "?")[0]
		if dbPart != "" {
			dbName = dbPart
		}
	}
	return dbName
}
