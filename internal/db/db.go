package db

import (
	"context"
	"sync"
	"time"

	"github.com/mongodb/grip"
	"github.com/mongodb/grip/message"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names, shared by every store implementation.
const (
	SpotsCollection = "touristsSpot"
	PlansCollection = "tourPlans"
)

// Options configure a Manager.
type Options struct {
	URI            string
	Database       string
	StrictAPI      bool
	ConnectTimeout time.Duration
}

// Manager owns the single process-lifetime MongoDB connection. It is safe for
// concurrent use; the driver pools connections underneath.
type Manager struct {
	opts Options

	mu     sync.RWMutex
	client *mongo.Client
	db     *mongo.Database
}

// NewManager returns an unconnected manager.
func NewManager(opts Options) *Manager {
	if opts.ConnectTimeout <= 0 {
		opts.ConnectTimeout = 10 * time.Second
	}
	return &Manager{opts: opts}
}

func (m *Manager) clientOptions() *options.ClientOptions {
	co := options.Client().
		ApplyURI(m.opts.URI).
		SetConnectTimeout(m.opts.ConnectTimeout).
		SetServerSelectionTimeout(m.opts.ConnectTimeout).
		SetBSONOptions(&options.BSONOptions{DefaultDocumentM: true})
	if m.opts.StrictAPI {
		co.SetServerAPIOptions(options.ServerAPI(options.ServerAPIVersion1).
			SetStrict(true).
			SetDeprecationErrors(true))
	}
	return co
}

// Connect opens and verifies the connection. Calling it again once connected
// is a no-op. On failure nothing is memoized, so a later call retries.
func (m *Manager) Connect(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.client != nil {
		return nil
	}

	client, err := mongo.Connect(ctx, m.clientOptions())
	if err != nil {
		grip.Error(message.WrapError(err, message.Fields{
			"message":  "mongodb connection failed",
			"database": m.opts.Database,
		}))
		return errors.Wrap(err, "connecting to mongodb")
	}
	if err := ping(ctx, client); err != nil {
		grip.Warning(client.Disconnect(context.Background()))
		grip.Error(message.WrapError(err, message.Fields{
			"message":  "mongodb connection failed",
			"database": m.opts.Database,
		}))
		return errors.Wrap(err, "pinging mongodb")
	}

	m.client = client
	m.db = client.Database(m.opts.Database)
	grip.Info(message.Fields{
		"message":  "mongodb connected",
		"database": m.opts.Database,
	})
	return nil
}

// Connected reports whether a verified client is memoized.
func (m *Manager) Connected() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.client != nil
}

// Collection returns a handle to the named collection, or ErrNotConnected
// before a successful Connect.
func (m *Manager) Collection(name string) (Collection, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.db == nil {
		return nil, ErrNotConnected
	}
	return &mongoCollection{coll: m.db.Collection(name)}, nil
}

// Ping connects if needed and then runs the ping command against admin, so
// every health check re-verifies liveness.
func (m *Manager) Ping(ctx context.Context) error {
	if err := m.Connect(ctx); err != nil {
		return err
	}

	m.mu.RLock()
	client := m.client
	m.mu.RUnlock()

	return errors.Wrap(ping(ctx, client), "pinging mongodb")
}

// Close disconnects the client if one is memoized.
func (m *Manager) Close(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.client == nil {
		return nil
	}
	err := m.client.Disconnect(ctx)
	m.client, m.db = nil, nil
	return errors.Wrap(err, "disconnecting from mongodb")
}

func ping(ctx context.Context, client *mongo.Client) error {
	return client.Database("admin").RunCommand(ctx, bson.D{{Key: "ping", Value: 1}}).Err()
}
