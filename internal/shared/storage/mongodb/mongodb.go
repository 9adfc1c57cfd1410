// Package mongodb owns the process-wide MongoDB client and the collection
// handles resolved from it.
package mongodb

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"verified-ideas/internal/shared/config"
	"verified-ideas/internal/shared/storage/lazy"
)

// Options controls client pool and connectivity behavior.
type Options struct {
	MaxPoolSize            uint64
	ConnectTimeout         time.Duration
	ServerSelectionTimeout time.Duration
	PingTimeout            time.Duration
}

// ConnectionError reports a failed attempt to reach the store.
type ConnectionError struct {
	Err error
}

func (e *ConnectionError) Error() string {
	return "mongodb connect: " + e.Err.Error()
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

var (
	dial   = Connect
	client lazy.Cell[*mongo.Client]

	collMu      sync.Mutex
	collections = map[string]*mongo.Collection{}
)

// DefaultLambdaOptions keeps the pool small for short-lived function instances.
func DefaultLambdaOptions() Options {
	return Options{
		MaxPoolSize:            5,
		ConnectTimeout:         5 * time.Second,
		ServerSelectionTimeout: 5 * time.Second,
		PingTimeout:            3 * time.Second,
	}
}

// DefaultServerOptions returns defaults for long-running server processes.
func DefaultServerOptions() Options {
	return Options{
		MaxPoolSize:            50,
		ConnectTimeout:         10 * time.Second,
		ServerSelectionTimeout: 10 * time.Second,
		PingTimeout:            5 * time.Second,
	}
}

// OptionsFromEnv overrides defaults with MONGO_* env vars if present.
func OptionsFromEnv(defaults Options) Options {
	opts := defaults
	if v, ok := config.LookupInt("MONGO_MAX_POOL_SIZE"); ok && v > 0 {
		opts.MaxPoolSize = uint64(v)
	}
	if v, ok := config.LookupDuration("MONGO_CONNECT_TIMEOUT"); ok {
		opts.ConnectTimeout = v
	}
	if v, ok := config.LookupDuration("MONGO_SERVER_SELECTION_TIMEOUT"); ok {
		opts.ServerSelectionTimeout = v
	}
	if v, ok := config.LookupDuration("MONGO_PING_TIMEOUT"); ok {
		opts.PingTimeout = v
	}
	return opts
}

// ClientOptions builds driver options for uri. Interface-typed fields decode
// as bson.M so free-form sub-documents render as JSON objects.
func ClientOptions(uri string, opts Options) *options.ClientOptions {
	co := options.Client().
		ApplyURI(uri).
		SetBSONOptions(&options.BSONOptions{DefaultDocumentM: true})
	if opts.MaxPoolSize > 0 {
		co.SetMaxPoolSize(opts.MaxPoolSize)
	}
	if opts.ConnectTimeout > 0 {
		co.SetConnectTimeout(opts.ConnectTimeout)
	}
	if opts.ServerSelectionTimeout > 0 {
		co.SetServerSelectionTimeout(opts.ServerSelectionTimeout)
	}
	return co
}

// Connect opens a client for uri and verifies the primary is reachable.
func Connect(ctx context.Context, uri string, opts Options) (*mongo.Client, error) {
	if strings.TrimSpace(uri) == "" {
		return nil, &ConnectionError{Err: errors.New("DATABASE_URL is empty")}
	}

	c, err := mongo.Connect(ctx, ClientOptions(uri, opts))
	if err != nil {
		return nil, &ConnectionError{Err: err}
	}

	pingTimeout := opts.PingTimeout
	if pingTimeout <= 0 {
		pingTimeout = 5 * time.Second
	}
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := c.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = c.Disconnect(context.Background())
		return nil, &ConnectionError{Err: fmt.Errorf("ping: %w", err)}
	}
	return c, nil
}

// GetClient returns the process-wide client, dialing on first use.
// A failed dial is returned to the caller and not retried until the next call.
func GetClient(ctx context.Context, uri string, opts Options) (*mongo.Client, error) {
	c, reused, err := client.Get(func() (*mongo.Client, error) {
		return dial(ctx, uri, opts)
	})
	if err != nil {
		return nil, err
	}
	if !reused {
		log.Printf("mongodb client cold-start init")
	}
	return c, nil
}

// GetCollection returns the memoized handle for database.collection.
func GetCollection(ctx context.Context, uri, database, collection string, opts Options) (*mongo.Collection, error) {
	key := database + "." + collection

	collMu.Lock()
	coll, ok := collections[key]
	collMu.Unlock()
	if ok {
		return coll, nil
	}

	c, err := GetClient(ctx, uri, opts)
	if err != nil {
		return nil, err
	}

	collMu.Lock()
	defer collMu.Unlock()
	if coll, ok := collections[key]; ok {
		return coll, nil
	}
	coll = c.Database(database).Collection(collection)
	collections[key] = coll
	return coll, nil
}
