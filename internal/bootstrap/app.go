package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"

	"verified-ideas/internal/ideas"
	"verified-ideas/internal/services/health"
	"verified-ideas/internal/shared/config"
	"verified-ideas/internal/shared/server"
	"verified-ideas/internal/shared/storage/db"
	"verified-ideas/internal/shared/storage/mongodb"
	"verified-ideas/internal/shared/telemetry"
)

const serviceName = "verified-ideas"

// App holds shared dependencies.
type App struct {
	Config       config.Config
	Router       *gin.Engine
	Store        Store
	IdeasService *ideas.Service
	IdeasHandler *ideas.Handler
	Health       *health.Service

	closers []func() error
}

// Store is the resolved ideas repository. Backend is the backend actually in
// use, which is memory when a dev-like env falls back.
type Store struct {
	Backend string
	Repo    ideas.Repo
	Close   func() error
}

// Build prepares shared dependencies and wires routes.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	ctx := context.Background()

	app := &App{Config: cfg}
	if w := buildGELF(cfg); w != nil {
		app.closers = append(app.closers, func() error {
			telemetry.SetOutput(nil)
			return w.Close()
		})
	}

	store, err := OpenStore(ctx, cfg)
	if err != nil {
		app.Close()
		return nil, err
	}
	if store.Close != nil {
		app.closers = append(app.closers, store.Close)
	}

	app.Store = store
	app.IdeasService = ideas.NewService(store.Repo)
	app.IdeasHandler = ideas.NewHandler(app.IdeasService)
	app.Health = health.NewService(store.Backend, store.Repo)
	app.Router = server.NewRouter(server.RouterDeps{
		Config:       app.Config,
		IdeasHandler: app.IdeasHandler,
		Health:       app.Health,
	})

	return app, nil
}

// Close releases resources acquired by Build in reverse order.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

// OpenStore resolves the ideas repository for cfg.StoreBackend.
func OpenStore(ctx context.Context, cfg config.Config) (Store, error) {
	switch cfg.StoreBackend {
	case config.BackendMemory:
		return memoryStore(), nil
	case config.BackendBolt:
		return openBolt(cfg)
	case config.BackendPostgres:
		return openPostgres(ctx, cfg)
	default:
		return openMongo(cfg)
	}
}

func memoryStore() Store {
	return Store{Backend: config.BackendMemory, Repo: ideas.NewMemoryRepo()}
}

// openMongo defers dialing to the first repository call.
func openMongo(cfg config.Config) (Store, error) {
	uri := strings.TrimSpace(cfg.DatabaseURL)
	if uri == "" {
		if config.IsDevLike(cfg.Env) {
			log.Printf("bootstrap: DATABASE_URL empty; using in-memory repositories")
			return memoryStore(), nil
		}
		return Store{}, fmt.Errorf("DATABASE_URL is required")
	}

	defaults := mongodb.DefaultServerOptions()
	if db.IsLambdaRuntime() {
		defaults = mongodb.DefaultLambdaOptions()
	}
	opts := mongodb.OptionsFromEnv(defaults)
	database, collection := cfg.MongoDatabase, cfg.MongoCollection

	repo := &ideas.MongoRepo{
		Collection: func(ctx context.Context) (*mongo.Collection, error) {
			return mongodb.GetCollection(ctx, uri, database, collection, opts)
		},
	}
	return Store{Backend: config.BackendMongo, Repo: repo}, nil
}

func openPostgres(ctx context.Context, cfg config.Config) (Store, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if config.IsDevLike(cfg.Env) {
			log.Printf("bootstrap: DATABASE_URL empty; using in-memory repositories")
			return memoryStore(), nil
		}
		return Store{}, fmt.Errorf("DATABASE_URL is required")
	}

	sqlDB, err := connectPostgres(ctx, cfg.DatabaseURL)
	if err == nil {
		if err = db.RunMigrations(ctx, sqlDB); err != nil {
			err = fmt.Errorf("run migrations: %w", err)
		}
	}
	if err != nil {
		if config.IsDevLike(cfg.Env) {
			log.Printf("bootstrap: database setup failed; using in-memory repositories: %v", err)
			return memoryStore(), nil
		}
		return Store{}, err
	}

	store := Store{Backend: config.BackendPostgres, Repo: &ideas.PGRepo{DB: sqlDB}}
	if !db.IsLambdaRuntime() {
		store.Close = sqlDB.Close
	}
	return store, nil
}

func connectPostgres(ctx context.Context, databaseURL string) (*sql.DB, error) {
	if db.IsLambdaRuntime() {
		return db.GetSingleton(ctx, databaseURL, db.OptionsFromEnv(db.DefaultLambdaOptions()))
	}
	return db.Connect(ctx, databaseURL, db.OptionsFromEnv(db.DefaultServerOptions()))
}

func openBolt(cfg config.Config) (Store, error) {
	if dir := filepath.Dir(cfg.BoltPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return Store{}, fmt.Errorf("create bolt dir: %w", err)
		}
	}
	repo, err := ideas.OpenBoltRepo(cfg.BoltPath, cfg.MongoCollection)
	if err != nil {
		return Store{}, err
	}
	return Store{Backend: config.BackendBolt, Repo: repo, Close: repo.Close}, nil
}

// buildGELF mirrors log lines to Graylog when GELF_ADDR is set.
func buildGELF(cfg config.Config) *telemetry.GELFWriter {
	addr := strings.TrimSpace(cfg.GELFAddr)
	if addr == "" {
		return nil
	}
	w, err := telemetry.NewGELFWriter(addr, serviceName)
	if err != nil {
		log.Printf("bootstrap: gelf disabled: %v", err)
		return nil
	}
	telemetry.SetOutput(io.MultiWriter(os.Stdout, w))
	return w
}
