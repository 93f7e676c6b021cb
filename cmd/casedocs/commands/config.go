package commands

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"

	"github.com/RichardKnop/casedocs"
	"github.com/RichardKnop/casedocs/adapter/filestorage"
	redisAdapter "github.com/RichardKnop/casedocs/adapter/redis"
	"github.com/RichardKnop/casedocs/adapter/s3storage"
	"github.com/RichardKnop/casedocs/adapter/store"
	"github.com/RichardKnop/casedocs/db"
)

func setDefaults() {
	viper.SetDefault("server.addr", "localhost:9020")
	viper.SetDefault("db.dialect", string(db.DialectSQLite))
	viper.SetDefault("db.dsn", "file:casedocs.sqlite?mode=rwc&cache=shared")
	viper.SetDefault("db.migrate_on_start", true)
	viper.SetDefault("lookup.strategy", string(casedocs.StrategyBatched))
	viper.SetDefault("lookup.document_batch_size", 500)
	viper.SetDefault("cache.enabled", false)
	viper.SetDefault("cache.ttl", 10*time.Minute)
	viper.SetDefault("cache.key_prefix", "casedocs:docs:")
	viper.SetDefault("redis.addr", "localhost:6379")
	viper.SetDefault("redis.protocol", 2)
	viper.SetDefault("storage.backend", "local")
	viper.SetDefault("storage.local.dir", "data/files")
	viper.SetDefault(casedocs.BaseDataDirectorySetting, "data")
	viper.SetDefault("log.level", "info")
}

// app holds the wired service and everything that needs closing afterwards.
type app struct {
	db      *sql.DB
	dialect db.Dialect
	redis   *redis.Client
	service *casedocs.Service
}

func (a *app) Close() error {
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			logger.Sugar().With("error", err).Warn("error closing redis client")
		}
	}
	return a.db.Close()
}

func openDB(ctx context.Context) (*sql.DB, db.Dialect, error) {
	dialect, err := db.ParseDialect(viper.GetString("db.dialect"))
	if err != nil {
		return nil, "", err
	}

	logger.Sugar().With("dialect", dialect).Info("connecting to db")
	sqlDB, err := sql.Open(dialect.DriverName(), viper.GetString("db.dsn"))
	if err != nil {
		return nil, "", fmt.Errorf("db open: %w", err)
	}
	if dialect == db.DialectSQLite {
		sqlDB.SetMaxOpenConns(1)
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		// Lookups report an unavailable store instead of failing, keep going.
		logger.Sugar().With("error", err).Warn("db ping failed")
	}

	return sqlDB, dialect, nil
}

func newApp(ctx context.Context) (*app, error) {
	sqlDB, dialect, err := openDB(ctx)
	if err != nil {
		return nil, err
	}
	a := &app{db: sqlDB, dialect: dialect}

	if viper.GetBool("db.migrate_on_start") {
		if err := db.Migrate(sqlDB, dialect); err != nil {
			a.Close()
			return nil, fmt.Errorf("db migrate: %w", err)
		}
	}

	storeAdapter := store.New(sqlDB, store.WithDialect(dialect), store.WithLogger(logger))

	var documents casedocs.DocumentIndex = storeAdapter
	if viper.GetBool("cache.enabled") {
		a.redis = redis.NewClient(&redis.Options{
			Addr:     viper.GetString("redis.addr"),
			Password: viper.GetString("redis.password"),
			DB:       viper.GetInt("redis.db"),
			Protocol: viper.GetInt("redis.protocol"),
		})
		documents = redisAdapter.New(
			a.redis,
			storeAdapter,
			redisAdapter.WithKeyPrefix(viper.GetString("cache.key_prefix")),
			redisAdapter.WithTTL(viper.GetDuration("cache.ttl")),
			redisAdapter.WithLogger(logger),
		)
	}

	fileStorage, err := newFileStorage(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}

	strategy, err := casedocs.ParseStrategy(viper.GetString("lookup.strategy"))
	if err != nil {
		a.Close()
		return nil, err
	}

	a.service = casedocs.New(
		storeAdapter,
		documents,
		fileStorage,
		casedocs.WithLogger(logger),
		casedocs.WithStrategy(strategy),
		casedocs.WithDocumentBatchSize(viper.GetInt("lookup.document_batch_size")),
	)

	return a, nil
}

func newFileStorage(ctx context.Context) (casedocs.FileStorage, error) {
	switch backend := viper.GetString("storage.backend"); backend {
	case "local":
		dir := viper.GetString("storage.local.dir")
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage dir: %w", err)
		}
		return filestorage.New(
			filestorage.WithDir(dir),
			filestorage.WithLogger(logger),
		)
	case "s3":
		client, err := s3storage.NewClient(ctx, s3storage.Config{
			Bucket:    viper.GetString("storage.s3.bucket"),
			Region:    viper.GetString("storage.s3.region"),
			AccessKey: viper.GetString("storage.s3.access_key"),
			SecretKey: viper.GetString("storage.s3.secret_key"),
			Endpoint:  viper.GetString("storage.s3.endpoint"),
		})
		if err != nil {
			return nil, err
		}
		return s3storage.New(
			client,
			viper.GetString("storage.s3.bucket"),
			s3storage.WithPrefix(viper.GetString("storage.s3.prefix")),
			s3storage.WithLogger(logger),
		)
	default:
		return nil, fmt.Errorf("unknown storage backend: %s", backend)
	}
}
