package store

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/stretchr/testify/suite"

	"github.com/RichardKnop/casedocs/db"
)

func TestStoreTestSuite(t *testing.T) {
	suite.Run(t, new(StoreTestSuite))
}

func TestPostgresStoreTestSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping postgres suite in short mode")
	}
	suite.Run(t, new(PostgresStoreTestSuite))
}

// StoreTestSuite runs against a sqlite database file.
type StoreTestSuite struct {
	suite.Suite
	dialect db.Dialect
	db      *sql.DB
	adapter *Adapter
}

func (s *StoreTestSuite) SetupSuite() {
	var err error

	s.dialect = db.DialectSQLite
	s.db, err = sql.Open(
		"sqlite3",
		fmt.Sprintf("file:%s?mode=rwc&cache=shared", filepath.Join(s.T().TempDir(), "casedocs.sqlite")),
	)
	s.Require().NoError(err)
	s.db.SetMaxOpenConns(1)
}

func (s *StoreTestSuite) TearDownSuite() {
	s.Require().NoError(s.db.Close())
}

func (s *StoreTestSuite) SetupTest() {
	// Migrate down and migrate up to have a clean schema
	s.Require().NoError(db.Reset(s.db, s.dialect))
	s.adapter = New(s.db, WithDialect(s.dialect))
}

func (s *StoreTestSuite) TearDownTest() {
}

// PostgresStoreTestSuite runs the same tests against postgres in docker.
type PostgresStoreTestSuite struct {
	StoreTestSuite
	container *dockertest.Resource
}

func (s *PostgresStoreTestSuite) SetupSuite() {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	p, err := startPostgresContainer(ctx)
	if err != nil {
		log.Fatalf("could not start postgres container: %s", err)
	}
	s.container = p

	s.dialect = db.DialectPostgres
	s.db, err = sql.Open(
		"pgx",
		fmt.Sprintf(
			"postgres://casedocs:casedocs@%s/casedocs?sslmode=disable",
			os.Getenv("POSTGRES_ADDR"),
		),
	)
	s.Require().NoError(err)
}

func (s *PostgresStoreTestSuite) TearDownSuite() {
	s.Require().NoError(s.db.Close())
	s.Require().NoError(s.container.Close())
}

func testContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 3*time.Second)
}

func startPostgresContainer(ctx context.Context) (*dockertest.Resource, error) {
	// Start a new docker pool
	pool, err := dockertest.NewPool("")
	if err != nil {
		return nil, fmt.Errorf("could not construct pool: %w", err)
	}

	// Uses pool to try to connect to Docker
	err = pool.Client.Ping()
	if err != nil {
		return nil, fmt.Errorf("could not connect to Docker: %w", err)
	}

	r, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "17.6-alpine3.22",
		Env: []string{
			"POSTGRES_DB=casedocs",
			"POSTGRES_USER=casedocs",
			"POSTGRES_PASSWORD=casedocs",
		},
	}, func(config *docker.HostConfig) {
		// set AutoRemove to true so that stopped container goes away by itself
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{
			Name: "no",
		}
	})
	if err != nil {
		return nil, fmt.Errorf("could not start resource: %w", err)
	}

	r.Expire(120)

	addr := fmt.Sprintf("localhost:%s", r.GetPort("5432/tcp"))

	os.Setenv("POSTGRES_ADDR", addr)

	// Wait for postgres to accept connections
	if err := pool.Retry(func() error {
		sqlDB, err := sql.Open(
			"pgx",
			fmt.Sprintf("postgres://casedocs:casedocs@%s/casedocs?sslmode=disable", addr),
		)
		if err != nil {
			return err
		}
		defer sqlDB.Close()

		return sqlDB.PingContext(ctx)
	}); err != nil {
		return nil, fmt.Errorf("could not connect to postgres: %w", err)
	}

	return r, nil
}
