package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/pressly/goose/v3"
	"github.com/redis/go-redis/v9"
	_ "modernc.org/sqlite"

	"github.com/rafidain/schoollink/assets"
	"github.com/rafidain/schoollink/core"
	"github.com/rafidain/schoollink/storage/database/inmem"
	"github.com/rafidain/schoollink/storage/database/redisstore"
	"github.com/rafidain/schoollink/storage/database/sqlstore"
)

var (
	drivers = map[string]string{
		core.EngineSQLite:   "sqlite",
		core.EnginePostgres: "postgres",
	}
	dialects = map[string]string{
		core.EngineSQLite:   "sqlite3",
		core.EnginePostgres: "postgres",
	}
)

// Open connects to the SQL database of an sqlite or postgres engine.
func Open(conf core.StorageConfig) (*sqlx.DB, error) {
	driver, ok := drivers[conf.Engine]
	if !ok {
		return nil, errors.Errorf("%q is not an SQL engine", conf.Engine)
	}
	db, err := sqlx.Open(driver, conf.DSN)
	if err != nil {
		return nil, errors.Wrap(err, "opening database")
	}
	if conf.Engine == core.EngineSQLite {
		// a single connection serializes writers
		db.SetMaxOpenConns(1)
	}
	return db, nil
}

// ping waits for the database to be ready. Waits 100ms longer between each attempt.
func ping(ctx context.Context, db *sql.DB) error {
	var err error
	maxAttempts := 30
	for attempts := 1; attempts <= maxAttempts; attempts++ {
		err = db.PingContext(ctx)
		if err == nil {
			break
		}
		if serr := core.Sleep(ctx, time.Duration(attempts)*100*time.Millisecond); serr != nil {
			return serr
		}
	}

	if err != nil {
		return errors.Wrap(err, "DB ping timeout")
	}
	return nil
}

func setupGoose(engine string) error {
	goose.SetBaseFS(assets.FS)
	return goose.SetDialect(dialects[engine])
}

// Migrate applies every pending migration.
func Migrate(ctx context.Context, db *sql.DB, engine string) error {
	if err := setupGoose(engine); err != nil {
		return errors.Wrap(err, "migrating database")
	}
	if err := goose.UpContext(ctx, db, assets.MigrationsDir); err != nil {
		return errors.Wrap(err, "migrating database")
	}
	return nil
}

// RunMigrations runs a goose command (up, down, status, version, redo, reset, ...).
func RunMigrations(ctx context.Context, db *sql.DB, engine, command string, args ...string) error {
	if err := setupGoose(engine); err != nil {
		return err
	}
	return goose.RunContext(ctx, command, db, assets.MigrationsDir, args...)
}

// NewRecordStore opens the record store of the configured engine.
// SQL databases are migrated first. The returned func releases the underlying connection.
func NewRecordStore(ctx context.Context, conf core.StorageConfig) (core.RecordStore, func() error, error) {
	switch conf.Engine {
	case core.EngineMemory:
		return inmem.NewStore(), func() error { return nil }, nil

	case core.EngineSQLite, core.EnginePostgres:
		db, err := Open(conf)
		if err != nil {
			return nil, nil, err
		}
		if err = ping(ctx, db.DB); err != nil {
			_ = db.Close()
			return nil, nil, errors.Wrap(err, "pinging database")
		}
		if err = Migrate(ctx, db.DB, conf.Engine); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		return sqlstore.NewStore(db), db.Close, nil

	case core.EngineRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     conf.RedisAddr,
			Password: conf.RedisPassword,
			DB:       conf.RedisDB,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := client.Ping(pingCtx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, errors.Wrap(err, "pinging redis")
		}
		return redisstore.NewStore(client, conf.KeyPrefix), client.Close, nil
	}
	return nil, nil, errors.Errorf("unknown storage engine %q", conf.Engine)
}
