package gormsqlite

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"net/url"
	"runtime"
	"strings"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	gormdriver "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"
)

// MemoryPath selects a private in-memory database instead of a file.
const MemoryPath = ":memory:"

// DB pairs a read pool with a single-connection writer. In memory mode both
// fields point to the same handle because separate pools would see separate
// databases.
type DB struct {
	R *gorm.DB
	W *gorm.DB
}

type Tx struct {
	*gorm.DB
}

type cbfn func(tx *Tx) error

func (db *DB) ReadTX(ctx context.Context, fn cbfn) error {
	return db.R.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Tx{DB: tx})
	}, &sql.TxOptions{ReadOnly: true})
}

func (db *DB) WriteTX(ctx context.Context, fn cbfn) error {
	return db.W.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Tx{DB: tx})
	})
}

func (db *DB) WriteSQLDB() (*sql.DB, error) {
	return db.W.DB()
}

func (db *DB) Close() error {
	if db.R == db.W {
		return closeGORM(db.W)
	}
	var firstErr error
	for _, g := range []*gorm.DB{db.R, db.W} {
		if err := closeGORM(g); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

var _ io.Closer = (*DB)(nil)

func Open(path string) (*DB, error) {
	if path == "" || path == MemoryPath {
		return openMemory()
	}

	reader, err := openGORM(buildDSN(path, true))
	if err != nil {
		return nil, fmt.Errorf("open read db: %w", err)
	}
	writer, err := openGORM(buildDSN(path, false))
	if err != nil {
		_ = closeGORM(reader)
		return nil, fmt.Errorf("open write db: %w", err)
	}

	if err := tunePool(reader, runtime.NumCPU()); err != nil {
		_ = closeGORM(reader)
		_ = closeGORM(writer)
		return nil, fmt.Errorf("reader sql db: %w", err)
	}
	if err := tunePool(writer, 1); err != nil {
		_ = closeGORM(reader)
		_ = closeGORM(writer)
		return nil, fmt.Errorf("writer sql db: %w", err)
	}

	return &DB{R: reader, W: writer}, nil
}

func openMemory() (*DB, error) {
	db, err := openGORM(memoryDSN(uuid.NewString()))
	if err != nil {
		return nil, fmt.Errorf("open memory db: %w", err)
	}
	// The database lives as long as its last connection.
	if err := tunePool(db, 1); err != nil {
		_ = closeGORM(db)
		return nil, fmt.Errorf("memory sql db: %w", err)
	}
	return &DB{R: db, W: db}, nil
}

func openGORM(dsn string) (*gorm.DB, error) {
	newLogger := logger.New(
		log.StandardLogger(),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Silent,
			IgnoreRecordNotFoundError: true,
			ParameterizedQueries:      true,
			Colorful:                  false,
		},
	)
	return gorm.Open(gormdriver.Dialector{DriverName: "sqlite", DSN: dsn}, &gorm.Config{
		PrepareStmt: true,
		Logger:      newLogger,
	})
}

func tunePool(g *gorm.DB, conns int) error {
	sqlDB, err := g.DB()
	if err != nil {
		return err
	}
	sqlDB.SetMaxOpenConns(conns)
	sqlDB.SetMaxIdleConns(conns)
	sqlDB.SetConnMaxLifetime(0)
	sqlDB.SetConnMaxIdleTime(0)
	return nil
}

// buildDSN encodes the pragmas as _pragma parameters so the driver applies
// them to every connection the pool opens.
func buildDSN(path string, readOnly bool) string {
	params := pragmaParams()
	if readOnly {
		params = append(params, "_pragma=query_only(1)")
	} else {
		params = append(params, "_pragma=query_only(0)")
	}
	return "file:" + path + "?" + strings.Join(params, "&")
}

func memoryDSN(name string) string {
	params := []string{"mode=memory", "cache=shared"}
	params = append(params, "_pragma=foreign_keys(1)", "_pragma=busy_timeout(5000)", "_pragma=trusted_schema(OFF)")
	return "file:" + url.PathEscape(name) + "?" + strings.Join(params, "&")
}

func pragmaParams() []string {
	return []string{
		"_pragma=journal_mode(WAL)",
		"_pragma=synchronous(NORMAL)",
		"_pragma=temp_store(MEMORY)",
		"_pragma=wal_autocheckpoint(1000)",
		"_pragma=cache_size(-20000)",
		"_pragma=foreign_keys(1)",
		"_pragma=busy_timeout(5000)",
		"_pragma=trusted_schema(OFF)",
	}
}

func closeGORM(g *gorm.DB) error {
	if g == nil {
		return nil
	}
	sqlDB, err := g.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
