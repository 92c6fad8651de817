package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "modernc.org/sqlite"

	"listings_admin/internal/domain"
	"listings_admin/internal/storage/sqlstore/migrations"
)

const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"
)

// Store owns the connection pool and hands out one table per record kind.
type Store struct {
	db     *sql.DB
	driver string
	now    func() time.Time
}

// Open connects, pings and brings the schema up to date.
func Open(ctx context.Context, driver, dsn string) (*Store, error) {
	driver = strings.ToLower(strings.TrimSpace(driver))
	switch driver {
	case DriverMySQL:
	case DriverSQLite:
		dsn = sqliteDSN(dsn)
	default:
		return nil, fmt.Errorf("unsupported db driver %q", driver)
	}
	if strings.TrimSpace(dsn) == "" {
		return nil, fmt.Errorf("db dsn is required")
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	if driver == DriverSQLite {
		// single writer; avoids SQLITE_BUSY under parallel imports
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(20)
		db.SetMaxIdleConns(10)
		db.SetConnMaxLifetime(30 * time.Minute)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", driver, err)
	}
	if err := ApplyMigrations(ctx, db, driver, migrations.FS); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db, driver: driver, now: time.Now}, nil
}

func sqliteDSN(dsn string) string {
	if dsn == "" || strings.Contains(dsn, "_pragma=busy_timeout") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_pragma=busy_timeout(5000)"
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }

func (s *Store) Driver() string { return s.driver }

// Stores builds the per-kind tables over the shared pool.
func (s *Store) Stores() domain.Stores {
	return domain.Stores{
		Properties:       PropertyTable{newTable(s.db, s.now, propertySpec)},
		Neighborhoods:    newTable(s.db, s.now, neighborhoodSpec),
		Developments:     newTable(s.db, s.now, developmentSpec),
		Enquiries:        EnquiryTable{newTable(s.db, s.now, enquirySpec)},
		Agents:           newTable(s.db, s.now, agentSpec),
		Articles:         newTable(s.db, s.now, articleSpec),
		BannerHighlights: newTable(s.db, s.now, bannerHighlightSpec),
		Developers:       newTable(s.db, s.now, developerSpec),
		Sitemap:          newTable(s.db, s.now, sitemapSpec),
	}
}
