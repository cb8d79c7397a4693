package records

import (
	"context"
	_ "embed"
	"fmt"
	"net/url"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/qustavo/dotsql"
)

//go:embed queries/records.sql
var recordsSQL string

const (
	maxOpenConns    = 8
	maxIdleConns    = 2
	connMaxIdleTime = 5 * time.Minute
	connMaxLifetime = 30 * time.Minute
)

// SQLStorage keeps records in SQLite or PostgreSQL
type SQLStorage struct {
	db  *sqlx.DB
	dot *dotsql.DotSql
}

// OpenSQL connects to a sqlite:// or postgres:// URL and creates the
// records table when missing
func OpenSQL(ctx context.Context, dbURL string) (*SQLStorage, error) {
	driverName, dataSource, err := parseDatabaseURL(dbURL)
	if err != nil {
		return nil, err
	}

	db, err := sqlx.Open(driverName, dataSource)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxIdleConns)
	db.SetConnMaxIdleTime(connMaxIdleTime)
	db.SetConnMaxLifetime(connMaxLifetime)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	dot, err := dotsql.LoadFromString(recordsSQL)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to parse queries: %w", err)
	}

	s := &SQLStorage{db: db, dot: dot}
	if err := s.exec(ctx, "create-records-table"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create records table: %w", err)
	}

	return s, nil
}

// parseDatabaseURL maps sqlite://file.db, sqlite:///abs/path and
// postgres://... onto a driver name and data source
func parseDatabaseURL(dbURL string) (string, string, error) {
	u, err := url.Parse(dbURL)
	if err != nil {
		return "", "", fmt.Errorf("invalid database URL: %w", err)
	}

	switch u.Scheme {
	case "sqlite":
		if u.Host != "" {
			return "sqlite3", u.Host + u.Path, nil
		}
		return "sqlite3", u.Path, nil
	case "postgres", "postgresql":
		return "postgres", dbURL, nil
	default:
		return "", "", fmt.Errorf("unsupported database scheme: %s (expected sqlite or postgres)", u.Scheme)
	}
}

func (s *SQLStorage) query(name string) (string, error) {
	query, err := s.dot.Raw(name)
	if err != nil {
		return "", fmt.Errorf("query not found: %s", name)
	}
	return s.db.Rebind(query), nil
}

func (s *SQLStorage) exec(ctx context.Context, name string, args ...interface{}) error {
	query, err := s.query(name)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, query, args...)
	return err
}

func (s *SQLStorage) Load(ctx context.Context) ([]Record, error) {
	query, err := s.query("list-records")
	if err != nil {
		return nil, err
	}

	var records []Record
	if err := s.db.SelectContext(ctx, &records, query); err != nil {
		return nil, err
	}
	return records, nil
}

func (s *SQLStorage) Append(ctx context.Context, rec Record) error {
	return s.exec(ctx, "insert-record",
		rec.ID, rec.CNPJ, rec.RazaoSocial, rec.NomeFantasia, rec.CEP,
		rec.Logradouro, rec.Bairro, rec.Cidade, rec.Estado, rec.CreatedAt)
}

func (s *SQLStorage) Name() string { return s.db.DriverName() }

func (s *SQLStorage) Close() error { return s.db.Close() }
