package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/nhle/letterbox/internal/model"
)

// SQLiteStore implements the Store interface using a local SQLite database.
type SQLiteStore struct {
	db *sqlx.DB
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore opens (or creates) a SQLite database at dbPath,
// enables WAL mode, and runs any pending schema migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// An in-memory database exists per connection.
	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// runMigrations checks the current schema version and applies any
// outstanding migrations in order.
func (s *SQLiteStore) runMigrations() error {
	currentVersion := 0

	var tableCount int
	err := s.db.Get(
		&tableCount,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	)
	if err != nil {
		return fmt.Errorf("checking schema_version table: %w", err)
	}

	if tableCount > 0 {
		err = s.db.Get(&currentVersion, "SELECT COALESCE(MAX(version), 0) FROM schema_version")
		if err != nil {
			return fmt.Errorf("reading schema version: %w", err)
		}
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}
		if _, err := s.db.Exec(m.sql); err != nil {
			return fmt.Errorf("applying migration v%d: %w", m.version, err)
		}
	}

	return nil
}

// SchemaVersion returns the highest applied migration.
func (s *SQLiteStore) SchemaVersion() (int, error) {
	var v int
	if err := s.db.Get(&v, "SELECT COALESCE(MAX(version), 0) FROM schema_version"); err != nil {
		return 0, fmt.Errorf("reading schema version: %w", err)
	}
	return v, nil
}

// ImportMails appends mails in order. Incoming IDs are ignored; the
// database assigns new ones. It returns the number of rows written.
func (s *SQLiteStore) ImportMails(ctx context.Context, mails []model.Mail) (int, error) {
	if len(mails) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	const query = `
		INSERT INTO mails (
			sender, subject, preview, body,
			stamp_ref, timestamp, important
		) VALUES (?, ?, ?, ?, ?, ?, ?)`

	stmt, err := tx.PreparexContext(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("preparing insert statement: %w", err)
	}
	defer stmt.Close()

	for i, m := range mails {
		body, err := json.Marshal(nonNil(m.Body))
		if err != nil {
			return 0, fmt.Errorf("marshaling body of mail %d: %w", i, err)
		}

		_, err = stmt.ExecContext(ctx,
			m.Sender, m.Subject, m.Preview, string(body),
			m.StampRef, m.Timestamp, boolToInt(m.Important),
		)
		if err != nil {
			return 0, fmt.Errorf("inserting mail %d from %q: %w", i, m.Sender, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing import: %w", err)
	}
	return len(mails), nil
}

// LoadMails returns the mails matching filter in insertion order.
func (s *SQLiteStore) LoadMails(ctx context.Context, filter MailFilter) ([]model.Mail, error) {
	var conditions []string
	var args []interface{}

	if filter.ImportantOnly {
		conditions = append(conditions, "important = 1")
	}
	if filter.Query != nil && *filter.Query != "" {
		conditions = append(conditions, "(sender LIKE ? OR subject LIKE ? OR preview LIKE ?)")
		q := "%" + *filter.Query + "%"
		args = append(args, q, q, q)
	}

	query := `SELECT id, sender, subject, preview, body, stamp_ref, timestamp, important FROM mails`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY id ASC"
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	}

	rows, err := s.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying mails: %w", err)
	}
	defer rows.Close()

	var mails []model.Mail
	for rows.Next() {
		m, err := scanMail(rows)
		if err != nil {
			return nil, err
		}
		mails = append(mails, m)
	}

	return mails, rows.Err()
}

// CountMails returns the number of stored mails.
func (s *SQLiteStore) CountMails(ctx context.Context) (int, error) {
	var n int
	if err := s.db.GetContext(ctx, &n, "SELECT COUNT(*) FROM mails"); err != nil {
		return 0, fmt.Errorf("counting mails: %w", err)
	}
	return n, nil
}

// ClearMails removes every stored mail.
func (s *SQLiteStore) ClearMails(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM mails"); err != nil {
		return fmt.Errorf("clearing mails: %w", err)
	}
	return nil
}

// scanMail scans a mail row from a sqlx.Rows result set.
func scanMail(rows *sqlx.Rows) (model.Mail, error) {
	var (
		m         model.Mail
		body      string
		important int
	)

	err := rows.Scan(
		&m.ID, &m.Sender, &m.Subject, &m.Preview, &body,
		&m.StampRef, &m.Timestamp, &important,
	)
	if err != nil {
		return model.Mail{}, fmt.Errorf("scanning mail row: %w", err)
	}

	m.Important = important != 0

	if body != "" {
		if err := json.Unmarshal([]byte(body), &m.Body); err != nil {
			return model.Mail{}, fmt.Errorf("unmarshaling body of mail %d: %w", m.ID, err)
		}
	}

	return m, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// boolToInt converts a boolean to 0 or 1 for SQLite storage.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
