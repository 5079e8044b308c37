package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"github.com/seoscan/seoscan/internal/analyzer"
	"github.com/seoscan/seoscan/internal/pagespeed"
)

// SQLiteStore is a Store backed by a local SQLite database.
type SQLiteStore struct {
	db *sql.DB
	mu sync.RWMutex
}

// NewSQLiteStore opens the database at path and ensures the schema.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	// SQLite connection with optimizations
	dsn := fmt.Sprintf("%s?_journal=WAL&_synchronous=NORMAL&_cache_size=10000&_busy_timeout=5000", path)

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// SQLite only supports one writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Create inserts a new audit.
func (s *SQLiteStore) Create(ctx context.Context, audit *Audit) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	scoresJSON, issuesJSON, psJSON, htmlJSON, err := marshalPayloads(audit)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO audits (id, user_id, website_url, display_name, tier, status, created_at,
			completed_at, pages_scanned, error_message, scores_json, issues_json, pagespeed_json, html_analysis_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, audit.ID, audit.UserID, audit.WebsiteURL, audit.DisplayName, audit.Tier, audit.Status,
		audit.CreatedAt, audit.CompletedAt, audit.PagesScanned, audit.Error,
		scoresJSON, issuesJSON, psJSON, htmlJSON)
	if err != nil {
		return fmt.Errorf("failed to insert audit: %w", err)
	}

	return nil
}

// Get returns the audit with the given ID.
func (s *SQLiteStore) Get(ctx context.Context, id string) (*Audit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, website_url, display_name, tier, status, created_at,
			completed_at, pages_scanned, error_message, scores_json, issues_json, pagespeed_json, html_analysis_json
		FROM audits WHERE id = ?
	`, id)

	audit, err := scanAudit(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return audit, nil
}

// Update overwrites the stored audit.
func (s *SQLiteStore) Update(ctx context.Context, audit *Audit) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	scoresJSON, issuesJSON, psJSON, htmlJSON, err := marshalPayloads(audit)
	if err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE audits SET
			user_id = ?, website_url = ?, display_name = ?, tier = ?, status = ?,
			created_at = ?, completed_at = ?, pages_scanned = ?, error_message = ?,
			scores_json = ?, issues_json = ?, pagespeed_json = ?, html_analysis_json = ?
		WHERE id = ?
	`, audit.UserID, audit.WebsiteURL, audit.DisplayName, audit.Tier, audit.Status,
		audit.CreatedAt, audit.CompletedAt, audit.PagesScanned, audit.Error,
		scoresJSON, issuesJSON, psJSON, htmlJSON, audit.ID)
	if err != nil {
		return fmt.Errorf("failed to update audit: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns audits matching the filter, newest first.
func (s *SQLiteStore) List(ctx context.Context, filter ListFilter) ([]*Audit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var conds []string
	var args []interface{}
	if filter.UserID != "" {
		conds = append(conds, "user_id = ?")
		args = append(args, filter.UserID)
	}
	if filter.Status != "" {
		conds = append(conds, "status = ?")
		args = append(args, filter.Status)
	}

	query := `
		SELECT id, user_id, website_url, display_name, tier, status, created_at,
			completed_at, pages_scanned, error_message, scores_json, issues_json, pagespeed_json, html_analysis_json
		FROM audits`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY created_at DESC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	audits := make([]*Audit, 0)
	for rows.Next() {
		audit, err := scanAudit(rows)
		if err != nil {
			return nil, err
		}
		audits = append(audits, audit)
	}
	return audits, rows.Err()
}

// Delete removes the audit.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.db.ExecContext(ctx, `DELETE FROM audits WHERE id = ?`, id)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanAudit(row scanner) (*Audit, error) {
	var audit Audit
	var completedAt sql.NullTime
	var displayName, errMsg sql.NullString
	var scoresJSON, issuesJSON, psJSON, htmlJSON sql.NullString

	err := row.Scan(
		&audit.ID, &audit.UserID, &audit.WebsiteURL, &displayName, &audit.Tier,
		&audit.Status, &audit.CreatedAt, &completedAt, &audit.PagesScanned, &errMsg,
		&scoresJSON, &issuesJSON, &psJSON, &htmlJSON,
	)
	if err != nil {
		return nil, err
	}

	audit.DisplayName = displayName.String
	audit.Error = errMsg.String
	if completedAt.Valid {
		t := completedAt.Time
		audit.CompletedAt = &t
	}

	if err := unmarshalPayload(scoresJSON, &audit.Scores); err != nil {
		return nil, err
	}
	if err := unmarshalPayload(issuesJSON, &audit.IssuesCount); err != nil {
		return nil, err
	}
	if err := unmarshalPayload(psJSON, &audit.PageSpeedResults); err != nil {
		return nil, err
	}
	if err := unmarshalPayload(htmlJSON, &audit.HTMLAnalysis); err != nil {
		return nil, err
	}

	return &audit, nil
}

func marshalPayloads(audit *Audit) (scores, issues, ps, html sql.NullString, err error) {
	if scores, err = marshalPayload(audit.Scores); err != nil {
		return
	}
	if issues, err = marshalPayload(audit.IssuesCount); err != nil {
		return
	}
	if ps, err = marshalPayload(audit.PageSpeedResults); err != nil {
		return
	}
	html, err = marshalPayload(audit.HTMLAnalysis)
	return
}

func marshalPayload(v interface{}) (sql.NullString, error) {
	switch p := v.(type) {
	case *Scores:
		if p == nil {
			return sql.NullString{}, nil
		}
	case *IssuesCount:
		if p == nil {
			return sql.NullString{}, nil
		}
	case *pagespeed.RunResult:
		if p == nil {
			return sql.NullString{}, nil
		}
	case *analyzer.HTMLAnalysisResult:
		if p == nil {
			return sql.NullString{}, nil
		}
	}

	data, err := json.Marshal(v)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("failed to encode payload: %w", err)
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}

func unmarshalPayload(src sql.NullString, dst interface{}) error {
	if !src.Valid || src.String == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(src.String), dst); err != nil {
		return fmt.Errorf("failed to decode payload: %w", err)
	}
	return nil
}
