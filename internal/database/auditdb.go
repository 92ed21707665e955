package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/mhdismailalsayad/Accessiblity-analyzer/internal/model"
)

// FileName is the database file created in the database directory.
const FileName = "a11yscan.db"

// ErrAuditNotFound is returned when no stored audit matches a lookup.
var ErrAuditNotFound = errors.New("audit not found")

// AuditDB stores finished audits in SQLite.
// The whole audit is kept as JSON next to a few columns used for listing.
type AuditDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file, empty for injected
	// connections.
	dbPath string
}

// Options configures AuditDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates an AuditDB in dbDir.
func Open(dbDir string, opts Options) (*AuditDB, error) {
	dbPath := filepath.Join(dbDir, FileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else if err := os.MkdirAll(dbDir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// mode=rw refuses to create a missing file.
	dsn := dbPath + "?mode=rwc"
	if !opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rw"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	adb := &AuditDB{db: db, dbPath: dbPath}
	if err := adb.createTables(context.Background()); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return adb, nil
}

// New wraps an existing connection. The schema is not created.
func New(db *sql.DB) *AuditDB {
	return &AuditDB{db: db}
}

// Path returns the database file path.
func (adb *AuditDB) Path() string {
	return adb.dbPath
}

// Close closes the database connection.
func (adb *AuditDB) Close() error {
	return adb.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (adb *AuditDB) createTables(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS audits (
		id TEXT PRIMARY KEY,
		seed_url TEXT NOT NULL,
		started_at TEXT NOT NULL,
		finished_at TEXT NOT NULL,
		page_count INTEGER NOT NULL,
		score REAL NOT NULL,
		total_deduction REAL NOT NULL,
		report_json TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_audits_seed ON audits(seed_url);
	CREATE INDEX IF NOT EXISTS idx_audits_started ON audits(started_at);

	-- One row per audited page, for per-URL history
	CREATE TABLE IF NOT EXISTS page_reports (
		audit_id TEXT NOT NULL REFERENCES audits(id) ON DELETE CASCADE,
		url TEXT NOT NULL,
		score REAL NOT NULL,
		report_json TEXT NOT NULL,
		PRIMARY KEY (audit_id, url)
	);

	CREATE INDEX IF NOT EXISTS idx_page_reports_url ON page_reports(url);
	`

	_, err := adb.db.ExecContext(ctx, schema)
	return err
}

// AuditSummary is the listing view of a stored audit.
type AuditSummary struct {
	ID             string
	SeedURL        string
	StartedAt      time.Time
	FinishedAt     time.Time
	PageCount      int
	Score          float64
	TotalDeduction float64
}

// SaveAudit stores a finished audit and its per-page reports in one
// transaction. Saving an audit with an existing ID replaces it.
func (adb *AuditDB) SaveAudit(ctx context.Context, audit *model.Audit) error {
	reportJSON, err := json.Marshal(audit)
	if err != nil {
		return fmt.Errorf("failed to serialize audit: %w", err)
	}

	pageScores := make(map[string]float64, len(audit.PerURL))
	for _, s := range audit.PerURL {
		pageScores[s.URL] = s.Breakdown.Score
	}

	tx, err := adb.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if _, err := tx.ExecContext(ctx, `DELETE FROM page_reports WHERE audit_id = ?`, audit.ID); err != nil {
		return fmt.Errorf("failed to clear page reports: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
	INSERT INTO audits (id, seed_url, started_at, finished_at, page_count, score, total_deduction, report_json)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		seed_url = excluded.seed_url,
		started_at = excluded.started_at,
		finished_at = excluded.finished_at,
		page_count = excluded.page_count,
		score = excluded.score,
		total_deduction = excluded.total_deduction,
		report_json = excluded.report_json
	`,
		audit.ID,
		audit.SeedURL,
		formatTimestamp(audit.StartedAt),
		formatTimestamp(audit.FinishedAt),
		len(audit.Pages),
		audit.Overall.Score,
		audit.Overall.TotalDeduction,
		string(reportJSON),
	)
	if err != nil {
		return fmt.Errorf("failed to save audit: %w", err)
	}

	for _, report := range audit.Reports {
		pageJSON, err := json.Marshal(report)
		if err != nil {
			return fmt.Errorf("failed to serialize page report: %w", err)
		}

		score, ok := pageScores[report.URL]
		if !ok {
			score = model.PerfectScore().Score
		}

		_, err = tx.ExecContext(ctx, `
		INSERT INTO page_reports (audit_id, url, score, report_json)
		VALUES (?, ?, ?, ?)
		`, audit.ID, report.URL, score, string(pageJSON))
		if err != nil {
			return fmt.Errorf("failed to save page report for %s: %w", report.URL, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit audit: %w", err)
	}
	return nil
}

// GetAudit returns the audit with the given ID.
func (adb *AuditDB) GetAudit(ctx context.Context, id string) (*model.Audit, error) {
	row := adb.db.QueryRowContext(ctx, `SELECT report_json FROM audits WHERE id = ?`, id)
	return scanAudit(row)
}

// GetLatestAudit returns the most recent audit of seedURL.
func (adb *AuditDB) GetLatestAudit(ctx context.Context, seedURL string) (*model.Audit, error) {
	row := adb.db.QueryRowContext(ctx, `
	SELECT report_json FROM audits
	WHERE seed_url = ?
	ORDER BY started_at DESC
	LIMIT 1
	`, seedURL)
	return scanAudit(row)
}

// scanAudit decodes a report_json row.
func scanAudit(row *sql.Row) (*model.Audit, error) {
	var reportJSON string
	err := row.Scan(&reportJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAuditNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get audit: %w", err)
	}

	var audit model.Audit
	if err := json.Unmarshal([]byte(reportJSON), &audit); err != nil {
		return nil, fmt.Errorf("failed to parse audit: %w", err)
	}
	return &audit, nil
}

// ListAudits returns the most recent audits first. A limit of zero or less
// returns all of them.
func (adb *AuditDB) ListAudits(ctx context.Context, limit int) ([]AuditSummary, error) {
	query := `
	SELECT id, seed_url, started_at, finished_at, page_count, score, total_deduction
	FROM audits
	ORDER BY started_at DESC
	`
	args := make([]any, 0, 1)
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := adb.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list audits: %w", err)
	}
	defer rows.Close()

	results := make([]AuditSummary, 0)
	for rows.Next() {
		var s AuditSummary
		var started, finished string
		if err := rows.Scan(&s.ID, &s.SeedURL, &started, &finished, &s.PageCount, &s.Score, &s.TotalDeduction); err != nil {
			return nil, fmt.Errorf("failed to scan audit: %w", err)
		}
		s.StartedAt = parseTimestamp(started)
		s.FinishedAt = parseTimestamp(finished)
		results = append(results, s)
	}

	return results, rows.Err()
}

// PageHistory is one stored score of a page.
type PageHistory struct {
	AuditID   string
	StartedAt time.Time
	Score     float64
}

// GetPageHistory returns the stored scores of url, newest first.
func (adb *AuditDB) GetPageHistory(ctx context.Context, url string) ([]PageHistory, error) {
	rows, err := adb.db.QueryContext(ctx, `
	SELECT p.audit_id, a.started_at, p.score
	FROM page_reports p
	JOIN audits a ON a.id = p.audit_id
	WHERE p.url = ?
	ORDER BY a.started_at DESC
	`, url)
	if err != nil {
		return nil, fmt.Errorf("failed to get page history: %w", err)
	}
	defer rows.Close()

	results := make([]PageHistory, 0)
	for rows.Next() {
		var h PageHistory
		var started string
		if err := rows.Scan(&h.AuditID, &started, &h.Score); err != nil {
			return nil, fmt.Errorf("failed to scan page history: %w", err)
		}
		h.StartedAt = parseTimestamp(started)
		results = append(results, h)
	}

	return results, rows.Err()
}

// timestampLayout is fixed width so stored times sort as text.
const timestampLayout = "2006-01-02T15:04:05.000000000Z07:00"

// formatTimestamp formats t in UTC with timestampLayout.
func formatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

// timestampFormats contains the timestamp formats that SQLite may return.
var timestampFormats = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

// parseTimestamp tries each known format and returns the zero time when
// none matches.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
