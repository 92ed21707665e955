package database

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/mhdismailalsayad/Accessiblity-analyzer/internal/model"
)

// setupTestDB creates a temporary database for testing.
func setupTestDB(t *testing.T) *AuditDB {
	t.Helper()

	db, err := Open(t.TempDir(), DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close()
	})
	return db
}

// newTestAudit builds a small finished audit.
func newTestAudit(seed string, started time.Time, score float64) *model.Audit {
	audit := model.NewAudit(seed)
	audit.StartedAt = started
	audit.FinishedAt = started.Add(time.Minute)
	audit.Pages = []string{seed, seed + "about"}

	home := model.NewPageReport(seed)
	home.AllFindings = []model.Finding{{Message: "Bilder ohne Alternativtext", Context: "<img src=\"a.png\">"}}
	about := model.NewPageReport(seed + "about")
	audit.Reports = []model.PageReport{home, about}

	audit.Overall = model.ScoreBreakdown{
		TotalDeduction: model.Round1(100 - score),
		Score:          score,
		Items: []model.ScoreItem{
			{Label: "Bilder ohne Alternativtext", Severity: model.SeveritySerious, Frequency: 1, TypeFactor: 1, Deduction: model.Round1(100 - score)},
		},
	}
	audit.PerURL = []model.URLScore{
		{URL: seed, Breakdown: audit.Overall},
		{URL: seed + "about", Breakdown: model.PerfectScore()},
	}
	return audit
}

// TestOpen tests database opening and creation.
func TestOpen(t *testing.T) {
	t.Parallel()

	t.Run("creates database in new directory", func(t *testing.T) {
		t.Parallel()

		dbDir := filepath.Join(t.TempDir(), "newdir", "subdir")
		db, err := Open(dbDir, DefaultOptions())
		if err != nil {
			t.Fatalf("failed to open database: %v", err)
		}
		defer db.Close()

		if _, err := os.Stat(filepath.Join(dbDir, FileName)); err != nil {
			t.Errorf("database file was not created: %v", err)
		}
		if db.Path() != filepath.Join(dbDir, FileName) {
			t.Errorf("unexpected path: %s", db.Path())
		}
	})

	t.Run("CreateIfNotExists=false returns error when database does not exist", func(t *testing.T) {
		t.Parallel()

		dbDir := filepath.Join(t.TempDir(), "missing")
		_, err := Open(dbDir, Options{CreateIfNotExists: false, EnableWAL: true})
		if err == nil {
			t.Fatal("expected error")
		}
		if !strings.Contains(err.Error(), "database not found") {
			t.Errorf("unexpected error: %v", err)
		}
		if _, statErr := os.Stat(dbDir); !os.IsNotExist(statErr) {
			t.Error("database directory should not have been created")
		}
	})

	t.Run("CreateIfNotExists=false opens existing database", func(t *testing.T) {
		t.Parallel()

		dbDir := t.TempDir()
		db1, err := Open(dbDir, DefaultOptions())
		if err != nil {
			t.Fatalf("failed to create database: %v", err)
		}
		_ = db1.Close()

		db2, err := Open(dbDir, Options{CreateIfNotExists: false, EnableWAL: true})
		if err != nil {
			t.Fatalf("failed to open existing database: %v", err)
		}
		_ = db2.Close()
	})
}

// TestSaveAndGetAudit tests storing and loading audits.
func TestSaveAndGetAudit(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	ctx := context.Background()
	audit := newTestAudit("https://example.com/", time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC), 93.3)

	if err := db.SaveAudit(ctx, audit); err != nil {
		t.Fatalf("failed to save audit: %v", err)
	}

	got, err := db.GetAudit(ctx, audit.ID)
	if err != nil {
		t.Fatalf("failed to get audit: %v", err)
	}
	if got.ID != audit.ID || got.SeedURL != audit.SeedURL {
		t.Errorf("unexpected audit: %+v", got)
	}
	if got.Overall.Score != 93.3 {
		t.Errorf("score = %v, want 93.3", got.Overall.Score)
	}
	if len(got.Reports) != 2 || got.Reports[0].AllFindings[0].Context != `<img src="a.png">` {
		t.Errorf("reports not restored: %+v", got.Reports)
	}

	t.Run("saving again replaces the audit", func(t *testing.T) {
		audit.Overall.Score = 50
		if err := db.SaveAudit(ctx, audit); err != nil {
			t.Fatalf("failed to save audit: %v", err)
		}
		list, err := db.ListAudits(ctx, 0)
		if err != nil {
			t.Fatalf("failed to list audits: %v", err)
		}
		if len(list) != 1 || list[0].Score != 50 {
			t.Errorf("unexpected list: %+v", list)
		}
	})

	t.Run("unknown id", func(t *testing.T) {
		if _, err := db.GetAudit(ctx, "nope"); !errors.Is(err, ErrAuditNotFound) {
			t.Errorf("expected ErrAuditNotFound, got %v", err)
		}
	})
}

// TestListAudits tests listing order and limits.
func TestListAudits(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	older := newTestAudit("https://example.com/", base, 80)
	newer := newTestAudit("https://example.com/", base.Add(500*time.Millisecond), 90)
	other := newTestAudit("https://other.example/", base.Add(-time.Hour), 70)
	for _, a := range []*model.Audit{older, newer, other} {
		if err := db.SaveAudit(ctx, a); err != nil {
			t.Fatalf("failed to save audit: %v", err)
		}
	}

	list, err := db.ListAudits(ctx, 0)
	if err != nil {
		t.Fatalf("failed to list audits: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("expected 3 audits, got %d", len(list))
	}
	if list[0].ID != newer.ID || list[1].ID != older.ID || list[2].ID != other.ID {
		t.Errorf("audits not newest first: %s, %s, %s", list[0].ID, list[1].ID, list[2].ID)
	}
	if list[0].PageCount != 2 || !list[0].StartedAt.Equal(newer.StartedAt) {
		t.Errorf("unexpected summary: %+v", list[0])
	}

	limited, err := db.ListAudits(ctx, 1)
	if err != nil {
		t.Fatalf("failed to list audits: %v", err)
	}
	if len(limited) != 1 {
		t.Errorf("expected 1 audit, got %d", len(limited))
	}

	latest, err := db.GetLatestAudit(ctx, "https://example.com/")
	if err != nil {
		t.Fatalf("failed to get latest audit: %v", err)
	}
	if latest.ID != newer.ID {
		t.Errorf("latest = %s, want %s", latest.ID, newer.ID)
	}

	if _, err := db.GetLatestAudit(ctx, "https://never.example/"); !errors.Is(err, ErrAuditNotFound) {
		t.Errorf("expected ErrAuditNotFound, got %v", err)
	}
}

// TestGetPageHistory tests per-URL scores.
func TestGetPageHistory(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	first := newTestAudit("https://example.com/", base, 80)
	second := newTestAudit("https://example.com/", base.Add(time.Hour), 95)
	for _, a := range []*model.Audit{first, second} {
		if err := db.SaveAudit(ctx, a); err != nil {
			t.Fatalf("failed to save audit: %v", err)
		}
	}

	history, err := db.GetPageHistory(ctx, "https://example.com/")
	if err != nil {
		t.Fatalf("failed to get history: %v", err)
	}
	if len(history) != 2 || history[0].Score != 95 || history[1].Score != 80 {
		t.Errorf("unexpected history: %+v", history)
	}

	about, err := db.GetPageHistory(ctx, "https://example.com/about")
	if err != nil {
		t.Fatalf("failed to get history: %v", err)
	}
	if len(about) != 2 || about[0].Score != 100 {
		t.Errorf("unexpected history: %+v", about)
	}
}

// TestSaveAuditRollback tests that a failed page insert rolls back.
func TestSaveAuditRollback(t *testing.T) {
	t.Parallel()

	conn, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer conn.Close()

	audit := newTestAudit("https://example.com/", time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC), 90)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM page_reports`).
		WithArgs(audit.ID).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`INSERT INTO audits`).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`INSERT INTO page_reports`).
		WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	err = New(conn).SaveAudit(context.Background(), audit)
	if err == nil || !strings.Contains(err.Error(), "disk full") {
		t.Errorf("expected disk full error, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

// TestGetAuditCorrupt tests a stored row that is not valid JSON.
func TestGetAuditCorrupt(t *testing.T) {
	t.Parallel()

	conn, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer conn.Close()

	mock.ExpectQuery(`SELECT report_json FROM audits`).
		WithArgs("abc").
		WillReturnRows(sqlmock.NewRows([]string{"report_json"}).AddRow("{broken"))

	_, err = New(conn).GetAudit(context.Background(), "abc")
	if err == nil || errors.Is(err, ErrAuditNotFound) {
		t.Errorf("expected parse error, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

// TestListAuditsQueryError tests a failing listing query.
func TestListAuditsQueryError(t *testing.T) {
	t.Parallel()

	conn, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer conn.Close()

	mock.ExpectQuery(`SELECT id, seed_url`).
		WithArgs(5).
		WillReturnError(errors.New("locked"))

	if _, err := New(conn).ListAudits(context.Background(), 5); err == nil {
		t.Error("expected error")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

// TestParseTimestamp tests timestamp parsing.
func TestParseTimestamp(t *testing.T) {
	t.Parallel()

	want := time.Date(2026, 3, 1, 10, 0, 0, 500, time.UTC)
	if got := parseTimestamp(formatTimestamp(want)); !got.Equal(want) {
		t.Errorf("round trip: got %v, want %v", got, want)
	}
	if got := parseTimestamp("2026-03-01 10:00:00"); got.IsZero() {
		t.Error("expected SQLite datetime format to parse")
	}
	if got := parseTimestamp("garbage"); !got.IsZero() {
		t.Errorf("expected zero time, got %v", got)
	}
}
