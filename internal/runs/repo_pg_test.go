package runs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

var runRowColumns = []string{
	"id", "request_id", "kind", "template_id", "single_page", "compiled", "provider", "model", "status",
	"failed_stage", "artifact_name", "latex_bytes", "pdf_bytes", "duration_ms", "created_at",
}

func TestPGRepoCreate(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	run := Run{
		ID:           "7f6c1c9e-2b7a-4d39-9d0b-6d7a0d0f3f11",
		RequestID:    "req-1",
		Kind:         KindGenerate,
		TemplateID:   "1",
		SinglePage:   true,
		Compiled:     true,
		Provider:     "gemini",
		Model:        "gemini-2.5-flash",
		Status:       StatusSucceeded,
		ArtifactName: "7f6c1c9e-2b7a-4d39-9d0b-6d7a0d0f3f11",
		LatexBytes:   1200,
		PDFBytes:     40000,
		DurationMs:   5300,
		CreatedAt:    time.Now().UTC(),
	}

	mock.ExpectExec("INSERT INTO generation_runs").
		WithArgs(
			run.ID, run.RequestID, run.Kind, run.TemplateID, run.SinglePage, run.Compiled,
			run.Provider, run.Model, run.Status, "", run.ArtifactName,
			run.LatexBytes, run.PDFBytes, run.DurationMs, sqlmock.AnyArg(),
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.Create(context.Background(), run); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoGetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	created := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows(runRowColumns).
		AddRow("run-1", "req-1", KindEdit, "", false, false, "gemini", "gemini-2.5-flash", StatusFailed,
			"model", "", 0, 0, int64(900), created)
	mock.ExpectQuery("SELECT (.+) FROM generation_runs").WithArgs("run-1").WillReturnRows(rows)

	repo := &PGRepo{DB: db}
	run, err := repo.GetByID(context.Background(), "run-1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if run.Kind != KindEdit || run.FailedStage != "model" || !run.CreatedAt.Equal(created) {
		t.Fatalf("unexpected run %+v", run)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoGetByIDNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	mock.ExpectQuery("SELECT (.+) FROM generation_runs").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(runRowColumns))

	repo := &PGRepo{DB: db}
	if _, err := repo.GetByID(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPGRepoListClampsLimit(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	now := time.Now().UTC()
	rows := sqlmock.NewRows(runRowColumns).
		AddRow("a", "", KindGenerate, "2", true, true, "openai", "gpt-4o", StatusSucceeded, "", "a", 10, 20, int64(30), now).
		AddRow("b", "", KindGenerate, "3", false, true, "openai", "gpt-4o", StatusSucceeded, "", "b", 10, 20, int64(30), now.Add(-time.Minute))
	mock.ExpectQuery("SELECT (.+) FROM generation_runs").WithArgs(100, 0).WillReturnRows(rows)

	repo := &PGRepo{DB: db}
	got, err := repo.List(context.Background(), 500, -3)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 2 || got[0].ID != "a" {
		t.Fatalf("unexpected list %+v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}
