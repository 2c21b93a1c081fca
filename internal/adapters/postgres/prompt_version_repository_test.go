package postgres

import (
	"errors"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v3"

	"github.com/arthurmateu/throxy-project/internal/domain"
	"github.com/arthurmateu/throxy-project/internal/domain/models"
)

func promptVersionRows() *pgxmock.Rows {
	return pgxmock.NewRows([]string{
		"id", "version", "content", "active", "fitness", "generation",
		"parent_version", "created_at", "activated_at", "deactivated_at",
	})
}

func TestPromptVersionRepository_GetActive(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	defer mock.Close()

	repo := &PromptVersionRepository{
		BaseRepository: BaseRepository{pool: nil},
	}

	now := time.Now()
	mock.ExpectQuery(`(?s)SELECT .+ FROM prompt_versions`).
		WillReturnRows(promptVersionRows().
			AddRow("prm_1", 3, "rank the leads", true, nil, nil, nil, now, now, nil))

	ctx := setupMockContext(mock)
	v, err := repo.GetActive(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Version != 3 {
		t.Errorf("expected version 3, got %d", v.Version)
	}
	if !v.Active {
		t.Error("expected active version")
	}
	if v.Fitness != nil {
		t.Errorf("expected nil fitness, got %v", *v.Fitness)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestPromptVersionRepository_GetActive_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	defer mock.Close()

	repo := &PromptVersionRepository{
		BaseRepository: BaseRepository{pool: nil},
	}

	mock.ExpectQuery(`(?s)SELECT .+ FROM prompt_versions`).
		WillReturnRows(promptVersionRows())

	ctx := setupMockContext(mock)
	_, err = repo.GetActive(ctx)
	if !errors.Is(err, domain.ErrPromptNotFound) {
		t.Errorf("expected ErrPromptNotFound, got %v", err)
	}
}

func TestPromptVersionRepository_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	defer mock.Close()

	repo := &PromptVersionRepository{
		BaseRepository: BaseRepository{pool: nil},
	}

	fitness := 0.91
	generation := 2
	parent := 1
	v := &models.PromptVersion{
		ID:            "prm_2",
		Version:       4,
		Content:       "evolved prompt",
		Active:        false,
		Fitness:       &fitness,
		Generation:    &generation,
		ParentVersion: &parent,
		CreatedAt:     time.Now(),
	}

	mock.ExpectExec(`(?s)INSERT INTO prompt_versions`).
		WithArgs(v.ID, v.Version, v.Content, v.Active, pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	ctx := setupMockContext(mock)
	if err := repo.Create(ctx, v); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestPromptVersionRepository_NextVersion(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	defer mock.Close()

	repo := &PromptVersionRepository{
		BaseRepository: BaseRepository{pool: nil},
	}

	mock.ExpectQuery(`SELECT COALESCE\(MAX\(version\), 0\) \+ 1 FROM prompt_versions`).
		WillReturnRows(pgxmock.NewRows([]string{"next"}).AddRow(5))

	ctx := setupMockContext(mock)
	next, err := repo.NextVersion(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if next != 5 {
		t.Errorf("expected next version 5, got %d", next)
	}
}

func TestPromptVersionRepository_SetActive(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	defer mock.Close()

	repo := &PromptVersionRepository{
		BaseRepository: BaseRepository{pool: nil},
	}

	mock.ExpectExec("UPDATE prompt_versions SET active = false").
		WithArgs(pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec("UPDATE prompt_versions SET active = true").
		WithArgs(pgxmock.AnyArg(), 4).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	ctx := setupMockContext(mock)
	if err := repo.SetActive(ctx, 4); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestPromptVersionRepository_SetActive_UnknownVersion(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	defer mock.Close()

	repo := &PromptVersionRepository{
		BaseRepository: BaseRepository{pool: nil},
	}

	mock.ExpectExec("UPDATE prompt_versions SET active = false").
		WithArgs(pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec("UPDATE prompt_versions SET active = true").
		WithArgs(pgxmock.AnyArg(), 99).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	ctx := setupMockContext(mock)
	err = repo.SetActive(ctx, 99)
	if !errors.Is(err, domain.ErrPromptNotFound) {
		t.Errorf("expected ErrPromptNotFound, got %v", err)
	}
}
