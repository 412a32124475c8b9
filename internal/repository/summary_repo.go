package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"studydesk-backend/internal/models"
)

// ErrDuplicateMaterial is returned when a material already exists for the
// document. The unique index on document_id turns the check-then-create race
// into this error, and callers read the surviving row back.
var ErrDuplicateMaterial = errors.New("material already exists for document")

type SummaryRepo struct {
	pool *pgxpool.Pool
}

func NewSummaryRepo(pool *pgxpool.Pool) *SummaryRepo {
	return &SummaryRepo{pool: pool}
}

func (r *SummaryRepo) Create(ctx context.Context, s *models.Summary) error {
	s.ID = uuid.New()
	query := `INSERT INTO summaries (id, document_id, title, content)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (document_id) DO NOTHING
		RETURNING created_at`

	err := r.pool.QueryRow(ctx, query, s.ID, s.DocumentID, s.Title, s.Content).Scan(&s.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrDuplicateMaterial
	}
	return err
}

func (r *SummaryRepo) GetByDocument(ctx context.Context, documentID uuid.UUID) (*models.Summary, error) {
	s := &models.Summary{}
	query := `SELECT id, document_id, title, content, created_at
		FROM summaries WHERE document_id = $1`

	err := r.pool.QueryRow(ctx, query, documentID).Scan(
		&s.ID, &s.DocumentID, &s.Title, &s.Content, &s.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return s, nil
}
