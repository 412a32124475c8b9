package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"studydesk-backend/internal/models"
)

type DocumentRepo struct {
	pool *pgxpool.Pool
}

func NewDocumentRepo(pool *pgxpool.Pool) *DocumentRepo {
	return &DocumentRepo{pool: pool}
}

func (r *DocumentRepo) Create(ctx context.Context, d *models.Document) error {
	d.ID = uuid.New()
	query := `INSERT INTO documents (id, user_id, title, filename, file_path, format, content)
		VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING created_at`

	return r.pool.QueryRow(ctx, query,
		d.ID, d.UserID, d.Title, d.Filename, d.FilePath, d.Format, d.Content,
	).Scan(&d.CreatedAt)
}

// GetForUser fetches a document only when it belongs to userID. A document
// owned by someone else scans as pgx.ErrNoRows, so callers surface the same
// not-found signal for both cases.
func (r *DocumentRepo) GetForUser(ctx context.Context, id, userID uuid.UUID) (*models.Document, error) {
	d := &models.Document{}
	query := `SELECT id, user_id, title, filename, file_path, format, content, created_at
		FROM documents WHERE id = $1 AND user_id = $2`

	err := r.pool.QueryRow(ctx, query, id, userID).Scan(
		&d.ID, &d.UserID, &d.Title, &d.Filename, &d.FilePath, &d.Format, &d.Content, &d.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return d, nil
}

func (r *DocumentRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Document, error) {
	query := `SELECT id, user_id, title, filename, file_path, format, content, created_at
		FROM documents WHERE user_id = $1 ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var documents []*models.Document
	for rows.Next() {
		d := &models.Document{}
		err := rows.Scan(&d.ID, &d.UserID, &d.Title, &d.Filename, &d.FilePath, &d.Format, &d.Content, &d.CreatedAt)
		if err != nil {
			return nil, err
		}
		documents = append(documents, d)
	}
	return documents, rows.Err()
}

// Delete removes the document row; summaries, quizzes, questions, flashcard
// sets and flashcards go with it through ON DELETE CASCADE.
func (r *DocumentRepo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, "DELETE FROM documents WHERE id = $1", id)
	return err
}
