package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"studydesk-backend/internal/models"
)

type FlashcardRepo struct {
	pool *pgxpool.Pool
}

func NewFlashcardRepo(pool *pgxpool.Pool) *FlashcardRepo {
	return &FlashcardRepo{pool: pool}
}

// CreateWithCards writes the set and its full sequence of cards in one
// transaction, so the caller never observes a set without children.
func (r *FlashcardRepo) CreateWithCards(ctx context.Context, set *models.FlashcardSet, drafts []models.CardDraft) error {
	set.ID = uuid.New()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	query := `INSERT INTO flashcard_sets (id, document_id, title, num_cards)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (document_id) DO NOTHING
		RETURNING created_at`

	err = tx.QueryRow(ctx, query, set.ID, set.DocumentID, set.Title, set.NumCards).Scan(&set.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrDuplicateMaterial
	}
	if err != nil {
		return err
	}

	now := time.Now()
	set.Flashcards = make([]models.Flashcard, len(drafts))
	for i, draft := range drafts {
		card := models.Flashcard{
			ID:         uuid.New(),
			SetID:      set.ID,
			Front:      draft.Front,
			Back:       draft.Back,
			Difficulty: models.DifficultyMedium,
			OrderIndex: i,
			NextReview: now,
			CreatedAt:  now,
		}

		_, err = tx.Exec(ctx,
			`INSERT INTO flashcards (id, set_id, front, back, difficulty, order_index, next_review)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			card.ID, set.ID, card.Front, card.Back, card.Difficulty, card.OrderIndex, card.NextReview,
		)
		if err != nil {
			return err
		}
		set.Flashcards[i] = card
	}

	return tx.Commit(ctx)
}

func (r *FlashcardRepo) GetByDocument(ctx context.Context, documentID uuid.UUID) (*models.FlashcardSet, error) {
	set := &models.FlashcardSet{}
	query := `SELECT id, document_id, title, num_cards, created_at
		FROM flashcard_sets WHERE document_id = $1`

	err := r.pool.QueryRow(ctx, query, documentID).Scan(
		&set.ID, &set.DocumentID, &set.Title, &set.NumCards, &set.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT id, set_id, front, back, difficulty, order_index, next_review, created_at
		 FROM flashcards WHERE set_id = $1 ORDER BY order_index ASC`, set.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		card := models.Flashcard{}
		err := rows.Scan(
			&card.ID, &card.SetID, &card.Front, &card.Back,
			&card.Difficulty, &card.OrderIndex, &card.NextReview, &card.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		set.Flashcards = append(set.Flashcards, card)
	}

	return set, rows.Err()
}

// GetCardForUser resolves a flashcard through its set and document, scoped
// to the owner. Cards in other users' documents scan as pgx.ErrNoRows.
func (r *FlashcardRepo) GetCardForUser(ctx context.Context, cardID, userID uuid.UUID) (*models.Flashcard, error) {
	card := &models.Flashcard{}
	query := `SELECT f.id, f.set_id, f.front, f.back, f.difficulty, f.order_index, f.next_review, f.created_at
		FROM flashcards f
		JOIN flashcard_sets s ON s.id = f.set_id
		JOIN documents d ON d.id = s.document_id
		WHERE f.id = $1 AND d.user_id = $2`

	err := r.pool.QueryRow(ctx, query, cardID, userID).Scan(
		&card.ID, &card.SetID, &card.Front, &card.Back,
		&card.Difficulty, &card.OrderIndex, &card.NextReview, &card.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return card, nil
}

// UpdateReview is the only mutation allowed on a flashcard after creation.
func (r *FlashcardRepo) UpdateReview(ctx context.Context, cardID uuid.UUID, difficulty models.Difficulty, nextReview time.Time) error {
	tag, err := r.pool.Exec(ctx,
		"UPDATE flashcards SET difficulty = $1, next_review = $2 WHERE id = $3",
		difficulty, nextReview, cardID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
