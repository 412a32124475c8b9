package repository

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"studydesk-backend/internal/models"
)

type QuizRepo struct {
	pool *pgxpool.Pool
}

func NewQuizRepo(pool *pgxpool.Pool) *QuizRepo {
	return &QuizRepo{pool: pool}
}

// CreateWithQuestions writes the quiz and its full set of ordered questions
// in one transaction, so the caller never observes a quiz without children.
func (r *QuizRepo) CreateWithQuestions(ctx context.Context, q *models.Quiz, drafts []models.QuestionDraft) error {
	q.ID = uuid.New()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	query := `INSERT INTO quizzes (id, document_id, title, num_questions)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (document_id) DO NOTHING
		RETURNING created_at`

	err = tx.QueryRow(ctx, query, q.ID, q.DocumentID, q.Title, q.NumQuestions).Scan(&q.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrDuplicateMaterial
	}
	if err != nil {
		return err
	}

	q.Questions = make([]models.QuizQuestion, len(drafts))
	for i, draft := range drafts {
		optionsJSON, err := json.Marshal(draft.Options)
		if err != nil {
			return err
		}

		question := models.QuizQuestion{
			ID:            uuid.New(),
			QuizID:        q.ID,
			Question:      draft.Question,
			Options:       draft.Options,
			CorrectAnswer: draft.CorrectAnswer,
			Explanation:   draft.Explanation,
			OrderIndex:    i,
		}

		_, err = tx.Exec(ctx,
			`INSERT INTO quiz_questions (id, quiz_id, question, options, correct_answer, explanation, order_index)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			question.ID, q.ID, question.Question, optionsJSON,
			question.CorrectAnswer, question.Explanation, question.OrderIndex,
		)
		if err != nil {
			return err
		}
		q.Questions[i] = question
	}

	return tx.Commit(ctx)
}

func (r *QuizRepo) GetByDocument(ctx context.Context, documentID uuid.UUID) (*models.Quiz, error) {
	q := &models.Quiz{}
	query := `SELECT id, document_id, title, num_questions, created_at
		FROM quizzes WHERE document_id = $1`

	err := r.pool.QueryRow(ctx, query, documentID).Scan(
		&q.ID, &q.DocumentID, &q.Title, &q.NumQuestions, &q.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT id, quiz_id, question, options, correct_answer, explanation, order_index
		 FROM quiz_questions WHERE quiz_id = $1 ORDER BY order_index ASC`, q.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		question := models.QuizQuestion{}
		var optionsJSON []byte
		err := rows.Scan(
			&question.ID, &question.QuizID, &question.Question, &optionsJSON,
			&question.CorrectAnswer, &question.Explanation, &question.OrderIndex,
		)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(optionsJSON, &question.Options); err != nil {
			return nil, err
		}
		q.Questions = append(q.Questions, question)
	}

	return q, rows.Err()
}
