package repository

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"studydesk-backend/internal/database"
	"studydesk-backend/internal/models"
)

// testPool connects to the database named by TEST_DATABASE_URL and applies
// the migrations. Postgres-backed tests are skipped when it is not set.
func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set; skipping Postgres-backed test")
	}

	pool, err := database.NewPostgresPool(url)
	if err != nil {
		t.Fatalf("Failed to connect: %v", err)
	}
	t.Cleanup(pool.Close)

	if err := database.RunMigrations(pool, "../../migrations"); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	return pool
}

func createTestUser(t *testing.T, pool *pgxpool.Pool) *models.User {
	t.Helper()

	u := &models.User{
		Username:     "u-" + uuid.NewString(),
		Email:        uuid.NewString() + "@example.com",
		PasswordHash: "x",
	}
	if err := NewUserRepo(pool).Create(context.Background(), u); err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}
	t.Cleanup(func() {
		pool.Exec(context.Background(), "DELETE FROM users WHERE id = $1", u.ID)
	})
	return u
}

func createTestDocument(t *testing.T, pool *pgxpool.Pool, userID uuid.UUID) *models.Document {
	t.Helper()

	content := "The nucleus stores DNA."
	d := &models.Document{
		UserID:   userID,
		Title:    "Cell Biology",
		Filename: "cells.md",
		FilePath: "/tmp/cells.md",
		Format:   models.FormatMarkdown,
		Content:  &content,
	}
	if err := NewDocumentRepo(pool).Create(context.Background(), d); err != nil {
		t.Fatalf("Failed to create document: %v", err)
	}
	return d
}

func countRows(t *testing.T, pool *pgxpool.Pool, query string, arg interface{}) int {
	t.Helper()

	var n int
	if err := pool.QueryRow(context.Background(), query, arg).Scan(&n); err != nil {
		t.Fatalf("Failed to count rows: %v", err)
	}
	return n
}

func TestDocumentDelete_CascadesMaterials(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()

	user := createTestUser(t, pool)
	doc := createTestDocument(t, pool, user.ID)

	drafts := make([]models.QuestionDraft, 5)
	for i := range drafts {
		drafts[i] = models.QuestionDraft{
			Question:      fmt.Sprintf("Question %d", i),
			Options:       map[string]string{"A": "1", "B": "2", "C": "3", "D": "4"},
			CorrectAnswer: "A",
		}
	}
	quiz := &models.Quiz{DocumentID: doc.ID, Title: "Quiz", NumQuestions: 5}
	if err := NewQuizRepo(pool).CreateWithQuestions(ctx, quiz, drafts); err != nil {
		t.Fatalf("Failed to create quiz: %v", err)
	}

	set := &models.FlashcardSet{DocumentID: doc.ID, Title: "Cards", NumCards: 2}
	cards := []models.CardDraft{{Front: "Q1", Back: "A1"}, {Front: "Q2", Back: "A2"}}
	if err := NewFlashcardRepo(pool).CreateWithCards(ctx, set, cards); err != nil {
		t.Fatalf("Failed to create flashcard set: %v", err)
	}

	if got := countRows(t, pool, "SELECT COUNT(*) FROM quiz_questions WHERE quiz_id = $1", quiz.ID); got != 5 {
		t.Fatalf("Expected 5 question rows before delete, got %d", got)
	}

	if err := NewDocumentRepo(pool).Delete(ctx, doc.ID); err != nil {
		t.Fatalf("Failed to delete document: %v", err)
	}

	checks := []struct {
		name  string
		query string
		arg   interface{}
	}{
		{"quiz", "SELECT COUNT(*) FROM quizzes WHERE id = $1", quiz.ID},
		{"quiz questions", "SELECT COUNT(*) FROM quiz_questions WHERE quiz_id = $1", quiz.ID},
		{"flashcard set", "SELECT COUNT(*) FROM flashcard_sets WHERE id = $1", set.ID},
		{"flashcards", "SELECT COUNT(*) FROM flashcards WHERE set_id = $1", set.ID},
	}
	for _, c := range checks {
		if got := countRows(t, pool, c.query, c.arg); got != 0 {
			t.Errorf("Expected 0 %s rows after document delete, got %d", c.name, got)
		}
	}
}

func TestGetCardForUser_ScopedToOwner(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()

	owner := createTestUser(t, pool)
	stranger := createTestUser(t, pool)
	doc := createTestDocument(t, pool, owner.ID)

	repo := NewFlashcardRepo(pool)
	set := &models.FlashcardSet{DocumentID: doc.ID, Title: "Cards", NumCards: 1}
	if err := repo.CreateWithCards(ctx, set, []models.CardDraft{{Front: "Q", Back: "A"}}); err != nil {
		t.Fatalf("Failed to create flashcard set: %v", err)
	}
	cardID := set.Flashcards[0].ID

	card, err := repo.GetCardForUser(ctx, cardID, owner.ID)
	if err != nil {
		t.Fatalf("Expected owner to fetch the card, got %v", err)
	}
	if card.ID != cardID {
		t.Errorf("Expected card %s, got %s", cardID, card.ID)
	}

	if _, err := repo.GetCardForUser(ctx, cardID, stranger.ID); !errors.Is(err, pgx.ErrNoRows) {
		t.Errorf("Expected pgx.ErrNoRows for another user's card, got %v", err)
	}
}

func TestGetForUser_ScopedToOwner(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()

	owner := createTestUser(t, pool)
	stranger := createTestUser(t, pool)
	doc := createTestDocument(t, pool, owner.ID)

	repo := NewDocumentRepo(pool)
	if _, err := repo.GetForUser(ctx, doc.ID, owner.ID); err != nil {
		t.Fatalf("Expected owner to fetch the document, got %v", err)
	}
	if _, err := repo.GetForUser(ctx, doc.ID, stranger.ID); !errors.Is(err, pgx.ErrNoRows) {
		t.Errorf("Expected pgx.ErrNoRows for another user's document, got %v", err)
	}
}
