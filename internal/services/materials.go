package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"studydesk-backend/internal/models"
	"studydesk-backend/internal/repository"
)

// Per-kind output token caps and sampling temperatures.
const (
	summaryMaxTokens   = 1000
	quizMaxTokens      = 1500
	flashcardMaxTokens = 1500
	answerMaxTokens    = 800

	summaryTemperature   = 0.3
	quizTemperature      = 0.4
	flashcardTemperature = 0.4
	answerTemperature    = 0.3
)

type summaryStore interface {
	Create(ctx context.Context, s *models.Summary) error
	GetByDocument(ctx context.Context, documentID uuid.UUID) (*models.Summary, error)
}

type quizStore interface {
	CreateWithQuestions(ctx context.Context, q *models.Quiz, drafts []models.QuestionDraft) error
	GetByDocument(ctx context.Context, documentID uuid.UUID) (*models.Quiz, error)
}

type flashcardStore interface {
	CreateWithCards(ctx context.Context, set *models.FlashcardSet, drafts []models.CardDraft) error
	GetByDocument(ctx context.Context, documentID uuid.UUID) (*models.FlashcardSet, error)
	GetCardForUser(ctx context.Context, cardID, userID uuid.UUID) (*models.Flashcard, error)
	UpdateReview(ctx context.Context, cardID uuid.UUID, difficulty models.Difficulty, nextReview time.Time) error
}

// MaterialService drives the document-to-study-material pipeline: budgeting,
// prompting, the LLM call, parsing and persistence. Generation is idempotent
// per (document, kind); an existing material is returned as-is.
type MaterialService struct {
	llm        GenerationClient
	summaries  summaryStore
	quizzes    quizStore
	flashcards flashcardStore
}

func NewMaterialService(llm GenerationClient, summaries summaryStore, quizzes quizStore, flashcards flashcardStore) *MaterialService {
	return &MaterialService{
		llm:        llm,
		summaries:  summaries,
		quizzes:    quizzes,
		flashcards: flashcards,
	}
}

func documentContent(doc *models.Document) (string, error) {
	if doc.Content == nil || *doc.Content == "" {
		return "", &ValidationError{Fields: map[string]string{
			"document": "document has no extracted text",
		}}
	}
	return BudgetContent(*doc.Content, MaxContentChars), nil
}

func (s *MaterialService) GenerateSummary(ctx context.Context, doc *models.Document) (*models.Summary, error) {
	existing, err := s.summaries.GetByDocument(ctx, doc.ID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	content, err := documentContent(doc)
	if err != nil {
		return nil, err
	}

	prompt := BuildSummaryPrompt(doc.Title, content)
	raw, err := s.llm.Complete(ctx, CompletionRequest{
		System:          prompt.System,
		User:            prompt.User,
		MaxOutputTokens: summaryMaxTokens,
		Temperature:     summaryTemperature,
	})
	if err != nil {
		return nil, err
	}

	summary := &models.Summary{
		DocumentID: doc.ID,
		Title:      "Summary of " + doc.Title,
		Content:    raw,
	}
	if err := s.summaries.Create(ctx, summary); err != nil {
		// A concurrent request won the race; its summary is the one that counts.
		if errors.Is(err, repository.ErrDuplicateMaterial) {
			return s.summaries.GetByDocument(ctx, doc.ID)
		}
		return nil, err
	}

	return summary, nil
}

func (s *MaterialService) GenerateQuiz(ctx context.Context, doc *models.Document, numQuestions int) (*models.Quiz, error) {
	existing, err := s.quizzes.GetByDocument(ctx, doc.ID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	content, err := documentContent(doc)
	if err != nil {
		return nil, err
	}

	prompt := BuildQuizPrompt(doc.Title, content, numQuestions)
	raw, err := s.llm.Complete(ctx, CompletionRequest{
		System:          prompt.System,
		User:            prompt.User,
		MaxOutputTokens: quizMaxTokens,
		Temperature:     quizTemperature,
	})
	if err != nil {
		return nil, err
	}

	drafts, err := ParseQuizQuestions(raw)
	if err != nil {
		return nil, err
	}

	quiz := &models.Quiz{
		DocumentID:   doc.ID,
		Title:        "Quiz for " + doc.Title,
		NumQuestions: numQuestions,
	}
	if err := s.quizzes.CreateWithQuestions(ctx, quiz, drafts); err != nil {
		if errors.Is(err, repository.ErrDuplicateMaterial) {
			return s.quizzes.GetByDocument(ctx, doc.ID)
		}
		return nil, err
	}

	return quiz, nil
}

func (s *MaterialService) GenerateFlashcards(ctx context.Context, doc *models.Document, numCards int) (*models.FlashcardSet, error) {
	existing, err := s.flashcards.GetByDocument(ctx, doc.ID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	content, err := documentContent(doc)
	if err != nil {
		return nil, err
	}

	prompt := BuildFlashcardPrompt(doc.Title, content, numCards)
	raw, err := s.llm.Complete(ctx, CompletionRequest{
		System:          prompt.System,
		User:            prompt.User,
		MaxOutputTokens: flashcardMaxTokens,
		Temperature:     flashcardTemperature,
	})
	if err != nil {
		return nil, err
	}

	drafts, err := ParseFlashcards(raw)
	if err != nil {
		return nil, err
	}

	set := &models.FlashcardSet{
		DocumentID: doc.ID,
		Title:      "Flashcards for " + doc.Title,
		NumCards:   numCards,
	}
	if err := s.flashcards.CreateWithCards(ctx, set, drafts); err != nil {
		if errors.Is(err, repository.ErrDuplicateMaterial) {
			return s.flashcards.GetByDocument(ctx, doc.ID)
		}
		return nil, err
	}

	return set, nil
}

func (s *MaterialService) GetSummary(ctx context.Context, documentID uuid.UUID) (*models.Summary, error) {
	summary, err := s.summaries.GetByDocument(ctx, documentID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &NotFoundError{Message: "Summary not found"}
		}
		return nil, err
	}
	return summary, nil
}

func (s *MaterialService) GetQuiz(ctx context.Context, documentID uuid.UUID) (*models.Quiz, error) {
	quiz, err := s.quizzes.GetByDocument(ctx, documentID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &NotFoundError{Message: "Quiz not found"}
		}
		return nil, err
	}
	return quiz, nil
}

func (s *MaterialService) GetFlashcardSet(ctx context.Context, documentID uuid.UUID) (*models.FlashcardSet, error) {
	set, err := s.flashcards.GetByDocument(ctx, documentID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &NotFoundError{Message: "Flashcard set not found"}
		}
		return nil, err
	}
	return set, nil
}

// AnswerQuestion answers a free-form question grounded in the document text.
// Answers are not persisted.
func (s *MaterialService) AnswerQuestion(ctx context.Context, doc *models.Document, question string) (string, error) {
	content, err := documentContent(doc)
	if err != nil {
		return "", err
	}

	prompt := BuildAnswerPrompt(doc.Title, content, question)
	return s.llm.Complete(ctx, CompletionRequest{
		System:          prompt.System,
		User:            prompt.User,
		MaxOutputTokens: answerMaxTokens,
		Temperature:     answerTemperature,
	})
}

// reviewSchedule maps a review difficulty level to the stored tag and the
// next-review offset: 0=easy→7d, 1=normal→3d, 2=hard→1d.
func reviewSchedule(level int) (models.Difficulty, time.Duration, error) {
	switch level {
	case 0:
		return models.DifficultyEasy, 7 * 24 * time.Hour, nil
	case 1:
		return models.DifficultyMedium, 3 * 24 * time.Hour, nil
	case 2:
		return models.DifficultyHard, 24 * time.Hour, nil
	}
	return "", 0, &ValidationError{Fields: map[string]string{
		"difficulty": fmt.Sprintf("difficulty must be 0, 1 or 2, got %d", level),
	}}
}

// ReviewFlashcard records a spaced-repetition review. The next-review
// timestamp is computed from the current instant, never from the prior
// value, so repeated reviews do not stack.
func (s *MaterialService) ReviewFlashcard(ctx context.Context, cardID, userID uuid.UUID, level int) (*models.Flashcard, error) {
	difficulty, offset, err := reviewSchedule(level)
	if err != nil {
		return nil, err
	}

	card, err := s.flashcards.GetCardForUser(ctx, cardID, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &NotFoundError{Message: "Flashcard not found"}
		}
		return nil, err
	}

	nextReview := time.Now().Add(offset)
	if err := s.flashcards.UpdateReview(ctx, card.ID, difficulty, nextReview); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &NotFoundError{Message: "Flashcard not found"}
		}
		return nil, err
	}

	card.Difficulty = difficulty
	card.NextReview = nextReview
	return card, nil
}
