package models

import (
	"time"

	"github.com/google/uuid"
)

// MaterialKind is the category of generated learning artifact.
type MaterialKind string

const (
	KindSummary      MaterialKind = "summary"
	KindQuiz         MaterialKind = "quiz"
	KindFlashcardSet MaterialKind = "flashcard_set"
)

type Summary struct {
	ID         uuid.UUID `json:"id"`
	DocumentID uuid.UUID `json:"document_id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"created_at"`
}

type Quiz struct {
	ID           uuid.UUID      `json:"id"`
	DocumentID   uuid.UUID      `json:"document_id"`
	Title        string         `json:"title"`
	NumQuestions int            `json:"num_questions"`
	Questions    []QuizQuestion `json:"questions"`
	CreatedAt    time.Time      `json:"created_at"`
}

type QuizQuestion struct {
	ID            uuid.UUID         `json:"id"`
	QuizID        uuid.UUID         `json:"quiz_id"`
	Question      string            `json:"question"`
	Options       map[string]string `json:"options"`
	CorrectAnswer string            `json:"correct_answer"`
	Explanation   string            `json:"explanation"`
	OrderIndex    int               `json:"order_index"`
}

type FlashcardSet struct {
	ID         uuid.UUID   `json:"id"`
	DocumentID uuid.UUID   `json:"document_id"`
	Title      string      `json:"title"`
	NumCards   int         `json:"num_cards"`
	Flashcards []Flashcard `json:"flashcards"`
	CreatedAt  time.Time   `json:"created_at"`
}

// Difficulty is the stored flashcard difficulty tag.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

type Flashcard struct {
	ID         uuid.UUID  `json:"id"`
	SetID      uuid.UUID  `json:"set_id"`
	Front      string     `json:"front"`
	Back       string     `json:"back"`
	Difficulty Difficulty `json:"difficulty"`
	OrderIndex int        `json:"order_index"`
	NextReview time.Time  `json:"next_review"`
	CreatedAt  time.Time  `json:"created_at"`
}

// QuestionDraft is a validated quiz question parsed from LLM output,
// not yet persisted.
type QuestionDraft struct {
	Question      string            `json:"question"`
	Options       map[string]string `json:"options"`
	CorrectAnswer string            `json:"correct_answer"`
	Explanation   string            `json:"explanation"`
}

// CardDraft is a validated flashcard parsed from LLM output, not yet
// persisted.
type CardDraft struct {
	Front string `json:"front"`
	Back  string `json:"back"`
}

type AskRequest struct {
	DocumentID uuid.UUID `json:"document_id"`
	Question   string    `json:"question"`
}

type AskResponse struct {
	Question      string `json:"question"`
	Answer        string `json:"answer"`
	DocumentTitle string `json:"document_title"`
}

type ReviewRequest struct {
	Difficulty int `json:"difficulty"` // 0=easy, 1=normal, 2=hard
}
