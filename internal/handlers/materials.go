package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"studydesk-backend/internal/middleware"
	"studydesk-backend/internal/models"
	"studydesk-backend/internal/services"
)

const (
	defaultNumQuestions = 5
	defaultNumCards     = 10
	maxNumQuestions     = 20
	maxNumCards         = 50
)

// MaterialHandler serves generated study materials. Every route first loads
// the document through DocumentService so ownership is checked in one place.
type MaterialHandler struct {
	docService      *services.DocumentService
	materialService *services.MaterialService
}

func NewMaterialHandler(docService *services.DocumentService, materialService *services.MaterialService) *MaterialHandler {
	return &MaterialHandler{docService: docService, materialService: materialService}
}

func (h *MaterialHandler) document(w http.ResponseWriter, r *http.Request) (*models.Document, bool) {
	userID := middleware.GetUserID(r.Context())

	docID, err := uuid.Parse(chi.URLParam(r, "documentID"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid document ID", r))
		return nil, false
	}

	doc, err := h.docService.Get(r.Context(), docID, userID)
	if err != nil {
		handleServiceError(w, r, err)
		return nil, false
	}
	return doc, true
}

func countParam(r *http.Request, name string, def, max int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return def
	}
	if n > max {
		return max
	}
	return n
}

func (h *MaterialHandler) GenerateSummary(w http.ResponseWriter, r *http.Request) {
	doc, ok := h.document(w, r)
	if !ok {
		return
	}

	summary, err := h.materialService.GenerateSummary(r.Context(), doc)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, summary)
}

func (h *MaterialHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	doc, ok := h.document(w, r)
	if !ok {
		return
	}

	summary, err := h.materialService.GetSummary(r.Context(), doc.ID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, summary)
}

func (h *MaterialHandler) GenerateQuiz(w http.ResponseWriter, r *http.Request) {
	doc, ok := h.document(w, r)
	if !ok {
		return
	}

	numQuestions := countParam(r, "num_questions", defaultNumQuestions, maxNumQuestions)

	quiz, err := h.materialService.GenerateQuiz(r.Context(), doc, numQuestions)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, quiz)
}

func (h *MaterialHandler) GetQuiz(w http.ResponseWriter, r *http.Request) {
	doc, ok := h.document(w, r)
	if !ok {
		return
	}

	quiz, err := h.materialService.GetQuiz(r.Context(), doc.ID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, quiz)
}

func (h *MaterialHandler) GenerateFlashcards(w http.ResponseWriter, r *http.Request) {
	doc, ok := h.document(w, r)
	if !ok {
		return
	}

	numCards := countParam(r, "num_cards", defaultNumCards, maxNumCards)

	set, err := h.materialService.GenerateFlashcards(r.Context(), doc, numCards)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, set)
}

func (h *MaterialHandler) GetFlashcards(w http.ResponseWriter, r *http.Request) {
	doc, ok := h.document(w, r)
	if !ok {
		return
	}

	set, err := h.materialService.GetFlashcardSet(r.Context(), doc.ID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, set)
}

func (h *MaterialHandler) ReviewFlashcard(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	cardID, err := uuid.Parse(chi.URLParam(r, "flashcardID"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid flashcard ID", r))
		return
	}

	var req models.ReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	card, err := h.materialService.ReviewFlashcard(r.Context(), cardID, userID, req.Difficulty)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, card)
}
