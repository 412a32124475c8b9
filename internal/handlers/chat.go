package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"studydesk-backend/internal/middleware"
	"studydesk-backend/internal/models"
	"studydesk-backend/internal/services"
)

type ChatHandler struct {
	docService      *services.DocumentService
	materialService *services.MaterialService
}

func NewChatHandler(docService *services.DocumentService, materialService *services.MaterialService) *ChatHandler {
	return &ChatHandler{docService: docService, materialService: materialService}
}

// Ask answers a question about one of the caller's documents. Answers are
// grounded in the extracted text only and are not stored.
func (h *ChatHandler) Ask(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req models.AskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	if strings.TrimSpace(req.Question) == "" {
		writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Validation failed",
			map[string]string{"question": "Question is required"}, r))
		return
	}

	doc, err := h.docService.Get(r.Context(), req.DocumentID, userID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	answer, err := h.materialService.AnswerQuestion(r.Context(), doc, req.Question)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, models.AskResponse{
		Question:      req.Question,
		Answer:        answer,
		DocumentTitle: doc.Title,
	})
}

// Documents lists the caller's documents available for Q&A.
func (h *ChatHandler) Documents(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	docs, err := h.docService.List(r.Context(), userID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	type chatDocument struct {
		ID            string `json:"id"`
		Title         string `json:"title"`
		Format        string `json:"format"`
		ContentLength int    `json:"content_length"`
	}

	out := make([]chatDocument, 0, len(docs))
	for _, doc := range docs {
		out = append(out, chatDocument{
			ID:            doc.ID.String(),
			Title:         doc.Title,
			Format:        string(doc.Format),
			ContentLength: doc.ContentLength(),
		})
	}

	writeJSON(w, http.StatusOK, out)
}
