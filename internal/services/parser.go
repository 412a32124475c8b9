package services

import (
	"encoding/json"
	"fmt"
	"strings"

	"studydesk-backend/internal/models"
)

// stripCodeFence removes a leading ```json (or bare ```) marker and a
// trailing ``` from raw model output. Some providers wrap JSON answers in a
// markdown fence even when told not to; this is a narrow tolerance for that
// quirk, not a markdown parser.
func stripCodeFence(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// optionLabels is the fixed answer alphabet for multiple-choice questions.
var optionLabels = []string{"A", "B", "C", "D"}

type rawQuestion struct {
	Question      string          `json:"question"`
	Options       json.RawMessage `json:"options"`
	CorrectAnswer string          `json:"correct_answer"`
	Explanation   string          `json:"explanation"`
}

// ParseQuizQuestions parses raw LLM output into ordered question drafts.
// The output order matches the order of appearance in the array; it becomes
// the persisted order_index.
func ParseQuizQuestions(raw string) ([]models.QuestionDraft, error) {
	payload := stripCodeFence(raw)

	var items []rawQuestion
	if err := json.Unmarshal([]byte(payload), &items); err != nil {
		return nil, &MalformedOutputError{Reason: "response is not a JSON array of questions"}
	}

	drafts := make([]models.QuestionDraft, 0, len(items))
	for i, item := range items {
		if item.Question == "" {
			return nil, &MalformedOutputError{Reason: fmt.Sprintf("question %d is missing its question text", i)}
		}

		options, err := parseOptions(item.Options)
		if err != nil {
			return nil, &MalformedOutputError{Reason: fmt.Sprintf("question %d: %v", i, err)}
		}

		answer := strings.ToUpper(strings.TrimSpace(item.CorrectAnswer))
		if _, ok := options[answer]; !ok {
			return nil, &MalformedOutputError{Reason: fmt.Sprintf("question %d: correct_answer %q is not an option key", i, item.CorrectAnswer)}
		}

		drafts = append(drafts, models.QuestionDraft{
			Question:      item.Question,
			Options:       options,
			CorrectAnswer: answer,
			Explanation:   item.Explanation,
		})
	}

	return drafts, nil
}

// parseOptions accepts either an object keyed by label ({"A": "..."}), or an
// array of four labeled alternatives (["A) ...", ...]).
func parseOptions(raw json.RawMessage) (map[string]string, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("missing options")
	}

	var asMap map[string]string
	if err := json.Unmarshal(raw, &asMap); err == nil {
		if len(asMap) == 0 {
			return nil, fmt.Errorf("options are empty")
		}
		options := make(map[string]string, len(asMap))
		for key, text := range asMap {
			options[strings.ToUpper(strings.TrimSpace(key))] = text
		}
		return options, nil
	}

	var asList []string
	if err := json.Unmarshal(raw, &asList); err != nil {
		return nil, fmt.Errorf("options must be an object or an array")
	}
	if len(asList) != len(optionLabels) {
		return nil, fmt.Errorf("expected %d options, got %d", len(optionLabels), len(asList))
	}

	options := make(map[string]string, len(asList))
	for i, text := range asList {
		label := optionLabels[i]
		// "A) Option text" → "Option text"
		trimmed := strings.TrimSpace(text)
		for _, prefix := range []string{label + ")", label + ".", label + ":"} {
			if strings.HasPrefix(trimmed, prefix) {
				trimmed = strings.TrimSpace(trimmed[len(prefix):])
				break
			}
		}
		options[label] = trimmed
	}
	return options, nil
}

type rawCard struct {
	Front string `json:"front"`
	Back  string `json:"back"`
}

// ParseFlashcards parses raw LLM output into ordered card drafts.
func ParseFlashcards(raw string) ([]models.CardDraft, error) {
	payload := stripCodeFence(raw)

	var items []rawCard
	if err := json.Unmarshal([]byte(payload), &items); err != nil {
		return nil, &MalformedOutputError{Reason: "response is not a JSON array of cards"}
	}

	drafts := make([]models.CardDraft, 0, len(items))
	for i, item := range items {
		if item.Front == "" || item.Back == "" {
			return nil, &MalformedOutputError{Reason: fmt.Sprintf("card %d is missing front or back", i)}
		}
		drafts = append(drafts, models.CardDraft{Front: item.Front, Back: item.Back})
	}

	return drafts, nil
}
