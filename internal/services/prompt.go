package services

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// MaxContentChars keeps the budgeted content under a ~128K-token context
// window at a ~4 chars/token heuristic, with headroom for the prompt
// scaffolding and the response.
const MaxContentChars = 400000

const truncationNotice = "\n\n[Content truncated due to length...]"

// BudgetContent truncates text to at most maxChars characters, appending a
// visible truncation notice that is not counted against the limit.
// Idempotent. The limit counts runes, not bytes, so multibyte text is never
// cut mid-character.
func BudgetContent(text string, maxChars int) string {
	if maxChars <= 0 {
		maxChars = MaxContentChars
	}
	if utf8.RuneCountInString(text) <= maxChars {
		return text
	}
	// Already-budgeted text passes through unchanged, so re-budgeting is a
	// no-op even though the notice pushes the total length past the limit.
	if strings.HasSuffix(text, truncationNotice) &&
		utf8.RuneCountInString(text)-utf8.RuneCountInString(truncationNotice) <= maxChars {
		return text
	}

	seen := 0
	for i := range text {
		if seen == maxChars {
			return text[:i] + truncationNotice
		}
		seen++
	}
	return text
}

// Prompt is a system-role instruction paired with a user-role instruction.
type Prompt struct {
	System string
	User   string
}

// BuildSummaryPrompt composes the summary instruction from a title and
// already-budgeted content.
func BuildSummaryPrompt(title, content string) Prompt {
	var b strings.Builder
	b.WriteString("Please create a clear and comprehensive summary of the following document content.\n\n")
	b.WriteString(fmt.Sprintf("Document Title: %s\n\n", title))
	b.WriteString("Content:\n")
	b.WriteString(content)
	b.WriteString("\n\nProvide a well-structured summary that captures the key points, main concepts, and important details. ")
	b.WriteString("The summary should help someone understand the core content without reading the full document.\n")

	return Prompt{
		System: "You are an expert at creating clear and comprehensive summaries of educational content.",
		User:   b.String(),
	}
}

// BuildQuizPrompt instructs the model to emit a JSON array of question
// objects. The schema here is a contract the response parser depends on.
func BuildQuizPrompt(title, content string, numQuestions int) Prompt {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Based on the following document content, create %d multiple-choice quiz questions.\n\n", numQuestions))
	b.WriteString(fmt.Sprintf("Document Title: %s\n\n", title))
	b.WriteString("Content:\n")
	b.WriteString(content)
	b.WriteString(`

For each question, provide:
1. A clear question
2. Four answer options labeled A, B, C, D
3. The correct answer letter
4. A brief explanation of why the answer is correct

Format your response as a JSON array of objects with the following structure:
[
    {
        "question": "The question text",
        "options": {"A": "Option 1", "B": "Option 2", "C": "Option 3", "D": "Option 4"},
        "correct_answer": "A",
        "explanation": "Explanation of why this is correct"
    }
]
`)

	return Prompt{
		System: "You are an expert at creating educational quiz questions. Always respond with valid JSON.",
		User:   b.String(),
	}
}

// BuildFlashcardPrompt instructs the model to emit a JSON array of
// front/back card objects.
func BuildFlashcardPrompt(title, content string, numCards int) Prompt {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Based on the following document content, create %d flashcards for studying.\n\n", numCards))
	b.WriteString(fmt.Sprintf("Document Title: %s\n\n", title))
	b.WriteString("Content:\n")
	b.WriteString(content)
	b.WriteString(`

Create flashcards that focus on:
- Key concepts and definitions
- Important facts and figures
- Relationships between ideas
- Critical thinking questions

Format your response as a JSON array of objects with the following structure:
[
    {
        "front": "Question or concept to test",
        "back": "Answer or explanation"
    }
]
`)

	return Prompt{
		System: "You are an expert at creating effective study flashcards. Always respond with valid JSON.",
		User:   b.String(),
	}
}

// BuildAnswerPrompt composes the grounded Q&A instruction.
func BuildAnswerPrompt(title, content, question string) Prompt {
	var b strings.Builder
	b.WriteString("Based on the following document content, please answer the user's question.\n\n")
	b.WriteString(fmt.Sprintf("Document Title: %s\n\n", title))
	b.WriteString("Document Content:\n")
	b.WriteString(content)
	b.WriteString(fmt.Sprintf("\n\nUser Question: %s\n\n", question))
	b.WriteString("Provide a comprehensive answer based solely on the information in the document. ")
	b.WriteString("If the answer is not found in the document, state that clearly.\n")

	return Prompt{
		System: "You are a helpful assistant that answers questions based on provided document content. Be accurate and cite the document when possible.",
		User:   b.String(),
	}
}
