package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"studydesk-backend/internal/models"
	"studydesk-backend/internal/repository"
)

// DocumentService owns the upload pipeline: format detection, storing the
// file, synchronous text extraction and the database insert. Any failure
// after the file hit disk deletes it again; an orphaned upload is never
// left behind.
type DocumentService struct {
	docRepo     *repository.DocumentRepo
	extractor   *ExtractService
	storagePath string
}

func NewDocumentService(docRepo *repository.DocumentRepo, extractor *ExtractService, storagePath string) *DocumentService {
	return &DocumentService{
		docRepo:     docRepo,
		extractor:   extractor,
		storagePath: storagePath,
	}
}

func (s *DocumentService) Upload(ctx context.Context, userID uuid.UUID, filename string, src io.Reader) (*models.Document, error) {
	format := models.DetectFormat(filename)
	if !format.IsValid() {
		return nil, &ValidationError{Fields: map[string]string{
			"file": "Unsupported file type. Please upload PDF, DOCX, or Markdown files.",
		}}
	}

	if err := os.MkdirAll(s.storagePath, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}

	// Files are keyed by original name; a re-upload of the same name
	// overwrites the previous file (last write wins).
	filePath := filepath.Join(s.storagePath, filepath.Base(filename))
	dst, err := os.Create(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to save file: %w", err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		s.removeFile(filePath)
		return nil, fmt.Errorf("failed to save file: %w", err)
	}
	if err := dst.Close(); err != nil {
		s.removeFile(filePath)
		return nil, fmt.Errorf("failed to save file: %w", err)
	}

	content, err := s.extractor.Extract(filePath, format)
	if err != nil {
		s.removeFile(filePath)
		return nil, err
	}

	title := strings.TrimSuffix(filename, filepath.Ext(filename))
	doc := &models.Document{
		UserID:   userID,
		Title:    title,
		Filename: filename,
		FilePath: filePath,
		Format:   format,
		Content:  &content,
	}

	if err := s.docRepo.Create(ctx, doc); err != nil {
		s.removeFile(filePath)
		return nil, fmt.Errorf("failed to save document: %w", err)
	}

	return doc, nil
}

// Get returns the document only to its owner; anyone else sees not-found.
func (s *DocumentService) Get(ctx context.Context, id, userID uuid.UUID) (*models.Document, error) {
	doc, err := s.docRepo.GetForUser(ctx, id, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &NotFoundError{Message: "Document not found"}
		}
		return nil, err
	}
	return doc, nil
}

func (s *DocumentService) List(ctx context.Context, userID uuid.UUID) ([]*models.Document, error) {
	return s.docRepo.ListByUser(ctx, userID)
}

// Delete removes the stored file and the document row; generated materials
// cascade with it.
func (s *DocumentService) Delete(ctx context.Context, id, userID uuid.UUID) error {
	doc, err := s.Get(ctx, id, userID)
	if err != nil {
		return err
	}

	s.removeFile(doc.FilePath)

	return s.docRepo.Delete(ctx, doc.ID)
}

func (s *DocumentService) removeFile(path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		log.Printf("failed to remove stored file %s: %v", path, err)
	}
}
