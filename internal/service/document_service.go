package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"document_manager/internal/model"
	"document_manager/internal/repository"
	"document_manager/internal/utils"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

var (
	ErrDocumentNotFound    = errors.New("document not found")
	ErrDocTypeNotFound     = errors.New("document type not found")
	ErrInvalidDocumentType = errors.New("invalid document type")
	ErrSlugExhausted       = errors.New("could not allocate a unique slug")
)

// slugRetries bounds the re-scan loop when a concurrent insert wins the same
// slug. The uniqueness constraint remains the authority either way.
const slugRetries = 3

// allowedUploads maps declared content types to the extension they must carry
var allowedUploads = map[string]string{
	"application/pdf":    ".pdf",
	"text/plain":         ".txt",
	"application/msword": ".doc",
}

// DocumentUpload carries the validated parts of a multipart file field.
// Keeping it independent of multipart.FileHeader lets tests feed plain readers.
type DocumentUpload struct {
	Filename    string
	ContentType string
	Content     io.Reader
}

// DocumentService orchestrates the document lifecycle
type DocumentService interface {
	Create(ctx context.Context, actor *model.User, req model.CreateDocumentRequest, upload *DocumentUpload) (*model.Document, error)
	Update(ctx context.Context, actor *model.User, id int, req model.UpdateDocumentRequest) (*model.Document, error)
	Delete(ctx context.Context, actor *model.User, id int) error
	List(ctx context.Context) ([]model.Document, error)
	ListTypes(ctx context.Context) ([]model.DocumentType, error)
	AddType(ctx context.Context, actor *model.User, title string) (*model.DocumentType, error)
}

type documentService struct {
	repo    repository.DocumentRepository
	storage *FileStorage
	logger  *zap.Logger
}

// NewDocumentService creates a new DocumentService
func NewDocumentService(repo repository.DocumentRepository, storage *FileStorage, logger *zap.Logger) DocumentService {
	return &documentService{repo: repo, storage: storage, logger: logger}
}

// validateUpload checks the declared content type against the allow-list and
// cross-checks the file extension. Runs before any write.
func validateUpload(upload *DocumentUpload) (string, error) {
	ext, ok := allowedUploads[upload.ContentType]
	if !ok {
		return "", ErrInvalidDocumentType
	}
	if !strings.EqualFold(filepath.Ext(upload.Filename), ext) {
		return "", ErrInvalidDocumentType
	}
	return ext, nil
}

// allocateSlug derives the next free slug for a base. A bare base match counts
// as suffix 0, so "base" arriving after "base-1" still picks the next integer.
func (s *documentService) allocateSlug(ctx context.Context, base string) (string, error) {
	max, err := s.repo.MaxSlugSuffix(ctx, base)
	if err != nil {
		return "", err
	}
	if max < 0 {
		return base, nil
	}
	return fmt.Sprintf("%s-%d", base, max+1), nil
}

// Create allocates a slug, persists the record, then promotes the staged file
// content into place. The final path is only written after the insert commits,
// so a writer that loses the slug race can never clobber the winner's file.
func (s *documentService) Create(ctx context.Context, actor *model.User, req model.CreateDocumentRequest, upload *DocumentUpload) (*model.Document, error) {
	if !CanCreateDocuments(actor) {
		return nil, ErrForbidden
	}

	docType, err := s.repo.FindTypeByID(ctx, req.TypeID)
	if err != nil {
		return nil, fmt.Errorf("failed to check document type: %w", err)
	}
	if docType == nil {
		return nil, ErrDocTypeNotFound
	}

	var ext string
	if upload != nil {
		if ext, err = validateUpload(upload); err != nil {
			return nil, err
		}
	}

	base := utils.Slugify(req.Title)
	if base == "" {
		base = "document"
	}

	var tempPath string
	if upload != nil {
		tempPath, err = s.storage.SaveTemp(actor.ID, upload.Content)
		if err != nil {
			return nil, fmt.Errorf("failed to store document file: %w", err)
		}
	}
	// Until the file is promoted, the staged copy is ours to discard
	discardTemp := func() {
		if upload == nil {
			return
		}
		if rmErr := s.storage.Remove(&tempPath); rmErr != nil {
			s.logger.Warn("failed to clean up staged upload", zap.Error(rmErr))
		}
	}

	for attempt := 0; attempt < slugRetries; attempt++ {
		slug, err := s.allocateSlug(ctx, base)
		if err != nil {
			discardTemp()
			return nil, fmt.Errorf("failed to allocate slug: %w", err)
		}

		doc := &model.Document{
			Title:       req.Title,
			TypeID:      req.TypeID,
			Description: req.Description,
			Slug:        slug,
			OwnerID:     actor.ID,
			CreatedAt:   time.Now(),
		}
		if upload != nil {
			finalPath := s.storage.DocumentPath(actor.ID, slug, ext)
			doc.StoredPath = &finalPath
		}

		err = s.repo.Create(ctx, doc)
		if err == nil {
			if upload != nil {
				if err := s.storage.Promote(tempPath, *doc.StoredPath); err != nil {
					// A row must not outlive its content
					if _, delErr := s.repo.Delete(ctx, doc.ID); delErr != nil {
						s.logger.Error("failed to roll back document after file move failure",
							zap.Int("id", doc.ID), zap.Error(delErr))
					}
					discardTemp()
					return nil, err
				}
			}
			s.logger.Info("document created",
				zap.String("actor", actor.Email),
				zap.String("slug", doc.Slug),
				zap.Int("id", doc.ID))
			return doc, nil
		}

		if !errors.Is(err, repository.ErrDuplicateSlug) {
			discardTemp()
			return nil, fmt.Errorf("failed to create document: %w", err)
		}
		s.logger.Info("slug collision, retrying allocation", zap.String("slug", slug))
	}

	discardTemp()
	return nil, ErrSlugExhausted
}

// Update applies a partial payload. The slug is never recomputed on title
// change: published URLs stay stable.
func (s *documentService) Update(ctx context.Context, actor *model.User, id int, req model.UpdateDocumentRequest) (*model.Document, error) {
	doc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find document for update: %w", err)
	}
	if doc == nil {
		return nil, ErrDocumentNotFound
	}
	if !CanModifyDocument(actor, doc) {
		return nil, ErrForbidden
	}

	if req.Title != nil {
		doc.Title = *req.Title
	}
	if req.TypeID != nil {
		docType, err := s.repo.FindTypeByID(ctx, *req.TypeID)
		if err != nil {
			return nil, fmt.Errorf("failed to check document type: %w", err)
		}
		if docType == nil {
			return nil, ErrDocTypeNotFound
		}
		doc.TypeID = *req.TypeID
	}
	if req.Description != nil {
		doc.Description = *req.Description
	}

	if err := s.repo.Update(ctx, doc); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrDocumentNotFound
		}
		return nil, fmt.Errorf("failed to update document in repo: %w", err)
	}

	s.logger.Info("document updated", zap.String("actor", actor.Email), zap.Int("id", doc.ID))
	return doc, nil
}

// Delete removes the stored file first, tolerating its absence, then the row
func (s *documentService) Delete(ctx context.Context, actor *model.User, id int) error {
	doc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to find document for deletion: %w", err)
	}
	if doc == nil {
		return ErrDocumentNotFound
	}
	if !CanModifyDocument(actor, doc) {
		return ErrForbidden
	}

	if err := s.storage.Remove(doc.StoredPath); err != nil {
		return err
	}

	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete document in repo: %w", err)
	}
	if !deleted {
		return ErrDocumentNotFound
	}

	s.logger.Info("document deleted", zap.String("actor", actor.Email), zap.Int("id", id), zap.String("slug", doc.Slug))
	return nil
}

// List returns every document; any authenticated actor may read
func (s *documentService) List(ctx context.Context) ([]model.Document, error) {
	documents, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	return documents, nil
}

// ListTypes returns every document type
func (s *documentService) ListTypes(ctx context.Context) ([]model.DocumentType, error) {
	types, err := s.repo.FindAllTypes(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list document types: %w", err)
	}
	return types, nil
}

// AddType creates a new document category, editors and above only
func (s *documentService) AddType(ctx context.Context, actor *model.User, title string) (*model.DocumentType, error) {
	if !CanManageDocumentTypes(actor) {
		return nil, ErrForbidden
	}

	docType := &model.DocumentType{Title: title}
	if err := s.repo.CreateType(ctx, docType); err != nil {
		return nil, fmt.Errorf("failed to create document type: %w", err)
	}

	s.logger.Info("document type created", zap.String("actor", actor.Email), zap.String("title", title))
	return docType, nil
}
