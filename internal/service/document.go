package service

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"bizdocs/internal/model"
	"bizdocs/internal/repository"
	"bizdocs/internal/repository/postgres"
	"bizdocs/internal/storage"
)

var (
	ErrIDRequired       = errors.New("id is required")
	ErrAccountNotFound  = errors.New("account not found")
	ErrDocumentNotFound = errors.New("document not found")
	ErrReaderNil        = errors.New("reader is nil")
	ErrBusinessNil      = errors.New("business is nil")
)

// DocumentListResult is the service-level DTO for paginated documents.
type DocumentListResult struct {
	Items []model.Document `json:"data"`
	Total int              `json:"total"`
}

// DocumentService defines the use cases for handling documents.
type DocumentService interface {
	// Upload stores the content under the authenticated business's account,
	// saves metadata to DB, and rolls back storage if the DB save fails. The
	// account the document lands under always comes from the business record,
	// never from the request.
	// originalFilename is kept as-is in metadata; the storage key is UUID + extension.
	Upload(ctx context.Context, biz *model.Business, r io.Reader, originalFilename string, contentType string, size int64) (*model.Document, error)

	// ListByAccount returns an account's documents using limit/offset and a
	// total count. An unknown account yields ErrAccountNotFound; a known
	// account with no uploads yields an empty list.
	ListByAccount(ctx context.Context, accountID string, limit, offset int) (*DocumentListResult, error)

	// Download streams a single document's content together with its metadata.
	// A document belonging to a different account is reported as not found.
	Download(ctx context.Context, accountID, docID string) (io.ReadCloser, *model.Document, error)

	// ArchiveAll writes every document of the account into w as a zip
	// archive. An unknown account yields ErrAccountNotFound; a known account
	// with no uploads yields an empty archive.
	ArchiveAll(ctx context.Context, accountID string, w io.Writer) error
}

// documentService is a concrete implementation of DocumentService.
type documentService struct {
	store   storage.Storage
	docs    repository.DocumentRepository
	bizRepo repository.BusinessRepository
}

// NewDocumentService constructs a new DocumentService.
func NewDocumentService(store storage.Storage, docs repository.DocumentRepository, bizRepo repository.BusinessRepository) DocumentService {
	return &documentService{store: store, docs: docs, bizRepo: bizRepo}
}

func (s *documentService) Upload(ctx context.Context, biz *model.Business, r io.Reader, originalFilename string, contentType string, size int64) (*model.Document, error) {
	if biz == nil {
		return nil, ErrBusinessNil
	}
	if r == nil {
		return nil, ErrReaderNil
	}

	// Storage key: account-scoped, UUID + original extension.
	ext := filepath.Ext(originalFilename)
	genName := uuid.New().String() + ext
	key := filepath.ToSlash(filepath.Join("documents", biz.AccountID, genName))

	objInfo, err := s.store.Put(ctx, key, r, storage.PutObjectOptions{
		Size:        size,
		ContentType: contentType,
		Metadata: map[string]string{
			"original-filename": originalFilename,
			"account-id":        biz.AccountID,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("upload to storage: %w", err)
	}

	doc := &model.Document{
		ID:          uuid.New().String(),
		AccountID:   biz.AccountID,
		BusinessID:  biz.ID,
		Filename:    originalFilename,
		StoragePath: objInfo.Key,
		Size:        objInfo.Size,
		ContentType: objInfo.ContentType,
		CreatedAt:   time.Now().UTC(),
	}
	stored, err := s.docs.Create(ctx, doc)
	if err != nil {
		// Rollback: delete the object from storage so no orphan survives
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			return nil, fmt.Errorf("db save failed: %v; rollback delete failed: %v", err, delErr)
		}
		return nil, fmt.Errorf("db save failed: %w", err)
	}
	return stored, nil
}

// ListByAccount returns paginated documents without exposing repository types.
func (s *documentService) ListByAccount(ctx context.Context, accountID string, limit, offset int) (*DocumentListResult, error) {
	if accountID == "" {
		return nil, ErrIDRequired
	}
	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}

	if _, err := s.bizRepo.FindByAccountID(ctx, accountID); err != nil {
		if postgres.IsNoRowsError(err) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}

	res, err := s.docs.ListByAccount(ctx, accountID, repository.PageQuery{Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}
	return &DocumentListResult{Items: res.Items, Total: res.Total}, nil
}

// Download resolves the document, checks account ownership, and opens its content.
func (s *documentService) Download(ctx context.Context, accountID, docID string) (io.ReadCloser, *model.Document, error) {
	if accountID == "" || docID == "" {
		return nil, nil, ErrIDRequired
	}

	doc, err := s.docs.FindByID(ctx, docID)
	if err != nil {
		if postgres.IsNoRowsError(err) {
			return nil, nil, ErrDocumentNotFound
		}
		return nil, nil, err
	}
	if doc.AccountID != accountID {
		// Never expose another account's documents.
		return nil, nil, ErrDocumentNotFound
	}

	rc, _, err := s.store.Get(ctx, doc.StoragePath)
	if err != nil {
		return nil, nil, fmt.Errorf("read storage: %w", err)
	}
	return rc, doc, nil
}

// archivePageSize bounds how many document rows are fetched per page while
// building an archive.
const archivePageSize = 100

// ArchiveAll zips all of the account's documents into w, paging through the
// repository so the full set is never held in memory at once.
func (s *documentService) ArchiveAll(ctx context.Context, accountID string, w io.Writer) error {
	if accountID == "" {
		return ErrIDRequired
	}

	if _, err := s.bizRepo.FindByAccountID(ctx, accountID); err != nil {
		if postgres.IsNoRowsError(err) {
			return ErrAccountNotFound
		}
		return err
	}

	zw := zip.NewWriter(w)
	// Original filenames are not unique per account; disambiguate collisions
	// with the document ID so no entry silently shadows another.
	seen := make(map[string]bool)

	for offset := 0; ; offset += archivePageSize {
		page, err := s.docs.ListByAccount(ctx, accountID, repository.PageQuery{Limit: archivePageSize, Offset: offset})
		if err != nil {
			return fmt.Errorf("list documents: %w", err)
		}

		for i := range page.Items {
			doc := &page.Items[i]
			name := doc.Filename
			if seen[name] {
				name = doc.ID + "_" + doc.Filename
			}
			seen[name] = true

			if err := s.archiveOne(ctx, zw, doc, name); err != nil {
				return err
			}
		}

		if len(page.Items) < archivePageSize {
			break
		}
	}

	return zw.Close()
}

// archiveOne copies a single document's bytes into the archive entry.
func (s *documentService) archiveOne(ctx context.Context, zw *zip.Writer, doc *model.Document, name string) error {
	rc, _, err := s.store.Get(ctx, doc.StoragePath)
	if err != nil {
		return fmt.Errorf("read storage: %w", err)
	}
	defer rc.Close()

	entry, err := zw.Create(name)
	if err != nil {
		return fmt.Errorf("create archive entry: %w", err)
	}
	if _, err := io.Copy(entry, rc); err != nil {
		return fmt.Errorf("write archive entry: %w", err)
	}
	return nil
}
