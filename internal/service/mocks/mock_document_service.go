package mocks

import (
	"context"
	"io"

	"bizdocs/internal/model"
	"bizdocs/internal/service"
	"github.com/stretchr/testify/mock"
)

type MockDocumentService struct {
	mock.Mock
}

func (m *MockDocumentService) Upload(ctx context.Context, biz *model.Business, r io.Reader, originalFilename string, contentType string, size int64) (*model.Document, error) {
	args := m.Called(ctx, biz, r, originalFilename, contentType, size)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockDocumentService) ListByAccount(ctx context.Context, accountID string, limit, offset int) (*service.DocumentListResult, error) {
	args := m.Called(ctx, accountID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.DocumentListResult), args.Error(1)
}

// ArchiveAll supports a func(io.Writer) error return value so tests can write
// archive bytes into the handler's buffer.
func (m *MockDocumentService) ArchiveAll(ctx context.Context, accountID string, w io.Writer) error {
	args := m.Called(ctx, accountID, w)
	if fn, ok := args.Get(0).(func(io.Writer) error); ok {
		return fn(w)
	}
	return args.Error(0)
}

func (m *MockDocumentService) Download(ctx context.Context, accountID, docID string) (io.ReadCloser, *model.Document, error) {
	args := m.Called(ctx, accountID, docID)
	var rc io.ReadCloser
	if args.Get(0) != nil {
		rc = args.Get(0).(io.ReadCloser)
	}
	var doc *model.Document
	if args.Get(1) != nil {
		doc = args.Get(1).(*model.Document)
	}
	return rc, doc, args.Error(2)
}
