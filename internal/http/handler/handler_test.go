package handler

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"bizdocs/internal/model"
	"bizdocs/internal/service"
	serviceMocks "bizdocs/internal/service/mocks"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestHealthCheck(t *testing.T) {
	db, dbMock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	app := fiber.New()
	app.Get("/health", HealthCheck(db))

	t.Run("healthy", func(t *testing.T) {
		dbMock.ExpectPing().WillReturnError(nil)

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body map[string]string
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "healthy", body["status"])
	})

	t.Run("unhealthy", func(t *testing.T) {
		dbMock.ExpectPing().WillReturnError(errors.New("db error"))

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

		var body errorPayload
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "SERVICE_UNAVAILABLE", body.Error.Code)
	})
}

func TestLivenessProbe(t *testing.T) {
	app := fiber.New()
	app.Get("/healthz", LivenessProbe())

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	resp, _ := app.Test(req)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRegisterBusiness(t *testing.T) {
	mockSvc := new(serviceMocks.MockBusinessService)
	app := fiber.New()
	app.Post("/business/register", RegisterBusiness(mockSvc))

	post := func(body string) *http.Response {
		req := httptest.NewRequest(http.MethodPost, "/business/register", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		resp, _ := app.Test(req)
		return resp
	}

	t.Run("success", func(t *testing.T) {
		mockSvc.On("Register", mock.Anything, "Acme Corp").Return(&model.Business{
			ID:        "biz-1",
			Name:      "Acme Corp",
			AccountID: "acc_1234",
			APIKey:    "abc123",
		}, nil).Once()

		resp := post(`{"name":"Acme Corp"}`)

		assert.Equal(t, http.StatusCreated, resp.StatusCode)

		var body registerResponse
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "acc_1234", body.AccountID)
		assert.Equal(t, "Acme Corp", body.BusinessName)
		assert.Equal(t, "abc123", body.APIKey)
		mockSvc.AssertExpectations(t)
	})

	t.Run("empty name", func(t *testing.T) {
		mockSvc.On("Register", mock.Anything, "").Return(nil, service.ErrNameRequired).Once()

		resp := post(`{"name":""}`)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		var body errorPayload
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "NAME_REQUIRED", body.Error.Code)
		mockSvc.AssertExpectations(t)
	})

	t.Run("duplicate name", func(t *testing.T) {
		mockSvc.On("Register", mock.Anything, "Acme Corp").Return(nil, service.ErrBusinessExists).Once()

		resp := post(`{"name":"Acme Corp"}`)

		assert.Equal(t, http.StatusConflict, resp.StatusCode)
		var body errorPayload
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "BUSINESS_EXISTS", body.Error.Code)
		mockSvc.AssertExpectations(t)
	})

	t.Run("invalid body", func(t *testing.T) {
		resp := post(`{not json`)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		var body errorPayload
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "BAD_REQUEST", body.Error.Code)
	})

	t.Run("service error", func(t *testing.T) {
		mockSvc.On("Register", mock.Anything, "Acme Corp").Return(nil, errors.New("db fail")).Once()

		resp := post(`{"name":"Acme Corp"}`)

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})
}

func TestListBusinesses(t *testing.T) {
	mockSvc := new(serviceMocks.MockBusinessService)
	app := fiber.New()
	app.Get("/businesses", ListBusinesses(mockSvc))

	t.Run("success", func(t *testing.T) {
		mockSvc.On("List", mock.Anything, 10, 0).Return(&service.BusinessListResult{
			Items: []model.Business{{ID: "1", Name: "Acme Corp", AccountID: "acc_1"}},
			Total: 1,
		}, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/businesses", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var result service.BusinessListResult
		json.NewDecoder(resp.Body).Decode(&result)
		assert.Len(t, result.Items, 1)
		assert.Equal(t, 1, result.Total)
		mockSvc.AssertExpectations(t)
	})

	t.Run("invalid limit", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/businesses?limit=abc", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		var body errorPayload
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "INVALID_LIMIT", body.Error.Code)
	})

	t.Run("service error", func(t *testing.T) {
		mockSvc.On("List", mock.Anything, 10, 0).Return(nil, errors.New("db fail")).Once()

		req := httptest.NewRequest(http.MethodGet, "/businesses", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})
}

func newUploadRequest(t *testing.T, apiKey string) *http.Request {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", "invoice.pdf")
	require.NoError(t, err)
	part.Write([]byte("hello world"))
	writer.Close()

	req := httptest.NewRequest(http.MethodPost, "/document/upload", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if apiKey != "" {
		req.Header.Set(APIKeyHeader, apiKey)
	}
	return req
}

func TestUploadDocument(t *testing.T) {
	biz := &model.Business{ID: "biz-1", Name: "Acme Corp", AccountID: "acc_1", APIKey: "abc123"}

	newApp := func(bizSvc service.BusinessService, docSvc service.DocumentService) *fiber.App {
		app := fiber.New()
		app.Post("/document/upload", RequireAPIKey(bizSvc), UploadDocument(docSvc))
		return app
	}

	t.Run("success", func(t *testing.T) {
		mockBiz := new(serviceMocks.MockBusinessService)
		mockDoc := new(serviceMocks.MockDocumentService)
		app := newApp(mockBiz, mockDoc)

		mockBiz.On("Authenticate", mock.Anything, "abc123").Return(biz, nil).Once()
		mockDoc.On("Upload", mock.Anything, biz, mock.Anything, "invoice.pdf", mock.Anything, mock.Anything).
			Return(&model.Document{ID: "doc-1", AccountID: "acc_1", Filename: "invoice.pdf"}, nil).Once()

		resp, _ := app.Test(newUploadRequest(t, "abc123"))

		assert.Equal(t, http.StatusCreated, resp.StatusCode)

		var body uploadResponse
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "doc-1", body.DocumentID)
		assert.Equal(t, "acc_1", body.AccountID)
		assert.Equal(t, "Acme Corp", body.Business)
		assert.Equal(t, "invoice.pdf", body.Filename)
		mockBiz.AssertExpectations(t)
		mockDoc.AssertExpectations(t)
	})

	t.Run("missing api key", func(t *testing.T) {
		mockBiz := new(serviceMocks.MockBusinessService)
		mockDoc := new(serviceMocks.MockDocumentService)
		app := newApp(mockBiz, mockDoc)

		resp, _ := app.Test(newUploadRequest(t, ""))

		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		var body errorPayload
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "INVALID_API_KEY", body.Error.Code)
		// Neither service is touched; no document can be created.
		mockBiz.AssertNotCalled(t, "Authenticate", mock.Anything, mock.Anything)
		mockDoc.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unknown api key", func(t *testing.T) {
		mockBiz := new(serviceMocks.MockBusinessService)
		mockDoc := new(serviceMocks.MockDocumentService)
		app := newApp(mockBiz, mockDoc)

		mockBiz.On("Authenticate", mock.Anything, "wrong").Return(nil, service.ErrInvalidAPIKey).Once()

		resp, _ := app.Test(newUploadRequest(t, "wrong"))

		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		var body errorPayload
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "INVALID_API_KEY", body.Error.Code)
		mockBiz.AssertExpectations(t)
		mockDoc.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("no file", func(t *testing.T) {
		mockBiz := new(serviceMocks.MockBusinessService)
		mockDoc := new(serviceMocks.MockDocumentService)
		app := newApp(mockBiz, mockDoc)

		mockBiz.On("Authenticate", mock.Anything, "abc123").Return(biz, nil).Once()

		req := httptest.NewRequest(http.MethodPost, "/document/upload", nil)
		req.Header.Set(APIKeyHeader, "abc123")
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		var body errorPayload
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "FILE_REQUIRED", body.Error.Code)
		mockDoc.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("service error", func(t *testing.T) {
		mockBiz := new(serviceMocks.MockBusinessService)
		mockDoc := new(serviceMocks.MockDocumentService)
		app := newApp(mockBiz, mockDoc)

		mockBiz.On("Authenticate", mock.Anything, "abc123").Return(biz, nil).Once()
		mockDoc.On("Upload", mock.Anything, biz, mock.Anything, "invoice.pdf", mock.Anything, mock.Anything).
			Return(nil, errors.New("upload failed")).Once()

		resp, _ := app.Test(newUploadRequest(t, "abc123"))

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		mockBiz.AssertExpectations(t)
		mockDoc.AssertExpectations(t)
	})
}

func TestListAccountDocuments(t *testing.T) {
	mockSvc := new(serviceMocks.MockDocumentService)
	app := fiber.New()
	app.Get("/document/:account_id", ListAccountDocuments(mockSvc))

	t.Run("success", func(t *testing.T) {
		mockSvc.On("ListByAccount", mock.Anything, "acc_1", 10, 0).Return(&service.DocumentListResult{
			Items: []model.Document{{ID: "doc-1", AccountID: "acc_1", Filename: "invoice.pdf"}},
			Total: 1,
		}, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/document/acc_1", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var result service.DocumentListResult
		json.NewDecoder(resp.Body).Decode(&result)
		assert.Len(t, result.Items, 1)
		assert.Equal(t, "invoice.pdf", result.Items[0].Filename)
		mockSvc.AssertExpectations(t)
	})

	t.Run("empty account returns empty list", func(t *testing.T) {
		mockSvc.On("ListByAccount", mock.Anything, "acc_empty", 10, 0).Return(&service.DocumentListResult{
			Items: []model.Document{},
			Total: 0,
		}, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/document/acc_empty", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var result service.DocumentListResult
		json.NewDecoder(resp.Body).Decode(&result)
		assert.Empty(t, result.Items)
		assert.Equal(t, 0, result.Total)
		mockSvc.AssertExpectations(t)
	})

	t.Run("unknown account", func(t *testing.T) {
		mockSvc.On("ListByAccount", mock.Anything, "acc_missing", 10, 0).
			Return(nil, service.ErrAccountNotFound).Once()

		req := httptest.NewRequest(http.MethodGet, "/document/acc_missing", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		var body errorPayload
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "NOT_FOUND", body.Error.Code)
		mockSvc.AssertExpectations(t)
	})

	t.Run("invalid limit", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/document/acc_1?limit=abc", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		var body errorPayload
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "INVALID_LIMIT", body.Error.Code)
	})

	t.Run("download single document", func(t *testing.T) {
		content := "file content"
		mockSvc.On("Download", mock.Anything, "acc_1", "doc-1").
			Return(io.NopCloser(strings.NewReader(content)), &model.Document{
				ID:          "doc-1",
				AccountID:   "acc_1",
				Filename:    "invoice.pdf",
				ContentType: "application/pdf",
				Size:        int64(len(content)),
			}, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/document/acc_1?doc_id=doc-1", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "application/pdf", resp.Header.Get(fiber.HeaderContentType))
		assert.Contains(t, resp.Header.Get(fiber.HeaderContentDisposition), "invoice.pdf")

		b, _ := io.ReadAll(resp.Body)
		assert.Equal(t, content, string(b))
		mockSvc.AssertExpectations(t)
	})

	t.Run("download unknown document", func(t *testing.T) {
		mockSvc.On("Download", mock.Anything, "acc_1", "missing").
			Return(nil, nil, service.ErrDocumentNotFound).Once()

		req := httptest.NewRequest(http.MethodGet, "/document/acc_1?doc_id=missing", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		var body errorPayload
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "NOT_FOUND", body.Error.Code)
		mockSvc.AssertExpectations(t)
	})

	t.Run("filename with quotes is escaped in content disposition", func(t *testing.T) {
		content := "file content"
		mockSvc.On("Download", mock.Anything, "acc_1", "doc-q").
			Return(io.NopCloser(strings.NewReader(content)), &model.Document{
				ID:          "doc-q",
				AccountID:   "acc_1",
				Filename:    `inv"oice.pdf`,
				ContentType: "application/pdf",
				Size:        int64(len(content)),
			}, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/document/acc_1?doc_id=doc-q", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		cd := resp.Header.Get(fiber.HeaderContentDisposition)
		_, params, err := mime.ParseMediaType(cd)
		assert.NoError(t, err)
		assert.Equal(t, `inv"oice.pdf`, params["filename"])
		mockSvc.AssertExpectations(t)
	})

	t.Run("download all documents as zip", func(t *testing.T) {
		mockSvc.On("ArchiveAll", mock.Anything, "acc_1", mock.Anything).
			Return(func(w io.Writer) error {
				zw := zip.NewWriter(w)
				entry, err := zw.Create("invoice.pdf")
				if err != nil {
					return err
				}
				if _, err := entry.Write([]byte("pdf bytes")); err != nil {
					return err
				}
				return zw.Close()
			}).Once()

		req := httptest.NewRequest(http.MethodGet, "/document/acc_1?download_all=true", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "application/zip", resp.Header.Get(fiber.HeaderContentType))
		assert.Contains(t, resp.Header.Get(fiber.HeaderContentDisposition), "acc_1_documents.zip")

		b, _ := io.ReadAll(resp.Body)
		zr, err := zip.NewReader(bytes.NewReader(b), int64(len(b)))
		assert.NoError(t, err)
		assert.Len(t, zr.File, 1)
		assert.Equal(t, "invoice.pdf", zr.File[0].Name)
		mockSvc.AssertExpectations(t)
	})

	t.Run("download all for unknown account", func(t *testing.T) {
		mockSvc.On("ArchiveAll", mock.Anything, "acc_missing", mock.Anything).
			Return(service.ErrAccountNotFound).Once()

		req := httptest.NewRequest(http.MethodGet, "/document/acc_missing?download_all=true", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		var body errorPayload
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "NOT_FOUND", body.Error.Code)
		mockSvc.AssertExpectations(t)
	})
}

func TestRouting(t *testing.T) {
	app := fiber.New(fiber.Config{
		ErrorHandler: ErrorHandler(),
	})

	mockBiz := new(serviceMocks.MockBusinessService)
	mockDoc := new(serviceMocks.MockDocumentService)
	RegisterRoutes(app, nil, mockBiz, mockDoc)

	t.Run("not found route", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/non-existent", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "NOT_FOUND", res.Error.Code)
	})

	t.Run("method not allowed", func(t *testing.T) {
		// Businesses endpoint only allows GET
		req := httptest.NewRequest(http.MethodPost, "/businesses", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "METHOD_NOT_ALLOWED", res.Error.Code)
	})
}
