package handler

import (
	"bytes"
	"errors"
	"mime"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"bizdocs/internal/service"
)

// uploadResponse is returned on successful document upload.
type uploadResponse struct {
	Message    string `json:"message"`
	DocumentID string `json:"document_id"`
	AccountID  string `json:"account_id"`
	Business   string `json:"business"`
	Filename   string `json:"filename"`
}

// UploadDocument handles POST /document/upload (multipart/form-data, field
// name: file). RequireAPIKey must run before this handler; the document lands
// under the authenticated business's account.
//
// @Summary Upload a document
// @Accept mpfd
// @Produce json
// @Param x-api-key header string true "business api key"
// @Param file formData file true "document file"
// @Success 201 {object} uploadResponse
// @Router /document/upload [post]
func UploadDocument(docSvc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		biz := businessFromCtx(c)
		if biz == nil {
			return writeError(c, fiber.StatusUnauthorized, "INVALID_API_KEY", "missing api key")
		}

		fh, err := c.FormFile("file")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
		}

		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer f.Close()

		ct := fh.Header.Get("Content-Type")
		if ct == "" {
			ct = "application/octet-stream"
		}

		doc, err := docSvc.Upload(c.UserContext(), biz, f, fh.Filename, ct, fh.Size)
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}

		return c.Status(fiber.StatusCreated).JSON(uploadResponse{
			Message:    "Document uploaded successfully",
			DocumentID: doc.ID,
			AccountID:  doc.AccountID,
			Business:   biz.Name,
			Filename:   doc.Filename,
		})
	}
}

// ListAccountDocuments handles GET /document/:account_id. Without query
// params it returns the account's document metadata; with ?doc_id= it streams
// that document's content, and with ?download_all=true it streams every
// document of the account as a zip archive.
//
// @Summary List or download an account's documents
// @Produce json
// @Param account_id path string true "account id"
// @Param doc_id query string false "download a single document"
// @Param download_all query bool false "download all documents as a zip archive"
// @Param limit query int false "page size"
// @Param offset query int false "page offset"
// @Success 200 {object} service.DocumentListResult
// @Router /document/{account_id} [get]
func ListAccountDocuments(docSvc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		accountID := c.Params("account_id")

		if docID := c.Query("doc_id"); docID != "" {
			return downloadDocument(c, docSvc, accountID, docID)
		}
		if c.Query("download_all") == "true" {
			return downloadArchive(c, docSvc, accountID)
		}

		limit, err := strconv.Atoi(c.Query("limit", "10"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_LIMIT", "invalid limit")
		}
		offset, err := strconv.Atoi(c.Query("offset", "0"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_OFFSET", "invalid offset")
		}

		res, err := docSvc.ListByAccount(c.UserContext(), accountID, limit, offset)
		if err != nil {
			if errors.Is(err, service.ErrAccountNotFound) {
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "account not found")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(res)
	}
}

// downloadDocument streams a single document's bytes with its original
// filename and content type.
func downloadDocument(c *fiber.Ctx, docSvc service.DocumentService, accountID, docID string) error {
	rc, doc, err := docSvc.Download(c.UserContext(), accountID, docID)
	if err != nil {
		if errors.Is(err, service.ErrDocumentNotFound) || errors.Is(err, service.ErrIDRequired) {
			return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "document not found")
		}
		return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}

	c.Set(fiber.HeaderContentType, doc.ContentType)
	c.Set(fiber.HeaderContentDisposition, attachmentDisposition(doc.Filename))
	// Only advertise a Content-Length when the size fits the platform int.
	if size := int(doc.Size); int64(size) == doc.Size && size > 0 {
		return c.SendStream(rc, size)
	}
	return c.SendStream(rc)
}

// downloadArchive sends all the account's documents as a single zip archive.
func downloadArchive(c *fiber.Ctx, docSvc service.DocumentService, accountID string) error {
	var buf bytes.Buffer
	if err := docSvc.ArchiveAll(c.UserContext(), accountID, &buf); err != nil {
		if errors.Is(err, service.ErrAccountNotFound) || errors.Is(err, service.ErrIDRequired) {
			return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "account not found")
		}
		return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}

	c.Set(fiber.HeaderContentType, "application/zip")
	c.Set(fiber.HeaderContentDisposition, attachmentDisposition(accountID+"_documents.zip"))
	return c.Send(buf.Bytes())
}

// attachmentDisposition builds a Content-Disposition header that survives
// quotes and non-ASCII in the stored filename.
func attachmentDisposition(filename string) string {
	return mime.FormatMediaType("attachment", map[string]string{"filename": filename})
}
