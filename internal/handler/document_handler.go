package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"visaprep/internal/catalog"
	"visaprep/internal/export"
	"visaprep/internal/service"
)

// DocumentHandler handles document extraction endpoints.
type DocumentHandler struct {
	docService service.DocumentService
}

// NewDocumentHandler creates a new DocumentHandler.
func NewDocumentHandler(docService service.DocumentService) *DocumentHandler {
	return &DocumentHandler{docService: docService}
}

type createDocumentRequest struct {
	FileID           string `json:"file_id" binding:"required,uuid"`
	DocumentCategory string `json:"document_category"`
	OCRText          string `json:"ocr_text"`
}

// Create handles POST /api/v1/documents
func (h *DocumentHandler) Create(c *gin.Context) {
	userID, ok := extractAuthContext(c)
	if !ok {
		return
	}

	var req createDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_INPUT", err.Error())
		return
	}

	fileID, err := uuid.Parse(req.FileID)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid file ID")
		return
	}

	doc, err := h.docService.Create(c.Request.Context(), &service.CreateDocumentInput{
		UserID:           userID,
		FileID:           fileID,
		DocumentCategory: req.DocumentCategory,
		OCRText:          req.OCRText,
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, doc)
}

// List handles GET /api/v1/documents
func (h *DocumentHandler) List(c *gin.Context) {
	userID, ok := extractAuthContext(c)
	if !ok {
		return
	}

	offset, limit := paginationParams(c)

	docs, total, err := h.docService.ListByUser(c.Request.Context(), userID, offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondPaginated(c, docs, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// GetByID handles GET /api/v1/documents/:id
func (h *DocumentHandler) GetByID(c *gin.Context) {
	userID, ok := extractAuthContext(c)
	if !ok {
		return
	}

	docID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid document ID")
		return
	}

	doc, err := h.docService.GetByID(c.Request.Context(), userID, docID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, doc)
}

// GetResult handles GET /api/v1/documents/:id/result
func (h *DocumentHandler) GetResult(c *gin.Context) {
	userID, ok := extractAuthContext(c)
	if !ok {
		return
	}

	docID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid document ID")
		return
	}

	result, err := h.docService.GetResult(c.Request.Context(), userID, docID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, result)
}

// Retry handles POST /api/v1/documents/:id/retry
func (h *DocumentHandler) Retry(c *gin.Context) {
	userID, ok := extractAuthContext(c)
	if !ok {
		return
	}

	docID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid document ID")
		return
	}

	doc, err := h.docService.RetryExtraction(c.Request.Context(), userID, docID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, doc)
}

// Delete handles DELETE /api/v1/documents/:id
func (h *DocumentHandler) Delete(c *gin.Context) {
	userID, ok := extractAuthContext(c)
	if !ok {
		return
	}

	docID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid document ID")
		return
	}

	if err := h.docService.Delete(c.Request.Context(), userID, docID); err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"message": "document deleted"})
}

// ExportCSV handles GET /api/v1/documents/:id/export/csv
func (h *DocumentHandler) ExportCSV(c *gin.Context) {
	userID, ok := extractAuthContext(c)
	if !ok {
		return
	}

	docID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid document ID")
		return
	}

	result, err := h.docService.GetResult(c.Request.Context(), userID, docID)
	if err != nil {
		HandleError(c, err)
		return
	}

	filename := export.BuildFilename(result.DocumentType, "csv")
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Status(http.StatusOK)

	_, _ = c.Writer.Write(export.BOM)
	w := export.NewCSVWriter(c.Writer)
	if err := w.WriteHeader(); err != nil {
		return
	}
	if err := w.WriteResult(result); err != nil {
		return
	}
	w.Flush()
}

// ExportXLSX handles GET /api/v1/documents/:id/export/xlsx
func (h *DocumentHandler) ExportXLSX(c *gin.Context) {
	userID, ok := extractAuthContext(c)
	if !ok {
		return
	}

	docID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid document ID")
		return
	}

	result, err := h.docService.GetResult(c.Request.Context(), userID, docID)
	if err != nil {
		HandleError(c, err)
		return
	}

	buf, err := export.WriteXLSX(result)
	if err != nil {
		HandleError(c, err)
		return
	}

	filename := export.BuildFilename(result.DocumentType, "xlsx")
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

// Categories handles GET /api/v1/documents/categories
func (h *DocumentHandler) Categories(c *gin.Context) {
	RespondOK(c, gin.H{"categories": catalog.Categories()})
}
