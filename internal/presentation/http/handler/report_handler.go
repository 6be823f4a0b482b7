package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/library-api/internal/application/service"
	"github.com/sangkips/library-api/internal/presentation/http/dto/response"
)

// ReportHandler serves the PDF reports.
type ReportHandler struct {
	reportService *service.ReportService
}

// NewReportHandler creates a new report handler
func NewReportHandler(reportService *service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

func (h *ReportHandler) send(c *gin.Context, doc *service.Document, err error) {
	if err != nil {
		response.Error(c, err)
		return
	}
	if doc.ArchiveKey != "" {
		c.Header("X-Archive-Key", doc.ArchiveKey)
	}
	response.File(c, doc.FileName, doc.ContentType, doc.Body)
}

// AccessionByAuthor renders the accession status of an author's books
// @Summary Accession status by author
// @Tags reports
// @Produce application/pdf
// @Param id path string true "Author ID"
// @Success 200 {file} file
// @Router /reports/accession/author/{id} [get]
func (h *ReportHandler) AccessionByAuthor(c *gin.Context) {
	id, ok := parseID(c, "id", "author")
	if !ok {
		return
	}
	doc, err := h.reportService.AccessionByAuthor(c.Request.Context(), id)
	h.send(c, doc, err)
}

// AccessionByPublication renders the accession status of a publication
// @Summary Accession status by publication
// @Tags reports
// @Produce application/pdf
// @Param name path string true "Publication name"
// @Success 200 {file} file
// @Router /reports/accession/publication/{name} [get]
func (h *ReportHandler) AccessionByPublication(c *gin.Context) {
	doc, err := h.reportService.AccessionByPublication(c.Request.Context(), c.Param("name"))
	h.send(c, doc, err)
}

// AccessionByLanguage renders the accession status of a language
// @Summary Accession status by language
// @Tags reports
// @Produce application/pdf
// @Param id path string true "Language ID"
// @Success 200 {file} file
// @Router /reports/accession/language/{id} [get]
func (h *ReportHandler) AccessionByLanguage(c *gin.Context) {
	id, ok := parseID(c, "id", "language")
	if !ok {
		return
	}
	doc, err := h.reportService.AccessionByLanguage(c.Request.Context(), id)
	h.send(c, doc, err)
}

// StockInvoice renders a purchase or scrap invoice
// @Summary Stock invoice
// @Tags reports
// @Produce application/pdf
// @Param id path string true "Purchase or scrap ID"
// @Success 200 {file} file
// @Router /reports/stock/{id} [get]
func (h *ReportHandler) StockInvoice(c *gin.Context) {
	id, ok := parseID(c, "id", "stock")
	if !ok {
		return
	}
	doc, err := h.reportService.StockInvoice(c.Request.Context(), id)
	h.send(c, doc, err)
}
