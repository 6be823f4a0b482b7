package handler

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/library-api/internal/application/service"
	"github.com/sangkips/library-api/internal/domain/entity"
	"github.com/sangkips/library-api/internal/domain/enum"
	"github.com/sangkips/library-api/internal/domain/repository"
	"github.com/sangkips/library-api/internal/presentation/http/dto/request"
	"github.com/sangkips/library-api/internal/presentation/http/dto/response"
)

// LookupHandler serves one of the name-only catalogue lists.
type LookupHandler[T entity.Lookup, P entity.LookupRow[T]] struct {
	lookupService *service.LookupService[T, P]
}

// NewLookupHandler creates a handler for a lookup list
func NewLookupHandler[T entity.Lookup, P entity.LookupRow[T]](lookupService *service.LookupService[T, P]) *LookupHandler[T, P] {
	return &LookupHandler[T, P]{lookupService: lookupService}
}

func (h *LookupHandler[T, P]) label() string {
	return h.lookupService.Label()
}

// List lists entries; all=true returns every entry unpaged for dropdowns.
func (h *LookupHandler[T, P]) List(c *gin.Context) {
	if c.Query("all") == "true" {
		items, err := h.lookupService.All(c.Request.Context())
		if err != nil {
			response.Error(c, err)
			return
		}
		response.OK(c, h.label()+" list retrieved successfully", items)
		return
	}

	result, err := h.lookupService.List(c.Request.Context(), pageParams(c), c.Query("search"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, h.label()+" list retrieved successfully", result)
}

// Create adds an entry
func (h *LookupHandler[T, P]) Create(c *gin.Context) {
	var req request.NameRequest
	if !bindJSON(c, &req) {
		return
	}

	item, err := h.lookupService.Create(c.Request.Context(), req.Name)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, h.label()+" created successfully", item)
}

// Get returns one entry
func (h *LookupHandler[T, P]) Get(c *gin.Context) {
	id, ok := parseID(c, "id", strings.ToLower(h.label()))
	if !ok {
		return
	}

	item, err := h.lookupService.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, h.label()+" retrieved successfully", item)
}

// Update renames an entry
func (h *LookupHandler[T, P]) Update(c *gin.Context) {
	id, ok := parseID(c, "id", strings.ToLower(h.label()))
	if !ok {
		return
	}

	var req request.NameRequest
	if !bindJSON(c, &req) {
		return
	}

	item, err := h.lookupService.Update(c.Request.Context(), id, req.Name)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, h.label()+" updated successfully", item)
}

// Delete removes an entry no book refers to
func (h *LookupHandler[T, P]) Delete(c *gin.Context) {
	id, ok := parseID(c, "id", strings.ToLower(h.label()))
	if !ok {
		return
	}

	if err := h.lookupService.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, h.label()+" deleted successfully", nil)
}

// BookHandler handles book and copy HTTP requests
type BookHandler struct {
	bookService   *service.BookService
	importMaxSize int64
}

// NewBookHandler creates a new book handler. Uploads larger than
// importMaxSize bytes are refused.
func NewBookHandler(bookService *service.BookService, importMaxSize int64) *BookHandler {
	return &BookHandler{bookService: bookService, importMaxSize: importMaxSize}
}

// List handles listing books
// @Summary List books
// @Tags books
// @Produce json
// @Param search query string false "Name or ISBN"
// @Param author_id query string false "Author ID"
// @Param publication_id query string false "Publication ID"
// @Param language_id query string false "Language ID"
// @Param book_type_id query string false "Book type ID"
// @Success 200 {object} response.APIResponse
// @Router /books [get]
func (h *BookHandler) List(c *gin.Context) {
	params := &repository.BookFilterParams{
		Pagination: pageParams(c),
		Search:     c.Query("search"),
	}
	var err error
	if params.AuthorID, err = optionalUUID(c, "author_id"); err != nil {
		response.Error(c, err)
		return
	}
	if params.PublicationID, err = optionalUUID(c, "publication_id"); err != nil {
		response.Error(c, err)
		return
	}
	if params.LanguageID, err = optionalUUID(c, "language_id"); err != nil {
		response.Error(c, err)
		return
	}
	if params.BookTypeID, err = optionalUUID(c, "book_type_id"); err != nil {
		response.Error(c, err)
		return
	}

	result, err := h.bookService.ListBooks(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, "Books retrieved successfully", result)
}

// Create handles creating a book
func (h *BookHandler) Create(c *gin.Context) {
	var req request.BookRequest
	if !bindJSON(c, &req) {
		return
	}

	book, err := h.bookService.CreateBook(c.Request.Context(), req.ToInput())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Book created successfully", book)
}

// Get handles getting a book by ID
func (h *BookHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id", "book")
	if !ok {
		return
	}

	book, err := h.bookService.GetBook(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Book retrieved successfully", book)
}

// Update handles updating a book
func (h *BookHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id", "book")
	if !ok {
		return
	}

	var req request.BookRequest
	if !bindJSON(c, &req) {
		return
	}

	book, err := h.bookService.UpdateBook(c.Request.Context(), id, req.ToInput())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Book updated successfully", book)
}

// Delete handles deleting a book
func (h *BookHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id", "book")
	if !ok {
		return
	}

	if err := h.bookService.DeleteBook(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Book deleted successfully", nil)
}

// Import handles a multipart XLSX upload in the "file" field
// @Summary Import books from a spreadsheet
// @Tags books
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "XLSX workbook"
// @Success 200 {object} response.APIResponse{data=service.ImportResult}
// @Router /books/import [post]
func (h *BookHandler) Import(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "A spreadsheet must be uploaded in the file field")
		return
	}
	if h.importMaxSize > 0 && header.Size > h.importMaxSize {
		response.BadRequest(c, fmt.Sprintf("File is larger than %d bytes", h.importMaxSize))
		return
	}

	f, err := header.Open()
	if err != nil {
		response.BadRequest(c, "Could not read uploaded file")
		return
	}
	defer f.Close()

	result, err := h.bookService.ImportBooks(c.Request.Context(), f)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, fmt.Sprintf("%d books imported, %d rows skipped", result.Created, result.Skipped), result)
}

// ListCopies handles listing physical copies
func (h *BookHandler) ListCopies(c *gin.Context) {
	params := &repository.CopyFilterParams{
		Pagination: pageParams(c),
		Search:     c.Query("search"),
	}
	var err error
	if params.BookID, err = optionalUUID(c, "book_id"); err != nil {
		response.Error(c, err)
		return
	}
	if raw := c.Query("status"); raw != "" {
		status, perr := enum.ParseCopyStatus(raw)
		if perr != nil {
			response.BadRequest(c, "status must be Available, Issued or Scrapped")
			return
		}
		params.Status = &status
	}

	result, err := h.bookService.ListCopies(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, "Copies retrieved successfully", result)
}

// GetCopy handles looking a copy up by accession number
func (h *BookHandler) GetCopy(c *gin.Context) {
	bookCopy, err := h.bookService.GetCopy(c.Request.Context(), c.Param("accession_no"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Copy retrieved successfully", bookCopy)
}
