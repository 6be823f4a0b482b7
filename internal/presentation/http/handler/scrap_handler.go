package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/library-api/internal/application/service"
	"github.com/sangkips/library-api/internal/presentation/http/dto/request"
	"github.com/sangkips/library-api/internal/presentation/http/dto/response"
)

// ScrapHandler handles book scrap HTTP requests
type ScrapHandler struct {
	scrapService *service.ScrapService
}

// NewScrapHandler creates a new scrap handler
func NewScrapHandler(scrapService *service.ScrapService) *ScrapHandler {
	return &ScrapHandler{scrapService: scrapService}
}

// List handles listing scraps, one group of detail rows per document
// @Summary List book scraps
// @Tags book-scraps
// @Produce json
// @Success 200 {object} response.APIResponse
// @Router /book-scraps [get]
func (h *ScrapHandler) List(c *gin.Context) {
	params, err := stockFilter(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	result, err := h.scrapService.ListScraps(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, "Book scraps retrieved successfully", result)
}

// Create handles scrapping copies
func (h *ScrapHandler) Create(c *gin.Context) {
	var req request.ScrapRequest
	if !bindJSON(c, &req) {
		return
	}

	stock, err := h.scrapService.CreateScrap(c.Request.Context(), req.ToInput())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Book scrap created successfully", stock)
}

// Get handles getting a scrap by ID
func (h *ScrapHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id", "book scrap")
	if !ok {
		return
	}

	stock, err := h.scrapService.GetScrap(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Book scrap retrieved successfully", stock)
}

// Delete handles deleting a scrap. Its copies go back on the shelf.
func (h *ScrapHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id", "book scrap")
	if !ok {
		return
	}

	if err := h.scrapService.DeleteScrap(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Book scrap deleted successfully", nil)
}
