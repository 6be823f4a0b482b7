package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/library-api/internal/application/service"
	"github.com/sangkips/library-api/internal/domain/repository"
	"github.com/sangkips/library-api/internal/presentation/http/dto/request"
	"github.com/sangkips/library-api/internal/presentation/http/dto/response"
)

// PurchaseHandler handles purchase-related HTTP requests
type PurchaseHandler struct {
	purchaseService *service.PurchaseService
}

// NewPurchaseHandler creates a new purchase handler
func NewPurchaseHandler(purchaseService *service.PurchaseService) *PurchaseHandler {
	return &PurchaseHandler{purchaseService: purchaseService}
}

// stockFilter reads the list query shared by purchases and scraps.
func stockFilter(c *gin.Context) (*repository.StockFilterParams, error) {
	start, end, err := dateRange(c)
	if err != nil {
		return nil, err
	}
	ledgerID, err := optionalUUID(c, "ledger_id")
	if err != nil {
		return nil, err
	}
	return &repository.StockFilterParams{
		Pagination: pageParams(c),
		Search:     c.Query("search"),
		LedgerID:   ledgerID,
		StartDate:  start,
		EndDate:    end,
	}, nil
}

// List handles listing purchases
// @Summary List purchases
// @Tags purchases
// @Produce json
// @Param page query int false "Page"
// @Param per_page query int false "Page size"
// @Param search query string false "Invoice number or ledger name"
// @Param start_date query string false "YYYY-MM-DD or DD-MM-YYYY"
// @Param end_date query string false "YYYY-MM-DD or DD-MM-YYYY"
// @Success 200 {object} response.APIResponse
// @Router /purchases [get]
func (h *PurchaseHandler) List(c *gin.Context) {
	params, err := stockFilter(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	result, err := h.purchaseService.ListPurchases(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, "Purchases retrieved successfully", result)
}

// Create handles creating a purchase
// @Summary Create a purchase
// @Tags purchases
// @Accept json
// @Produce json
// @Param request body request.PurchaseRequest true "Purchase"
// @Success 201 {object} response.APIResponse
// @Failure 422 {object} response.APIResponse
// @Router /purchases [post]
func (h *PurchaseHandler) Create(c *gin.Context) {
	var req request.PurchaseRequest
	if !bindJSON(c, &req) {
		return
	}

	stock, err := h.purchaseService.CreatePurchase(c.Request.Context(), req.ToInput())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Purchase created successfully", stock)
}

// Get handles getting a purchase by ID
func (h *PurchaseHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id", "purchase")
	if !ok {
		return
	}

	stock, err := h.purchaseService.GetPurchase(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Purchase retrieved successfully", stock)
}

// Update handles updating a purchase
func (h *PurchaseHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id", "purchase")
	if !ok {
		return
	}

	var req request.PurchaseRequest
	if !bindJSON(c, &req) {
		return
	}

	stock, err := h.purchaseService.UpdatePurchase(c.Request.Context(), id, req.ToInput())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Purchase updated successfully", stock)
}

// Delete handles deleting a purchase
func (h *PurchaseHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id", "purchase")
	if !ok {
		return
	}

	if err := h.purchaseService.DeletePurchase(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Purchase deleted successfully", nil)
}
