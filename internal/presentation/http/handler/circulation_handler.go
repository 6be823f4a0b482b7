package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/library-api/internal/application/service"
	"github.com/sangkips/library-api/internal/domain/enum"
	"github.com/sangkips/library-api/internal/domain/repository"
	"github.com/sangkips/library-api/internal/presentation/http/dto/request"
	"github.com/sangkips/library-api/internal/presentation/http/dto/response"
)

// CirculationHandler handles issue and return HTTP requests
type CirculationHandler struct {
	circulationService *service.CirculationService
}

// NewCirculationHandler creates a new circulation handler
func NewCirculationHandler(circulationService *service.CirculationService) *CirculationHandler {
	return &CirculationHandler{circulationService: circulationService}
}

// Issue handles lending copies to a member
// @Summary Issue books
// @Tags issues
// @Accept json
// @Produce json
// @Param request body request.CirculationRequest true "Member and accession numbers"
// @Success 201 {object} response.APIResponse
// @Router /issues [post]
func (h *CirculationHandler) Issue(c *gin.Context) {
	var req request.CirculationRequest
	if !bindJSON(c, &req) {
		return
	}

	circ, err := h.circulationService.IssueBooks(c.Request.Context(), req.ToInput())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Books issued successfully", circ)
}

// Return handles taking copies back from a member
// @Summary Return books
// @Tags issue-returns
// @Accept json
// @Produce json
// @Param request body request.CirculationRequest true "Member and selected accession numbers"
// @Success 201 {object} response.APIResponse
// @Failure 400 {object} response.APIResponse
// @Router /issue-returns [post]
func (h *CirculationHandler) Return(c *gin.Context) {
	var req request.CirculationRequest
	if !bindJSON(c, &req) {
		return
	}

	circ, err := h.circulationService.ReturnBooks(c.Request.Context(), req.ToInput())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Books returned successfully", circ)
}

// Outstanding lists the copies a member still holds. The member is named
// by username in the :id segment, which it shares with the member routes.
func (h *CirculationHandler) Outstanding(c *gin.Context) {
	copies, err := h.circulationService.Outstanding(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	if len(copies) == 0 {
		response.OK(c, service.NoOutstandingMessage, copies)
		return
	}

	response.OK(c, "Issued books retrieved successfully", copies)
}

// ListIssues lists issue documents only
func (h *CirculationHandler) ListIssues(c *gin.Context) {
	t := enum.CirculationTypeIssue
	h.list(c, &t)
}

// List lists issues and returns, one group of entries per document. The
// type query narrows it to "issue" or "return".
func (h *CirculationHandler) List(c *gin.Context) {
	var t *enum.CirculationType
	switch strings.ToLower(c.Query("type")) {
	case "":
	case "issue":
		issue := enum.CirculationTypeIssue
		t = &issue
	case "return":
		ret := enum.CirculationTypeReturn
		t = &ret
	default:
		response.BadRequest(c, "type must be issue or return")
		return
	}
	h.list(c, t)
}

func (h *CirculationHandler) list(c *gin.Context, t *enum.CirculationType) {
	start, end, err := dateRange(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	memberID, err := optionalUUID(c, "member_id")
	if err != nil {
		response.Error(c, err)
		return
	}

	params := &repository.CirculationFilterParams{
		Type:      t,
		MemberID:  memberID,
		Search:    c.Query("search"),
		StartDate: start,
		EndDate:   end,
	}
	result, err := h.circulationService.ListCirculations(c.Request.Context(), params, pageParams(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, "Issue details retrieved successfully", result)
}

// Get handles getting an issue or return by ID
func (h *CirculationHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id", "issue")
	if !ok {
		return
	}

	circ, err := h.circulationService.GetCirculation(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Issue details retrieved successfully", circ)
}

// Delete handles deleting an issue or return
func (h *CirculationHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id", "issue")
	if !ok {
		return
	}

	if err := h.circulationService.DeleteCirculation(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Issue details deleted successfully", nil)
}
