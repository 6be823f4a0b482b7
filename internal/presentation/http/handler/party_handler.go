package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/library-api/internal/application/service"
	"github.com/sangkips/library-api/internal/presentation/http/dto/request"
	"github.com/sangkips/library-api/internal/presentation/http/dto/response"
)

// LedgerHandler handles ledger (supplier) HTTP requests
type LedgerHandler struct {
	ledgerService *service.LedgerService
}

// NewLedgerHandler creates a new ledger handler
func NewLedgerHandler(ledgerService *service.LedgerService) *LedgerHandler {
	return &LedgerHandler{ledgerService: ledgerService}
}

// List handles listing ledgers
func (h *LedgerHandler) List(c *gin.Context) {
	result, err := h.ledgerService.ListLedgers(c.Request.Context(), pageParams(c), c.Query("search"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, "Ledgers retrieved successfully", result)
}

// Create handles creating a ledger
func (h *LedgerHandler) Create(c *gin.Context) {
	var req request.LedgerRequest
	if !bindJSON(c, &req) {
		return
	}

	ledger, err := h.ledgerService.CreateLedger(c.Request.Context(), req.ToInput())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Ledger created successfully", ledger)
}

// Get handles getting a ledger by ID
func (h *LedgerHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id", "ledger")
	if !ok {
		return
	}

	ledger, err := h.ledgerService.GetLedger(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Ledger retrieved successfully", ledger)
}

// Update handles updating a ledger
func (h *LedgerHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id", "ledger")
	if !ok {
		return
	}

	var req request.LedgerRequest
	if !bindJSON(c, &req) {
		return
	}

	ledger, err := h.ledgerService.UpdateLedger(c.Request.Context(), id, req.ToInput())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Ledger updated successfully", ledger)
}

// Delete handles deleting a ledger
func (h *LedgerHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id", "ledger")
	if !ok {
		return
	}

	if err := h.ledgerService.DeleteLedger(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Ledger deleted successfully", nil)
}

// MemberHandler handles library member HTTP requests
type MemberHandler struct {
	memberService *service.MemberService
}

// NewMemberHandler creates a new member handler
func NewMemberHandler(memberService *service.MemberService) *MemberHandler {
	return &MemberHandler{memberService: memberService}
}

// List handles listing members
func (h *MemberHandler) List(c *gin.Context) {
	result, err := h.memberService.ListMembers(c.Request.Context(), pageParams(c), c.Query("search"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, "Members retrieved successfully", result)
}

// Create handles creating a member
func (h *MemberHandler) Create(c *gin.Context) {
	var req request.MemberRequest
	if !bindJSON(c, &req) {
		return
	}

	member, err := h.memberService.CreateMember(c.Request.Context(), req.ToInput())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Member created successfully", member)
}

// Get handles getting a member by ID
func (h *MemberHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id", "member")
	if !ok {
		return
	}

	member, err := h.memberService.GetMember(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Member retrieved successfully", member)
}

// Update handles updating a member
func (h *MemberHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id", "member")
	if !ok {
		return
	}

	var req request.MemberRequest
	if !bindJSON(c, &req) {
		return
	}

	member, err := h.memberService.UpdateMember(c.Request.Context(), id, req.ToInput())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Member updated successfully", member)
}

// Delete handles deleting a member
func (h *MemberHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id", "member")
	if !ok {
		return
	}

	if err := h.memberService.DeleteMember(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Member deleted successfully", nil)
}
