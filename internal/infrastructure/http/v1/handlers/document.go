package handlers

import (
	"github.com/gin-gonic/gin"

	"docpress/internal/core/apperror"
	"docpress/internal/core/sequence"
	"docpress/internal/domain/document"
	"docpress/internal/infrastructure/http/v1/dto"
)

// DocumentHandler exposes the document lifecycle over HTTP.
type DocumentHandler struct {
	BaseHandler
	service *document.Service
	policy  document.TaxPolicy
}

// NewDocumentHandler creates a document handler. The tax policy is the
// server-wide default applied to drafts.
func NewDocumentHandler(service *document.Service, policy document.TaxPolicy) *DocumentHandler {
	return &DocumentHandler{service: service, policy: policy}
}

// Create handles POST /documents.
func (h *DocumentHandler) Create(c *gin.Context) {
	var req dto.CreateDocumentRequest
	if !h.BindJSON(c, &req) {
		return
	}

	rec := document.NewRecord(document.Type(req.Type), req.Customer.ToCustomer())
	rec.Items = dto.ToItems(req.Items)
	if req.IssuedDate != nil {
		rec.IssuedDate = *req.IssuedDate
	}
	rec.DueDate = req.DueDate
	rec.ValidUntil = req.ValidUntil
	rec.Responsibilities = req.Responsibilities
	rec.Terms = req.Terms
	if req.CurrencyRate.Sign() > 0 {
		rec.CurrencyRate = req.CurrencyRate
	}

	if err := h.service.CreateDraft(c.Request.Context(), rec, h.policy); err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, rec.ID.String())
}

// Get handles GET /documents/:id.
func (h *DocumentHandler) Get(c *gin.Context) {
	recID, ok := h.ParseID(c)
	if !ok {
		return
	}

	rec, err := h.service.GetByID(c.Request.Context(), recID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromRecord(rec))
}

// List handles GET /documents.
func (h *DocumentHandler) List(c *gin.Context) {
	var req dto.ListDocumentsRequest
	if !h.BindQuery(c, &req) {
		return
	}

	recs, err := h.service.List(c.Request.Context(), document.Type(req.Type))
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.ListResponse{Items: dto.FromRecords(recs), Total: len(recs)})
}

// Update handles PUT /documents/:id.
func (h *DocumentHandler) Update(c *gin.Context) {
	recID, ok := h.ParseID(c)
	if !ok {
		return
	}

	var req dto.UpdateDocumentRequest
	if !h.BindJSON(c, &req) {
		return
	}

	existing, err := h.service.GetByID(c.Request.Context(), recID)
	if err != nil {
		h.Error(c, err)
		return
	}

	rec := *existing
	rec.Customer = req.Customer.ToCustomer()
	rec.Items = dto.ToItems(req.Items)
	if req.IssuedDate != nil {
		rec.IssuedDate = *req.IssuedDate
	}
	rec.DueDate = req.DueDate
	rec.ValidUntil = req.ValidUntil
	rec.Responsibilities = req.Responsibilities
	rec.Terms = req.Terms
	rec.CurrencyRate = req.CurrencyRate

	if err := h.service.UpdateDraft(c.Request.Context(), &rec, h.policy); err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromRecord(&rec))
}

// Finalize handles POST /documents/:id/finalize.
func (h *DocumentHandler) Finalize(c *gin.Context) {
	recID, ok := h.ParseID(c)
	if !ok {
		return
	}

	rec, err := h.service.Finalize(c.Request.Context(), recID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromRecord(rec))
}

// Convert handles POST /documents/:id/convert.
func (h *DocumentHandler) Convert(c *gin.Context) {
	recID, ok := h.ParseID(c)
	if !ok {
		return
	}

	var req dto.ConvertDocumentRequest
	if !h.BindJSON(c, &req) {
		return
	}

	rec, err := h.service.Convert(c.Request.Context(), recID, document.Type(req.TargetType))
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(201, dto.FromRecord(rec))
}

// PeekNumber handles GET /sequences/:type/peek.
func (h *DocumentHandler) PeekNumber(c *gin.Context) {
	t := sequence.DocType(c.Param("type"))
	if !t.Valid() {
		h.Error(c, apperror.NewValidation("unknown document type").WithDetail("type", c.Param("type")))
		return
	}

	number, err := h.service.PeekNumber(c.Request.Context(), document.Type(t))
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.NumberResponse{Number: number})
}
