package handler

import (
	"context"
	"net/http"

	"github.com/erp/stockledger/internal/domain/shared"
	voucherdomain "github.com/erp/stockledger/internal/domain/voucher"
	"github.com/erp/stockledger/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// DocumentRepository is the persistence-layer contract a VoucherHandler
// needs; persistence.GormVoucherDocumentRepository[T] satisfies it.
type DocumentRepository[T any] interface {
	FindByName(ctx context.Context, tenantID uuid.UUID, name string) (*T, error)
	FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]T, error)
	Save(ctx context.Context, doc *T) error
}

// VoucherHandler dispatches the four generic voucher operations - create,
// submit, cancel, read - through the document hook registry for a single
// document kind T. PT pins the pointer-receiver methods voucherdomain.Document
// requires, the same pointer-constraint idiom Go generics use whenever a
// value type's behavior lives on *T.
type VoucherHandler[T any, PT interface {
	*T
	voucherdomain.Document
}] struct {
	BaseHandler
	repo     DocumentRepository[T]
	registry *voucherdomain.Registry
	docType  string
}

// NewVoucherHandler creates a VoucherHandler for document kind docType
// (the registry key from §4.8, e.g. "Purchase Receipt"), backed by repo.
func NewVoucherHandler[T any, PT interface {
	*T
	voucherdomain.Document
}](repo DocumentRepository[T], registry *voucherdomain.Registry, docType string) *VoucherHandler[T, PT] {
	return &VoucherHandler[T, PT]{repo: repo, registry: registry, docType: docType}
}

func (h *VoucherHandler[T, PT]) hook(c *gin.Context) voucherdomain.Handler {
	hk := h.registry.Handler(h.docType)
	if hk == nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   gin.H{"code": "ERR_INTERNAL", "message": "no handler registered for this document kind"},
		})
	}
	return hk
}

// Create binds the request body into a new draft document, runs
// beforeSave, and persists it.
func (h *VoucherHandler[T, PT]) Create(c *gin.Context) {
	tenantID, err := middleware.GetTenantUUID(c)
	if err != nil {
		h.BadRequest(c, "invalid tenant context")
		return
	}
	hk := h.hook(c)
	if hk == nil {
		return
	}

	var doc T
	if err := c.ShouldBindJSON(&doc); err != nil {
		h.BadRequest(c, "invalid request body: "+err.Error())
		return
	}
	pt := PT(&doc)
	pt.SetTenantID(tenantID)

	user := middleware.GetActingUser(c)
	if err := hk.BeforeSave(c.Request.Context(), any(pt), user); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	if err := h.repo.Save(c.Request.Context(), &doc); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, doc)
}

// Get loads a document (and its lines) by its generated voucher name.
func (h *VoucherHandler[T, PT]) Get(c *gin.Context) {
	tenantID, err := middleware.GetTenantUUID(c)
	if err != nil {
		h.BadRequest(c, "invalid tenant context")
		return
	}
	doc, err := h.repo.FindByName(c.Request.Context(), tenantID, c.Param("name"))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, doc)
}

// List returns a paginated set of documents of this kind for the tenant.
func (h *VoucherHandler[T, PT]) List(c *gin.Context) {
	tenantID, err := middleware.GetTenantUUID(c)
	if err != nil {
		h.BadRequest(c, "invalid tenant context")
		return
	}
	docs, err := h.repo.FindAll(c.Request.Context(), tenantID, defaultFilter(c))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, docs)
}

// Submit transitions a draft document to submitted, running the document
// kind's onSubmit stock/GL side effects, per §4.8.
func (h *VoucherHandler[T, PT]) Submit(c *gin.Context) {
	h.transition(c, func(ctx context.Context, hk voucherdomain.Handler, doc any, user voucherdomain.ActingUser) error {
		return hk.OnSubmit(ctx, doc, user)
	})
}

// Cancel reverses a submitted document's stock/GL side effects, per §4.8.
func (h *VoucherHandler[T, PT]) Cancel(c *gin.Context) {
	h.transition(c, func(ctx context.Context, hk voucherdomain.Handler, doc any, user voucherdomain.ActingUser) error {
		return hk.OnCancel(ctx, doc, user)
	})
}

func (h *VoucherHandler[T, PT]) transition(c *gin.Context, run func(context.Context, voucherdomain.Handler, any, voucherdomain.ActingUser) error) {
	tenantID, err := middleware.GetTenantUUID(c)
	if err != nil {
		h.BadRequest(c, "invalid tenant context")
		return
	}
	hk := h.hook(c)
	if hk == nil {
		return
	}

	doc, err := h.repo.FindByName(c.Request.Context(), tenantID, c.Param("name"))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	user := middleware.GetActingUser(c)
	pt := PT(doc)
	if err := run(c.Request.Context(), hk, any(pt), user); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	if err := h.repo.Save(c.Request.Context(), doc); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, doc)
}
