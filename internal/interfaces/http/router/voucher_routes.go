package router

import (
	"github.com/erp/stockledger/internal/interfaces/http/handler"
	"github.com/gin-gonic/gin"
)

// voucherRoutes is the common Create/Get/List/Submit/Cancel shape every
// voucher document kind's handler exposes; VoucherRoutes binds one such set
// under a resource path.
type voucherRoutes interface {
	Create(c *gin.Context)
	Get(c *gin.Context)
	List(c *gin.Context)
	Submit(c *gin.Context)
	Cancel(c *gin.Context)
}

// VoucherRegistrar mounts one voucher document kind's CRUD + lifecycle
// routes under resource (e.g. "purchase-receipts").
type VoucherRegistrar struct {
	resource string
	h        voucherRoutes
}

// NewVoucherRegistrar creates a RouteRegistrar for one voucher document kind.
func NewVoucherRegistrar(resource string, h voucherRoutes) *VoucherRegistrar {
	return &VoucherRegistrar{resource: resource, h: h}
}

// RegisterRoutes attaches this document kind's routes to rg.
func (v *VoucherRegistrar) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group("/" + v.resource)
	group.POST("", v.h.Create)
	group.GET("", v.h.List)
	group.GET("/:name", v.h.Get)
	group.POST("/:name/submit", v.h.Submit)
	group.POST("/:name/cancel", v.h.Cancel)
}

var _ RouteRegistrar = (*VoucherRegistrar)(nil)

// ReportRegistrar mounts the read-model report endpoints under /reports.
type ReportRegistrar struct {
	h *handler.ReportHandler
}

// NewReportRegistrar creates a RouteRegistrar for the report endpoints.
func NewReportRegistrar(h *handler.ReportHandler) *ReportRegistrar {
	return &ReportRegistrar{h: h}
}

// RegisterRoutes attaches the report GET endpoints to rg.
func (r *ReportRegistrar) RegisterRoutes(rg *gin.RouterGroup) {
	reports := rg.Group("/reports")
	reports.GET("/trial-balance", r.h.TrialBalance)
	reports.GET("/balance-sheet", r.h.BalanceSheet)
	reports.GET("/profit-and-loss", r.h.ProfitAndLoss)
	reports.GET("/general-ledger", r.h.GeneralLedger)
	reports.GET("/receivable-aging", r.h.ReceivableAging)
	reports.GET("/payable-aging", r.h.PayableAging)
}

var _ RouteRegistrar = (*ReportRegistrar)(nil)
