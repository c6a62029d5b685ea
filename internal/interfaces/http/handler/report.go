package handler

import (
	"time"

	"github.com/erp/stockledger/internal/application/ledgerreport"
	"github.com/erp/stockledger/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ReportHandler exposes the five read-model reports of §4.11 as plain
// GORM-backed GET endpoints, independent of the voucher write path.
type ReportHandler struct {
	BaseHandler
	reports *ledgerreport.Service
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reports *ledgerreport.Service) *ReportHandler {
	return &ReportHandler{reports: reports}
}

func parseDate(c *gin.Context, param string, fallback time.Time) time.Time {
	v := c.Query(param)
	if v == "" {
		return fallback
	}
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return fallback
	}
	return t
}

// TrialBalance handles GET /reports/trial-balance.
func (h *ReportHandler) TrialBalance(c *gin.Context) {
	tenantID, err := middleware.GetTenantUUID(c)
	if err != nil {
		h.BadRequest(c, "invalid tenant context")
		return
	}
	var start, end *time.Time
	if v := c.Query("start_date"); v != "" {
		if t, e := time.Parse("2006-01-02", v); e == nil {
			start = &t
		}
	}
	if v := c.Query("end_date"); v != "" {
		if t, e := time.Parse("2006-01-02", v); e == nil {
			end = &t
		}
	}
	result, err := h.reports.GetTrialBalance(c.Request.Context(), tenantID, start, end)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, result)
}

// BalanceSheet handles GET /reports/balance-sheet.
func (h *ReportHandler) BalanceSheet(c *gin.Context) {
	tenantID, err := middleware.GetTenantUUID(c)
	if err != nil {
		h.BadRequest(c, "invalid tenant context")
		return
	}
	asOf := parseDate(c, "as_of", time.Now())
	result, err := h.reports.GetBalanceSheet(c.Request.Context(), tenantID, asOf)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, result)
}

// ProfitAndLoss handles GET /reports/profit-and-loss.
func (h *ReportHandler) ProfitAndLoss(c *gin.Context) {
	tenantID, err := middleware.GetTenantUUID(c)
	if err != nil {
		h.BadRequest(c, "invalid tenant context")
		return
	}
	now := time.Now()
	start := parseDate(c, "start_date", now.AddDate(0, -1, 0))
	end := parseDate(c, "end_date", now)
	result, err := h.reports.GetProfitAndLoss(c.Request.Context(), tenantID, start, end)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, result)
}

// GeneralLedger handles GET /reports/general-ledger.
func (h *ReportHandler) GeneralLedger(c *gin.Context) {
	tenantID, err := middleware.GetTenantUUID(c)
	if err != nil {
		h.BadRequest(c, "invalid tenant context")
		return
	}
	accountID, err := uuid.Parse(c.Query("account_id"))
	if err != nil {
		h.BadRequest(c, "account_id must be a UUID")
		return
	}
	now := time.Now()
	start := parseDate(c, "start_date", now.AddDate(-1, 0, 0))
	end := parseDate(c, "end_date", now)

	rows, err := h.reports.GetGeneralLedger(c.Request.Context(), tenantID, accountID, start, end, defaultFilter(c))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, rows)
}

// ReceivableAging handles GET /reports/receivable-aging.
func (h *ReportHandler) ReceivableAging(c *gin.Context) {
	tenantID, err := middleware.GetTenantUUID(c)
	if err != nil {
		h.BadRequest(c, "invalid tenant context")
		return
	}
	asOf := parseDate(c, "as_of", time.Now())
	rows, err := h.reports.GetReceivableAging(c.Request.Context(), tenantID, asOf)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, rows)
}

// PayableAging handles GET /reports/payable-aging.
func (h *ReportHandler) PayableAging(c *gin.Context) {
	tenantID, err := middleware.GetTenantUUID(c)
	if err != nil {
		h.BadRequest(c, "invalid tenant context")
		return
	}
	asOf := parseDate(c, "as_of", time.Now())
	rows, err := h.reports.GetPayableAging(c.Request.Context(), tenantID, asOf)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, rows)
}
