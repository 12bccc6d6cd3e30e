package controller

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/finance-tracker/txcache/internal/application/usecase/dashboard"
	"github.com/finance-tracker/txcache/internal/application/usecase/datasync"
	"github.com/finance-tracker/txcache/internal/application/usecase/transaction"
	"github.com/finance-tracker/txcache/internal/domain/entity"
	domainerror "github.com/finance-tracker/txcache/internal/domain/error"
	"github.com/finance-tracker/txcache/internal/domain/valueobject"
	"github.com/finance-tracker/txcache/internal/integration/entrypoint/dto"
)

// TransactionController handles transaction endpoints.
type TransactionController struct {
	mirror *datasync.Controller
}

// NewTransactionController creates a new transaction controller instance.
func NewTransactionController(mirror *datasync.Controller) *TransactionController {
	return &TransactionController{
		mirror: mirror,
	}
}

// Recent handles GET /transactions/recent requests.
func (c *TransactionController) Recent(ctx *gin.Context) {
	if !ensureLoaded(ctx, c.mirror) {
		return
	}

	limit, ok := parseLimit(ctx, dashboard.DefaultRecentLimit)
	if !ok {
		return
	}

	txs, err := c.mirror.Recent(ctx.Query("start"), ctx.Query("end"), limit)
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToTransactionListResponse(txs))
}

// RecentAll handles GET /transactions/recent/all requests.
func (c *TransactionController) RecentAll(ctx *gin.Context) {
	if !ensureLoaded(ctx, c.mirror) {
		return
	}

	limit, ok := parseLimit(ctx, dashboard.DefaultRecentLimit)
	if !ok {
		return
	}

	ctx.JSON(http.StatusOK, dto.ToTransactionListResponse(c.mirror.RecentAll(limit)))
}

// Create handles POST /transactions requests.
func (c *TransactionController) Create(ctx *gin.Context) {
	var req dto.CreateTransactionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid request body: " + err.Error(),
			Code:  string(domainerror.ErrCodeInvalidTransactionType),
		})
		return
	}

	loc := c.mirror.Location()

	date, err := parseDateInput(req.Date, loc)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid date format. Use YYYY-MM-DD or RFC 3339",
			Code:  string(domainerror.ErrCodeInvalidTransactionDate),
		})
		return
	}

	var endDate *time.Time
	if req.EndDate != "" {
		parsed, err := parseDateInput(req.EndDate, loc)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
				Error: "Invalid end_date format. Use YYYY-MM-DD or RFC 3339",
				Code:  string(domainerror.ErrCodeInvalidEndDate),
			})
			return
		}
		endDate = &parsed
	}

	if !ensureLoaded(ctx, c.mirror) {
		return
	}

	input := transaction.CreateTransactionInput{
		Type:          entity.TransactionType(req.Type),
		Amount:        decimal.NewFromFloat(req.Amount),
		Date:          date,
		CategoryID:    entity.ID(req.CategoryID),
		PaymentMethod: req.PaymentMethod,
		Note:          req.Note,
		IsRecurring:   req.IsRecurring,
		Recurrence:    entity.Recurrence(req.Recurrence),
		EndDate:       endDate,
	}

	created, err := c.mirror.CreateTransaction(ctx.Request.Context(), input)
	if created == nil {
		handleError(ctx, err)
		return
	}
	if err != nil {
		slog.Warn("Transaction created but not cached", "id", created.ID.String(), "error", err)
	}

	ctx.JSON(http.StatusCreated, dto.ToTransactionResponse(*created))
}

// Update handles PATCH /transactions/:id requests.
func (c *TransactionController) Update(ctx *gin.Context) {
	var req dto.UpdateTransactionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid request body: " + err.Error(),
			Code:  string(domainerror.ErrCodeInvalidTransactionType),
		})
		return
	}

	changes := entity.TransactionChanges{
		PaymentMethod: req.PaymentMethod,
		Note:          req.Note,
	}
	if req.Type != nil {
		txType := entity.TransactionType(*req.Type)
		changes.Type = &txType
	}
	if req.Amount != nil {
		amount := decimal.NewFromFloat(*req.Amount)
		changes.Amount = &amount
	}
	if req.CategoryID != nil {
		categoryID := entity.ID(*req.CategoryID)
		changes.CategoryID = &categoryID
	}
	if req.Date != nil {
		date, err := parseDateInput(*req.Date, c.mirror.Location())
		if err != nil {
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
				Error: "Invalid date format. Use YYYY-MM-DD or RFC 3339",
				Code:  string(domainerror.ErrCodeInvalidTransactionDate),
			})
			return
		}
		changes.Date = &date
	}

	if !ensureLoaded(ctx, c.mirror) {
		return
	}

	updated, err := c.mirror.UpdateTransaction(ctx.Request.Context(), transaction.UpdateTransactionInput{
		ID:      entity.ID(ctx.Param("id")),
		Changes: changes,
	})
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToTransactionResponse(*updated))
}

// Delete handles DELETE /transactions/:id requests.
func (c *TransactionController) Delete(ctx *gin.Context) {
	if !ensureLoaded(ctx, c.mirror) {
		return
	}

	if err := c.mirror.DeleteTransaction(ctx.Request.Context(), entity.ID(ctx.Param("id"))); err != nil {
		handleError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

// parseDateInput accepts a local day or an RFC 3339 instant.
func parseDateInput(raw string, loc *time.Location) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return valueobject.ParseDay(raw, loc)
}
