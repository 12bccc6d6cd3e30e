package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/finance-tracker/txcache/internal/application/usecase/datasync"
	domainerror "github.com/finance-tracker/txcache/internal/domain/error"
	"github.com/finance-tracker/txcache/internal/integration/entrypoint/dto"
)

// BudgetController handles budget endpoints.
type BudgetController struct {
	mirror *datasync.Controller
}

// NewBudgetController creates a new budget controller instance.
func NewBudgetController(mirror *datasync.Controller) *BudgetController {
	return &BudgetController{
		mirror: mirror,
	}
}

// Progress handles POST /budgets/progress requests.
func (c *BudgetController) Progress(ctx *gin.Context) {
	var req dto.BudgetProgressRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid request body: " + err.Error(),
			Code:  string(domainerror.ErrCodeInvalidBudgetAmount),
		})
		return
	}

	if !ensureLoaded(ctx, c.mirror) {
		return
	}

	progress, err := c.mirror.BudgetProgress(req.ToEntity())
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToBudgetProgressResponse(progress))
}
