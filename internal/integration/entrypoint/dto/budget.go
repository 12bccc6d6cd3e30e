package dto

import (
	"github.com/shopspring/decimal"

	"github.com/finance-tracker/txcache/internal/domain/entity"
)

// BudgetProgressRequest represents a budget to measure against the cache.
type BudgetProgressRequest struct {
	Name       string  `json:"name"`
	Type       string  `json:"type,omitempty" binding:"omitempty,oneof=expense income"`
	CategoryID string  `json:"category_id,omitempty"`
	Amount     float64 `json:"amount" binding:"required"`
	StartDay   string  `json:"start_day" binding:"required"`
	EndDay     string  `json:"end_day" binding:"required"`
}

// ToEntity converts the request to a domain budget.
func (r BudgetProgressRequest) ToEntity() entity.Budget {
	return entity.Budget{
		Name:       r.Name,
		Type:       entity.TransactionType(r.Type),
		CategoryID: entity.ID(r.CategoryID),
		Amount:     decimal.NewFromFloat(r.Amount),
		StartDay:   r.StartDay,
		EndDay:     r.EndDay,
	}
}

// BudgetProgressResponse represents how much of a budget has been consumed.
type BudgetProgressResponse struct {
	Name      string `json:"name"`
	Amount    string `json:"amount"`
	Spent     string `json:"spent"`
	Remaining string `json:"remaining"`
	Percent   string `json:"percent"`
	StartDay  string `json:"start_day"`
	EndDay    string `json:"end_day"`
}

// ToBudgetProgressResponse converts a domain budget progress to its response DTO.
func ToBudgetProgressResponse(progress entity.BudgetProgress) BudgetProgressResponse {
	return BudgetProgressResponse{
		Name:      progress.Budget.Name,
		Amount:    progress.Budget.Amount.StringFixed(2),
		Spent:     progress.Spent.StringFixed(2),
		Remaining: progress.Remaining.StringFixed(2),
		Percent:   progress.Percent.StringFixed(2),
		StartDay:  progress.Budget.StartDay,
		EndDay:    progress.Budget.EndDay,
	}
}
