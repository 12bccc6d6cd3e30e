package dto

import (
	"github.com/finance-tracker/txcache/internal/application/usecase/dashboard"
	"github.com/finance-tracker/txcache/internal/domain/entity"
	"github.com/finance-tracker/txcache/internal/domain/valueobject"
)

// CategoryTotalResponse represents one category of a dashboard.
type CategoryTotalResponse struct {
	Category string `json:"category"`
	Total    string `json:"total"`
	Count    int    `json:"count"`
}

// DashboardResponse represents the totals of a day range.
type DashboardResponse struct {
	StartDay   string                  `json:"start_day"`
	EndDay     string                  `json:"end_day"`
	Income     string                  `json:"income"`
	Expense    string                  `json:"expense"`
	Balance    string                  `json:"balance"`
	ByCategory []CategoryTotalResponse `json:"by_category"`
}

// ToDashboardResponse converts a computed dashboard to its response DTO.
func ToDashboardResponse(window valueobject.DayWindow, totals entity.Dashboard) DashboardResponse {
	byCategory := make([]CategoryTotalResponse, 0, len(totals.ByCategory))
	for _, ct := range totals.ByCategory {
		byCategory = append(byCategory, CategoryTotalResponse{
			Category: ct.Category,
			Total:    ct.Total.StringFixed(2),
			Count:    ct.Count,
		})
	}

	return DashboardResponse{
		StartDay:   window.StartDay,
		EndDay:     window.EndDay,
		Income:     totals.Income.StringFixed(2),
		Expense:    totals.Expense.StringFixed(2),
		Balance:    totals.Balance.StringFixed(2),
		ByCategory: byCategory,
	}
}

// TrendPointResponse represents one period of a trend.
type TrendPointResponse struct {
	StartDay string `json:"start_day"`
	EndDay   string `json:"end_day"`
	Label    string `json:"label"`
	Income   string `json:"income"`
	Expense  string `json:"expense"`
	Balance  string `json:"balance"`
}

// TrendResponse represents income and expense per period over a day range.
type TrendResponse struct {
	StartDay    string               `json:"start_day"`
	EndDay      string               `json:"end_day"`
	Granularity string               `json:"granularity"`
	Points      []TrendPointResponse `json:"points"`
}

// ToTrendResponse converts a computed trend to its response DTO.
func ToTrendResponse(startDay, endDay string, granularity dashboard.Granularity, points []entity.TrendPoint) TrendResponse {
	out := make([]TrendPointResponse, 0, len(points))
	for _, p := range points {
		out = append(out, TrendPointResponse{
			StartDay: p.StartDay,
			EndDay:   p.EndDay,
			Label:    p.Label,
			Income:   p.Income.StringFixed(2),
			Expense:  p.Expense.StringFixed(2),
			Balance:  p.Balance.StringFixed(2),
		})
	}

	return TrendResponse{
		StartDay:    startDay,
		EndDay:      endDay,
		Granularity: string(granularity),
		Points:      out,
	}
}
