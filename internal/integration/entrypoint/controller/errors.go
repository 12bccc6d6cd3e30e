package controller

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/finance-tracker/txcache/internal/application/usecase/datasync"
	domainerror "github.com/finance-tracker/txcache/internal/domain/error"
	"github.com/finance-tracker/txcache/internal/integration/entrypoint/dto"
)

// handleError maps domain errors to HTTP responses.
func handleError(ctx *gin.Context, err error) {
	var dashErr *domainerror.DashboardError
	if errors.As(err, &dashErr) {
		ctx.JSON(getStatusCodeForDashboardError(dashErr.Code), dto.ErrorResponse{
			Error: dashErr.Message,
			Code:  string(dashErr.Code),
		})
		return
	}

	var txErr *domainerror.TransactionError
	if errors.As(err, &txErr) {
		ctx.JSON(getStatusCodeForTransactionError(txErr.Code), dto.ErrorResponse{
			Error: txErr.Message,
			Code:  string(txErr.Code),
		})
		return
	}

	var syncErr *domainerror.SyncError
	if errors.As(err, &syncErr) {
		ctx.JSON(getStatusCodeForSyncError(syncErr.Code), dto.ErrorResponse{
			Error:   syncErr.Message,
			Code:    string(syncErr.Code),
			Details: unwrapDetails(syncErr.Err),
		})
		return
	}

	var cacheErr *domainerror.CacheError
	if errors.As(err, &cacheErr) {
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error: cacheErr.Message,
			Code:  string(cacheErr.Code),
		})
		return
	}

	slog.Error("Unhandled error", "path", ctx.FullPath(), "error", err)
	ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{
		Error: "An internal error occurred",
		Code:  string(domainerror.ErrCodeDashboardInternalError),
	})
}

// getStatusCodeForDashboardError maps dashboard error codes to HTTP status codes.
func getStatusCodeForDashboardError(code domainerror.DashboardErrorCode) int {
	switch code {
	case domainerror.ErrCodeMissingStartDate,
		domainerror.ErrCodeMissingEndDate,
		domainerror.ErrCodeUnknownRangePreset,
		domainerror.ErrCodeInvalidDateFormat,
		domainerror.ErrCodeInvalidLimit,
		domainerror.ErrCodeInvalidBudgetAmount,
		domainerror.ErrCodeInvalidGranularity:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// getStatusCodeForTransactionError maps transaction error codes to HTTP status codes.
func getStatusCodeForTransactionError(code domainerror.TransactionErrorCode) int {
	switch code {
	case domainerror.ErrCodeCreateFailed, domainerror.ErrCodeUpdateFailed, domainerror.ErrCodeDeleteFailed:
		return http.StatusBadGateway
	case domainerror.ErrCodeTransactionNotFound:
		return http.StatusNotFound
	default:
		return http.StatusBadRequest
	}
}

// getStatusCodeForSyncError maps sync error codes to HTTP status codes.
func getStatusCodeForSyncError(code domainerror.SyncErrorCode) int {
	switch code {
	case domainerror.ErrCodeNoIdentity, domainerror.ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case domainerror.ErrCodeRefreshRateLimited:
		return http.StatusTooManyRequests
	case domainerror.ErrCodeFetchFailed:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func unwrapDetails(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

// ensureLoaded hydrates the mirror of the request identity before a read.
func ensureLoaded(ctx *gin.Context, mirror *datasync.Controller) bool {
	if mirror.Ready() {
		return true
	}
	if mirror.Status().Identity == "" {
		handleError(ctx, domainerror.NewSyncError(domainerror.ErrCodeNoIdentity, "sign in to read the cache", domainerror.ErrNoIdentity))
		return false
	}
	if err := mirror.Activate(ctx.Request.Context()); err != nil {
		handleError(ctx, err)
		return false
	}
	return true
}

// parseLimit reads the limit query parameter, defaulting when absent.
func parseLimit(ctx *gin.Context, defaultLimit int) (int, bool) {
	raw := ctx.Query("limit")
	if raw == "" {
		return defaultLimit, true
	}

	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 0 {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: domainerror.ErrInvalidLimit.Error(),
			Code:  string(domainerror.ErrCodeInvalidLimit),
		})
		return 0, false
	}
	return limit, true
}
