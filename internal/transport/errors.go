package transport

import (
	"errors"
	"net/http"
	"strconv"

	"zenith-store/internal/middleware"
	"zenith-store/internal/repository"
	"zenith-store/internal/sales"
	"zenith-store/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// respondInvalidRequest answers a failed DecodeAndValidate with 400
func respondInvalidRequest(w http.ResponseWriter, logger *zap.Logger, err error) {
	logger.Debug("Request validation failed", zap.Error(err))
	middleware.RespondWithValidationErrors(w, middleware.FormatValidationErrors(err))
}

// respondServiceError maps known domain errors to their status codes and
// hides everything else behind a 500 with the given message
func respondServiceError(w http.ResponseWriter, logger *zap.Logger, err error, message string) {
	switch {
	case errors.Is(err, repository.ErrProductNotFound):
		middleware.RespondWithError(w, http.StatusNotFound, "product not found")
	case errors.Is(err, repository.ErrOrderNotFound):
		middleware.RespondWithError(w, http.StatusNotFound, "order not found")
	case errors.Is(err, repository.ErrUserNotFound):
		middleware.RespondWithError(w, http.StatusNotFound, "user not found")
	case errors.Is(err, repository.ErrReviewNotFound):
		middleware.RespondWithError(w, http.StatusNotFound, "review not found")
	case errors.Is(err, repository.ErrUserAlreadyExists):
		middleware.RespondWithError(w, http.StatusConflict, "user with this email already exists")
	case errors.Is(err, repository.ErrProductInUse):
		middleware.RespondWithError(w, http.StatusConflict, "product is referenced by existing orders")
	case errors.Is(err, service.ErrInvalidCredentials):
		middleware.RespondWithError(w, http.StatusUnauthorized, "invalid email or password")
	case errors.Is(err, service.ErrInvalidStatus),
		errors.Is(err, service.ErrEmptyOrder),
		errors.Is(err, sales.ErrInvalidBucketing):
		middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
	default:
		logger.Error(message, zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, message)
	}
}

// idParam reads a positive integer path parameter
func idParam(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
