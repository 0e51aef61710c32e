// Package ledger implements the internal transaction service. It trusts the
// gateway-stamped X-User-ID header instead of verifying tokens itself; see
// RequireUserHeader for the boundary this relies on.
package ledger

import (
	"encoding/json"
	"net/http"

	"finflow/common"
	"finflow/model"
	"finflow/service"
)

type Handler struct {
	service *service.TransactionService
}

func NewHandler(s *service.TransactionService) *Handler {
	return &Handler{service: s}
}

// ListTransactions godoc
// @Summary      List transactions with filters
// @Tags         transactions
// @Accept       json
// @Produce      json
// @Param        X-User-ID header int true "Verified user identity (gateway-stamped)"
// @Param        filters body model.TransactionFilterRequest true "Filter parameters"
// @Success      200  {array}   model.Transaction
// @Failure      400  {object}  common.AppError "Invalid filter payload"
// @Failure      401  {object}  common.AppError "Missing identity header"
// @Router       /transactions/ [post]
func (h *Handler) ListTransactions(w http.ResponseWriter, r *http.Request) *common.AppError {
	var filters model.TransactionFilterRequest
	if appErr := common.ValidateAndDecode(r, &filters); appErr != nil {
		return appErr
	}

	userID, ok := r.Context().Value(UserIDKey).(int)
	if !ok {
		return common.NewAppError(http.StatusUnauthorized, "Invalid user identity", nil)
	}

	transactions, err := h.service.ListTransactions(r.Context(), userID, filters)
	if err != nil {
		return common.NewAppError(http.StatusInternalServerError, "Could not retrieve transactions", err)
	}
	if transactions == nil {
		transactions = []*model.Transaction{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(transactions)
	return nil
}

// GetCategories godoc
// @Summary      List all transaction categories
// @Tags         transactions
// @Produce      json
// @Success      200  {array}   model.Category
// @Router       /transactions/categories [get]
func (h *Handler) GetCategories(w http.ResponseWriter, r *http.Request) *common.AppError {
	categories, err := h.service.GetCategories(r.Context())
	if err != nil {
		return common.NewAppError(http.StatusInternalServerError, "Could not retrieve categories", err)
	}
	if categories == nil {
		categories = []*model.Category{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(categories)
	return nil
}

// CreateTransaction godoc
// @Summary      Record a new transaction
// @Tags         transactions
// @Accept       json
// @Produce      json
// @Param        X-User-ID header int true "Verified user identity (gateway-stamped)"
// @Param        transaction body model.CreateTransactionRequest true "Transaction data"
// @Success      201  {object}  model.Transaction
// @Failure      400  {object}  common.AppError "Invalid payload"
// @Failure      401  {object}  common.AppError "Missing identity header"
// @Router       /transactions/create [post]
func (h *Handler) CreateTransaction(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.CreateTransactionRequest
	if appErr := common.ValidateAndDecode(r, &req); appErr != nil {
		return appErr
	}

	userID, ok := r.Context().Value(UserIDKey).(int)
	if !ok {
		return common.NewAppError(http.StatusUnauthorized, "Invalid user identity", nil)
	}
	req.UserID = userID

	transaction, err := h.service.CreateTransaction(r.Context(), req)
	if err != nil {
		return common.NewAppError(http.StatusInternalServerError, "Could not create transaction", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(transaction)
	return nil
}
