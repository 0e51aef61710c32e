package gateway

import (
	"io"
	"net/http"
	"strconv"
	"time"

	"finflow/common"
)

const ledgerTimeout = 10 * time.Second

// TransactionHandler forwards ledger traffic. Once the auth middleware has
// verified the caller, the identity is relayed to the ledger service through
// the X-User-ID trust header; the ledger never sees the token itself.
type TransactionHandler struct {
	ledger *Client
}

func NewTransactionHandler(ledger *Client) *TransactionHandler {
	return &TransactionHandler{ledger: ledger}
}

// ListTransactions godoc
// @Summary      List the caller's transactions with filters
// @Tags         transactions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        filters body model.TransactionFilterRequest true "Filter parameters"
// @Success      200  {array}   model.Transaction
// @Failure      401  {object}  common.AppError "Invalid or missing token"
// @Failure      503  {object}  common.AppError "Ledger service unavailable"
// @Failure      504  {object}  common.AppError "Ledger service timeout"
// @Router       /transactions/ [post]
func (h *TransactionHandler) ListTransactions(w http.ResponseWriter, r *http.Request) *common.AppError {
	userID, ok := r.Context().Value(UserIDKey).(int)
	if !ok {
		return common.NewAppError(http.StatusUnauthorized, "Invalid user ID in token", nil)
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		return common.NewAppError(http.StatusBadRequest, "Invalid request body", err)
	}

	header := http.Header{}
	header.Set("X-User-ID", strconv.Itoa(userID))

	resp, appErr := h.ledger.Do(r.Context(), http.MethodPost, "/transactions/", body, header, ledgerTimeout)
	if appErr != nil {
		return appErr
	}
	if resp.StatusCode != http.StatusOK {
		return upstreamError(resp, "Failed to get transactions")
	}

	relay(w, resp)
	return nil
}

// GetCategories godoc
// @Summary      List all transaction categories
// @Tags         transactions
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   model.Category
// @Failure      401  {object}  common.AppError "Invalid or missing token"
// @Failure      503  {object}  common.AppError "Ledger service unavailable"
// @Router       /transactions/categories [get]
func (h *TransactionHandler) GetCategories(w http.ResponseWriter, r *http.Request) *common.AppError {
	resp, appErr := h.ledger.Do(r.Context(), http.MethodGet, "/transactions/categories", nil, nil, ledgerTimeout)
	if appErr != nil {
		return appErr
	}
	if resp.StatusCode != http.StatusOK {
		return upstreamError(resp, "Failed to get categories")
	}

	relay(w, resp)
	return nil
}
