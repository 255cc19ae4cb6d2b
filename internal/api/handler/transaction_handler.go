package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ledgerdesk/backoffice/internal/api/metrics"
	"github.com/ledgerdesk/backoffice/internal/core/ports"
)

// TransactionHandler serves the caller's revenue and expense entries.
type TransactionHandler struct {
	service ports.TransactionService
}

func NewTransactionHandler(service ports.TransactionService) *TransactionHandler {
	return &TransactionHandler{service: service}
}

// List handles GET /v1/transactions.
//
// @Summary      List transactions
// @Description  Returns the caller's transactions, newest date first.
// @Tags         transactions
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.Transaction
// @Failure      401  {object}  errorResponse
// @Router       /v1/transactions [get]
func (h *TransactionHandler) List(c echo.Context) error {
	uid, err := ctxUserID(c)
	if err != nil {
		return err
	}

	txs, err := h.service.ListTransactions(c.Request().Context(), uid)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, txs)
}

// Create handles POST /v1/transactions.
//
// @Summary      Record a transaction
// @Tags         transactions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createTransactionRequest  true  "Transaction"
// @Success      201   {object}  domain.Transaction
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/transactions [post]
func (h *TransactionHandler) Create(c echo.Context) error {
	uid, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req createTransactionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	tx, err := h.service.CreateTransaction(c.Request().Context(), uid, toCreateTransactionInput(req))
	if err != nil {
		return err
	}

	metrics.RecordsMutatedTotal.WithLabelValues("transaction", "create").Inc()
	return c.JSON(http.StatusCreated, tx)
}

// Update handles PATCH /v1/transactions/:id.
//
// @Summary      Update a transaction
// @Tags         transactions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                    true  "Transaction ID"
// @Param        body  body      updateTransactionRequest  true  "Fields to change"
// @Success      200   {object}  domain.Transaction
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/transactions/{id} [patch]
func (h *TransactionHandler) Update(c echo.Context) error {
	uid, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req updateTransactionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	tx, err := h.service.UpdateTransaction(c.Request().Context(), uid, c.Param("id"), toTransactionPatch(req))
	if err != nil {
		return err
	}

	metrics.RecordsMutatedTotal.WithLabelValues("transaction", "update").Inc()
	return c.JSON(http.StatusOK, tx)
}

// Delete handles DELETE /v1/transactions/:id.
//
// @Summary      Delete a transaction
// @Tags         transactions
// @Security     BearerAuth
// @Param        id   path  string  true  "Transaction ID"
// @Success      204
// @Failure      404  {object}  errorResponse
// @Router       /v1/transactions/{id} [delete]
func (h *TransactionHandler) Delete(c echo.Context) error {
	uid, err := ctxUserID(c)
	if err != nil {
		return err
	}

	if err := h.service.DeleteTransaction(c.Request().Context(), uid, c.Param("id")); err != nil {
		return err
	}

	metrics.RecordsMutatedTotal.WithLabelValues("transaction", "delete").Inc()
	return c.NoContent(http.StatusNoContent)
}
