package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ledgerdesk/backoffice/internal/api/metrics"
	"github.com/ledgerdesk/backoffice/internal/core/ports"
)

// ClientHandler serves the caller's client records.
type ClientHandler struct {
	service ports.ClientService
}

func NewClientHandler(service ports.ClientService) *ClientHandler {
	return &ClientHandler{service: service}
}

// List handles GET /v1/clients.
//
// @Summary      List clients
// @Description  Returns the caller's clients in creation order.
// @Tags         clients
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.Client
// @Failure      401  {object}  errorResponse
// @Router       /v1/clients [get]
func (h *ClientHandler) List(c echo.Context) error {
	uid, err := ctxUserID(c)
	if err != nil {
		return err
	}

	clients, err := h.service.ListClients(c.Request().Context(), uid)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, clients)
}

// Create handles POST /v1/clients.
//
// @Summary      Create a client
// @Tags         clients
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createClientRequest  true  "Client"
// @Success      201   {object}  domain.Client
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/clients [post]
func (h *ClientHandler) Create(c echo.Context) error {
	uid, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req createClientRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	client, err := h.service.CreateClient(c.Request().Context(), uid, toCreateClientInput(req))
	if err != nil {
		return err
	}

	metrics.RecordsMutatedTotal.WithLabelValues("client", "create").Inc()
	return c.JSON(http.StatusCreated, client)
}

// Update handles PATCH /v1/clients/:id.
//
// @Summary      Update a client
// @Description  Only the fields present in the body are changed.
// @Tags         clients
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string               true  "Client ID"
// @Param        body  body      updateClientRequest  true  "Fields to change"
// @Success      200   {object}  domain.Client
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/clients/{id} [patch]
func (h *ClientHandler) Update(c echo.Context) error {
	uid, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req updateClientRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	client, err := h.service.UpdateClient(c.Request().Context(), uid, c.Param("id"), toClientPatch(req))
	if err != nil {
		return err
	}

	metrics.RecordsMutatedTotal.WithLabelValues("client", "update").Inc()
	return c.JSON(http.StatusOK, client)
}

// Delete handles DELETE /v1/clients/:id.
//
// @Summary      Delete a client
// @Tags         clients
// @Security     BearerAuth
// @Param        id   path  string  true  "Client ID"
// @Success      204
// @Failure      404  {object}  errorResponse
// @Router       /v1/clients/{id} [delete]
func (h *ClientHandler) Delete(c echo.Context) error {
	uid, err := ctxUserID(c)
	if err != nil {
		return err
	}

	if err := h.service.DeleteClient(c.Request().Context(), uid, c.Param("id")); err != nil {
		return err
	}

	metrics.RecordsMutatedTotal.WithLabelValues("client", "delete").Inc()
	return c.NoContent(http.StatusNoContent)
}
