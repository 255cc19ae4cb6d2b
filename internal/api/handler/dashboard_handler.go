package handler

import (
	"net/http"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/ledgerdesk/backoffice/internal/api/metrics"
	"github.com/ledgerdesk/backoffice/internal/core/domain"
	"github.com/ledgerdesk/backoffice/internal/core/ports"
)

type DashboardHandler struct {
	service  ports.DashboardService
	currency *money.Currency
}

// NewDashboardHandler formats totals in the given ISO 4217 currency. Unknown
// codes fall back to USD.
func NewDashboardHandler(service ports.DashboardService, currency string) *DashboardHandler {
	return &DashboardHandler{service: service, currency: domain.ResolveCurrency(currency)}
}

type dashboardDisplay struct {
	TotalRevenue string `json:"total_revenue"`
	TotalExpense string `json:"total_expense"`
	NetIncome    string `json:"net_income"`
}

type dashboardResponse struct {
	TotalClients int                  `json:"total_clients"`
	TotalRevenue decimal.Decimal      `json:"total_revenue" swaggertype:"string" example:"150"`
	TotalExpense decimal.Decimal      `json:"total_expense" swaggertype:"string" example:"30"`
	NetIncome    decimal.Decimal      `json:"net_income"    swaggertype:"string" example:"120"`
	Currency     string               `json:"currency"`
	Display      dashboardDisplay     `json:"display"`
	Transactions []domain.Transaction `json:"transactions"`
}

// Get handles GET /v1/dashboard.
//
// @Summary      Financial dashboard
// @Description  Client count, revenue and expense totals, net income and every transaction newest first.
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dashboardResponse
// @Failure      401  {object}  errorResponse
// @Failure      503  {object}  errorResponse
// @Router       /v1/dashboard [get]
func (h *DashboardHandler) Get(c echo.Context) error {
	uid, err := ctxUserID(c)
	if err != nil {
		return err
	}

	start := time.Now()
	d, err := h.service.GetDashboard(c.Request().Context(), uid)
	if err != nil {
		return err
	}
	metrics.DashboardBuildDuration.Observe(time.Since(start).Seconds())

	return c.JSON(http.StatusOK, h.toResponse(d))
}

func (h *DashboardHandler) toResponse(d *domain.Dashboard) dashboardResponse {
	net := d.NetIncome()
	return dashboardResponse{
		TotalClients: d.TotalClients,
		TotalRevenue: d.TotalRevenue,
		TotalExpense: d.TotalExpense,
		NetIncome:    net,
		Currency:     h.currency.Code,
		Display: dashboardDisplay{
			TotalRevenue: h.format(d.TotalRevenue),
			TotalExpense: h.format(d.TotalExpense),
			NetIncome:    h.format(net),
		},
		Transactions: d.Transactions,
	}
}

// format renders d in minor units of the configured currency, e.g. "$1,250.50".
func (h *DashboardHandler) format(d decimal.Decimal) string {
	minor := d.Shift(int32(h.currency.Fraction)).Round(0).IntPart()
	return money.New(minor, h.currency.Code).Display()
}
