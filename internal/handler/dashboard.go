package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/freelancehq/freelance-tracker/internal/repository"
)

// DashboardHandler serves GET /dashboard: four aggregate numbers computed
// fresh on every call.
type DashboardHandler struct {
	Payments PaymentStore
	Projects ProjectStore
	Clients  ClientStore
}

func NewDashboardHandler(payments PaymentStore, projects ProjectStore, clients ClientStore) *DashboardHandler {
	return &DashboardHandler{Payments: payments, Projects: projects, Clients: clients}
}

type dashboardStats struct {
	TotalRevenue        float64 `json:"totalRevenue"`
	PendingAmount       float64 `json:"pendingAmount"`
	ActiveProjectsCount int64   `json:"activeProjectsCount"`
	TotalClientsCount   int64   `json:"totalClientsCount"`
}

// Stats sums the caller's payments in-process (Paid -> revenue, Unpaid ->
// pending) and counts active projects and clients.
func (h *DashboardHandler) Stats(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	payments, err := h.Payments.ListByOwner(ctx, ownerID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "db error"})
	}
	var stats dashboardStats
	for _, p := range payments {
		switch p.Status {
		case repository.PaymentPaid:
			stats.TotalRevenue += p.Amount
		case repository.PaymentUnpaid:
			stats.PendingAmount += p.Amount
		}
	}

	stats.ActiveProjectsCount, err = h.Projects.CountActiveByOwner(ctx, ownerID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "db error"})
	}
	stats.TotalClientsCount, err = h.Clients.CountByOwner(ctx, ownerID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "db error"})
	}
	return c.JSON(http.StatusOK, stats)
}
