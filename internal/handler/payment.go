package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/freelancehq/freelance-tracker/internal/queue"
	"github.com/freelancehq/freelance-tracker/internal/repository"
)

// PaymentHandler serves the /payments endpoints. It needs the project
// store to verify that a referenced project belongs to the caller, and an
// event publisher for Paid transitions. The paid-date invariant lives
// here: paidDate is set exactly when status is Paid.
type PaymentHandler struct {
	Payments PaymentStore
	Projects ProjectStore
	Events   PaymentEventPublisher
}

func NewPaymentHandler(payments PaymentStore, projects ProjectStore, events PaymentEventPublisher) *PaymentHandler {
	return &PaymentHandler{Payments: payments, Projects: projects, Events: events}
}

// List handles GET /payments. Each payment carries its project's title,
// resolved at read time; a dangling project reference resolves to "".
func (h *PaymentHandler) List(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	items, err := h.Payments.ListByOwner(ctx, ownerID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "db error"})
	}
	return c.JSON(http.StatusOK, items)
}

// Create handles POST /payments. projectId, amount and dueDate are
// required; status defaults to Unpaid. When created as Paid, paidDate is
// the provided value or the current time.
func (h *PaymentHandler) Create(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
	}
	var body struct {
		ProjectID uint64   `json:"projectId"`
		Amount    *float64 `json:"amount"`
		DueDate   string   `json:"dueDate"`
		Status    string   `json:"status"`
		PaidDate  string   `json:"paidDate"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid request body"})
	}
	dueDate := strings.TrimSpace(body.DueDate)
	if body.ProjectID == 0 || body.Amount == nil || *body.Amount == 0 || dueDate == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Please add all required fields"})
	}
	due, err := parseDate(dueDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid dueDate format"})
	}
	status := strings.TrimSpace(body.Status)
	if status == "" {
		status = repository.PaymentUnpaid
	}
	if !repository.ValidPaymentStatus(status) {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid status"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	// The project must exist and belong to the caller.
	project, err := h.Projects.GetByID(ctx, body.ProjectID)
	if err != nil {
		if errors.Is(err, repository.ErrProjectNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Project not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "db error"})
	}
	if err := assertOwner(project.OwnerID, ownerID); err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "User not authorized to add payment to this project"})
	}

	payment := &repository.Payment{
		OwnerID:   ownerID,
		ProjectID: body.ProjectID,
		Amount:    *body.Amount,
		DueDate:   due,
		Status:    status,
	}
	if status == repository.PaymentPaid {
		paidAt := time.Now().UTC()
		if s := strings.TrimSpace(body.PaidDate); s != "" {
			t, err := parseDate(s)
			if err != nil {
				return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid paidDate format"})
			}
			paidAt = t
		}
		payment.PaidDate = &paidAt
	}

	if err := h.Payments.Create(ctx, payment); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "could not create payment"})
	}
	if payment.Status == repository.PaymentPaid {
		h.publishPaid(payment, project.Title)
	}
	return c.JSON(http.StatusCreated, payment)
}

// Update handles PATCH /payments/:id. Transition policy: moving to Paid
// without a supplied paidDate stamps the current time (unless the payment
// was already Paid); moving to Unpaid clears paidDate regardless of the
// payload.
func (h *PaymentHandler) Update(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	cur, err := h.Payments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrPaymentNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Payment not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "db error"})
	}
	if err := assertOwner(cur.OwnerID, ownerID); err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "User not authorized"})
	}

	var body struct {
		Amount   *float64 `json:"amount"`
		DueDate  *string  `json:"dueDate"`
		Status   *string  `json:"status"`
		PaidDate *string  `json:"paidDate"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid request body"})
	}
	if body.Amount != nil {
		if *body.Amount <= 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "amount must be a positive number"})
		}
		cur.Amount = *body.Amount
	}
	if body.DueDate != nil {
		due, err := parseDate(strings.TrimSpace(*body.DueDate))
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid dueDate format"})
		}
		cur.DueDate = due
	}

	wasPaid := cur.Status == repository.PaymentPaid
	if body.Status != nil {
		s := strings.TrimSpace(*body.Status)
		if !repository.ValidPaymentStatus(s) {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid status"})
		}
		cur.Status = s
	}
	switch cur.Status {
	case repository.PaymentPaid:
		if body.PaidDate != nil && strings.TrimSpace(*body.PaidDate) != "" {
			t, err := parseDate(strings.TrimSpace(*body.PaidDate))
			if err != nil {
				return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid paidDate format"})
			}
			cur.PaidDate = &t
		} else if !wasPaid {
			now := time.Now().UTC()
			cur.PaidDate = &now
		}
	case repository.PaymentUnpaid:
		cur.PaidDate = nil
	}

	if err := h.Payments.Update(ctx, cur); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "update failed"})
	}
	if !wasPaid && cur.Status == repository.PaymentPaid {
		title := cur.ProjectTitle
		if title == "" {
			if project, err := h.Projects.GetByID(ctx, cur.ProjectID); err == nil {
				title = project.Title
			}
		}
		h.publishPaid(cur, title)
	}
	return c.JSON(http.StatusOK, cur)
}

// Delete handles DELETE /payments/:id.
func (h *PaymentHandler) Delete(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	cur, err := h.Payments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrPaymentNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Payment not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "db error"})
	}
	if err := assertOwner(cur.OwnerID, ownerID); err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "User not authorized"})
	}
	if err := h.Payments.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrPaymentNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Payment not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "delete failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"id": id})
}

// publishPaid emits a payment.paid event; broker failures are logged by
// the publisher and never surface to the request.
func (h *PaymentHandler) publishPaid(p *repository.Payment, projectTitle string) {
	if h.Events == nil {
		return
	}
	paidAt := time.Now().UTC()
	if p.PaidDate != nil {
		paidAt = *p.PaidDate
	}
	_ = h.Events.PublishPaymentPaid(context.Background(), queue.PaymentPaidEvent{
		PaymentID:    p.ID,
		OwnerID:      p.OwnerID,
		ProjectID:    p.ProjectID,
		ProjectTitle: projectTitle,
		Amount:       p.Amount,
		PaidAt:       paidAt.Format(time.RFC3339),
	})
}
