package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/freelancehq/freelance-tracker/internal/repository"
)

// ClientHandler serves the /clients endpoints.
type ClientHandler struct {
	Clients ClientStore
}

func NewClientHandler(clients ClientStore) *ClientHandler {
	return &ClientHandler{Clients: clients}
}

// List handles GET /clients and returns all clients owned by the caller.
func (h *ClientHandler) List(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	items, err := h.Clients.ListByOwner(ctx, ownerID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "db error"})
	}
	return c.JSON(http.StatusOK, items)
}

// Create handles POST /clients. Name and email are required; company,
// hourly rate and notes are optional.
func (h *ClientHandler) Create(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
	}
	var body struct {
		Name       string   `json:"name"`
		Email      string   `json:"email"`
		Company    string   `json:"company"`
		HourlyRate *float64 `json:"hourlyRate"`
		Notes      string   `json:"notes"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid request body"})
	}
	name := strings.TrimSpace(body.Name)
	email := strings.TrimSpace(body.Email)
	if name == "" || email == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Please add name and email"})
	}

	client := &repository.Client{
		OwnerID:    ownerID,
		Name:       name,
		Email:      email,
		Company:    strings.TrimSpace(body.Company),
		HourlyRate: body.HourlyRate,
		Notes:      strings.TrimSpace(body.Notes),
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.Clients.Create(ctx, client); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "could not create client"})
	}
	return c.JSON(http.StatusCreated, client)
}

// Delete handles DELETE /clients/:id. Dependent projects and payments are
// left in place; there is no cascade.
func (h *ClientHandler) Delete(c echo.Context) error {
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

	client, err := h.Clients.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrClientNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Client not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "db error"})
	}
	if err := assertOwner(client.OwnerID, ownerID); err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "User not authorized"})
	}
	if err := h.Clients.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrClientNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Client not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "delete failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"id": id})
}
