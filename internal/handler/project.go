package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/freelancehq/freelance-tracker/internal/repository"
)

// ProjectHandler serves the /projects endpoints. It also needs the client
// store to verify that a referenced client belongs to the caller.
type ProjectHandler struct {
	Projects ProjectStore
	Clients  ClientStore
}

func NewProjectHandler(projects ProjectStore, clients ClientStore) *ProjectHandler {
	return &ProjectHandler{Projects: projects, Clients: clients}
}

// List handles GET /projects. Each project carries its client's name,
// resolved at read time; a dangling client reference resolves to "".
func (h *ProjectHandler) List(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	items, err := h.Projects.ListByOwner(ctx, ownerID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "db error"})
	}
	return c.JSON(http.StatusOK, items)
}

// checkClient verifies the referenced client exists and belongs to the
// caller. It returns repository.ErrClientNotFound, repository.ErrNotOwner
// or a store error; callers map those to 404/401/500.
func (h *ProjectHandler) checkClient(ctx context.Context, clientID, ownerID uint64) error {
	client, err := h.Clients.GetByID(ctx, clientID)
	if err != nil {
		return err
	}
	return assertOwner(client.OwnerID, ownerID)
}

// clientCheckResponse maps a checkClient failure to its HTTP response.
func clientCheckResponse(c echo.Context, err error) error {
	switch {
	case errors.Is(err, repository.ErrClientNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"message": "Client not found"})
	case errors.Is(err, repository.ErrNotOwner):
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "User not authorized to use this client"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "db error"})
	}
}

// Create handles POST /projects. clientId, title, deadline and budget are
// required; status defaults to Active.
func (h *ProjectHandler) Create(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
	}
	var body struct {
		ClientID uint64   `json:"clientId"`
		Title    string   `json:"title"`
		Deadline string   `json:"deadline"`
		Budget   *float64 `json:"budget"`
		Status   string   `json:"status"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid request body"})
	}
	title := strings.TrimSpace(body.Title)
	deadline := strings.TrimSpace(body.Deadline)
	if body.ClientID == 0 || title == "" || deadline == "" || body.Budget == nil || *body.Budget == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Please add all required fields"})
	}
	due, err := parseDate(deadline)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid deadline format"})
	}
	status := strings.TrimSpace(body.Status)
	if status == "" {
		status = repository.ProjectActive
	}
	if !repository.ValidProjectStatus(status) {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid status"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.checkClient(ctx, body.ClientID, ownerID); err != nil {
		return clientCheckResponse(c, err)
	}

	project := &repository.Project{
		OwnerID:  ownerID,
		ClientID: body.ClientID,
		Title:    title,
		Deadline: due,
		Budget:   *body.Budget,
		Status:   status,
	}
	if err := h.Projects.Create(ctx, project); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "could not create project"})
	}
	return c.JSON(http.StatusCreated, project)
}

// Update handles PATCH /projects/:id. Only the allow-listed fields below
// can change; the owner is immutable.
func (h *ProjectHandler) Update(c echo.Context) error {
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

	cur, err := h.Projects.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrProjectNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Project not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "db error"})
	}
	if err := assertOwner(cur.OwnerID, ownerID); err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "User not authorized"})
	}

	var body struct {
		ClientID *uint64  `json:"clientId"`
		Title    *string  `json:"title"`
		Deadline *string  `json:"deadline"`
		Budget   *float64 `json:"budget"`
		Status   *string  `json:"status"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid request body"})
	}
	if body.ClientID != nil && *body.ClientID != cur.ClientID {
		if err := h.checkClient(ctx, *body.ClientID, ownerID); err != nil {
			return clientCheckResponse(c, err)
		}
		cur.ClientID = *body.ClientID
	}
	if body.Title != nil {
		t := strings.TrimSpace(*body.Title)
		if t == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "title cannot be empty"})
		}
		cur.Title = t
	}
	if body.Deadline != nil {
		due, err := parseDate(strings.TrimSpace(*body.Deadline))
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid deadline format"})
		}
		cur.Deadline = due
	}
	if body.Budget != nil {
		if *body.Budget <= 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "budget must be a positive number"})
		}
		cur.Budget = *body.Budget
	}
	if body.Status != nil {
		s := strings.TrimSpace(*body.Status)
		if !repository.ValidProjectStatus(s) {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid status"})
		}
		cur.Status = s
	}

	if err := h.Projects.Update(ctx, cur); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "update failed"})
	}
	return c.JSON(http.StatusOK, cur)
}

// Delete handles DELETE /projects/:id. Dependent payments are left in
// place; there is no cascade.
func (h *ProjectHandler) Delete(c echo.Context) error {
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

	cur, err := h.Projects.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrProjectNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Project not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "db error"})
	}
	if err := assertOwner(cur.OwnerID, ownerID); err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "User not authorized"})
	}
	if err := h.Projects.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrProjectNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Project not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "delete failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"id": id})
}
