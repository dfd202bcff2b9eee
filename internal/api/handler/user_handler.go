package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/vpnservice/access-system/internal/core/ports"
)

// UserHandler exposes the admin account views.
type UserHandler struct {
	users  ports.UserService
	events ports.EventRepository
}

func NewUserHandler(users ports.UserService, events ports.EventRepository) *UserHandler {
	return &UserHandler{users: users, events: events}
}

type userSummaryResponse struct {
	ID          string               `json:"id"`
	Email       string               `json:"email"`
	Role        string               `json:"role"`
	Active      bool                 `json:"active"`
	CreatedAt   time.Time            `json:"created_at"`
	Entitlement *entitlementResponse `json:"entitlement,omitempty"`
}

type listUsersResponse struct {
	Data []userSummaryResponse `json:"data"`
}

type toggleResponse struct {
	ID     string `json:"id"`
	Active bool   `json:"active"`
}

type auditEventResponse struct {
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Actor     string    `json:"actor,omitempty"`
	Detail    string    `json:"detail,omitempty"`
}

type listEventsResponse struct {
	Data []auditEventResponse `json:"data"`
}

// List handles GET /v1/admin/users: all accounts with their most recent
// entitlement, status computed at request time.
//
// @Summary      List accounts
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  listUsersResponse
// @Failure      403  {object}  errorResponse
// @Router       /v1/admin/users [get]
func (h *UserHandler) List(c echo.Context) error {
	summaries, err := h.users.List(c.Request().Context())
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	data := make([]userSummaryResponse, 0, len(summaries))
	for _, s := range summaries {
		item := userSummaryResponse{
			ID:        s.User.ID,
			Email:     s.User.Email,
			Role:      s.User.Role,
			Active:    s.User.Active,
			CreatedAt: s.User.CreatedAt,
		}
		if s.Entitlement != nil {
			e := toEntitlementResponse(s.Entitlement, now)
			item.Entitlement = &e
		}
		data = append(data, item)
	}
	return c.JSON(http.StatusOK, listUsersResponse{Data: data})
}

// Toggle handles POST /v1/admin/users/:id/toggle. Disabling blocks access
// resolution and login but keeps entitlements and the credential intact.
//
// @Summary      Toggle an account's active flag
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "User id"
// @Success      200  {object}  toggleResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/admin/users/{id}/toggle [post]
func (h *UserHandler) Toggle(c echo.Context) error {
	actor, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	id := c.Param("id")
	active, err := h.users.ToggleActive(c.Request().Context(), id, actor)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toggleResponse{ID: id, Active: active})
}

// Events handles GET /v1/admin/users/:id/events: the lifecycle audit trail,
// newest first.
//
// @Summary      List a user's lifecycle events
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "User id"
// @Success      200  {object}  listEventsResponse
// @Failure      403  {object}  errorResponse
// @Router       /v1/admin/users/{id}/events [get]
func (h *UserHandler) Events(c echo.Context) error {
	events, err := h.events.ListByUser(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}

	data := make([]auditEventResponse, 0, len(events))
	for _, ev := range events {
		data = append(data, auditEventResponse{
			Type:      ev.Type,
			Timestamp: ev.Timestamp,
			Actor:     ev.Actor,
			Detail:    ev.Detail,
		})
	}
	return c.JSON(http.StatusOK, listEventsResponse{Data: data})
}
