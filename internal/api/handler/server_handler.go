package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/vpnservice/access-system/internal/core/domain"
	"github.com/vpnservice/access-system/internal/core/ports"
)

// ServerHandler handles the VPN node inventory endpoints.
type ServerHandler struct {
	service ports.ServerService
}

func NewServerHandler(service ports.ServerService) *ServerHandler {
	return &ServerHandler{service: service}
}

type serverRequest struct {
	Name         string `json:"name"          validate:"required"`
	Country      string `json:"country"       validate:"required"`
	City         string `json:"city"          validate:"required"`
	Status       string `json:"status"        validate:"omitempty,oneof=online offline maintenance"`
	LocationCode string `json:"location_code"`
}

type serverResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Country      string    `json:"country"`
	City         string    `json:"city"`
	Status       string    `json:"status"`
	LocationCode string    `json:"location_code,omitempty"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"created_at"`
}

type listServersResponse struct {
	Data []serverResponse `json:"data"`
}

func toServerResponse(s *domain.Server) serverResponse {
	return serverResponse{
		ID:           s.ID,
		Name:         s.Name,
		Country:      s.Country,
		City:         s.City,
		Status:       string(s.Status),
		LocationCode: s.LocationCode,
		Active:       s.Active,
		CreatedAt:    s.CreatedAt,
	}
}

func (h *ServerHandler) bindInput(c echo.Context) (ports.ServerInput, error) {
	var req serverRequest
	if err := c.Bind(&req); err != nil {
		return ports.ServerInput{}, echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return ports.ServerInput{}, echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return ports.ServerInput{
		Name:         req.Name,
		Country:      req.Country,
		City:         req.City,
		Status:       req.Status,
		LocationCode: req.LocationCode,
	}, nil
}

// ListPublic handles GET /v1/servers: active nodes only.
//
// @Summary      List available servers
// @Tags         servers
// @Produce      json
// @Success      200  {object}  listServersResponse
// @Router       /v1/servers [get]
func (h *ServerHandler) ListPublic(c echo.Context) error {
	servers, err := h.service.List(c.Request().Context(), true)
	if err != nil {
		return err
	}

	data := make([]serverResponse, 0, len(servers))
	for _, s := range servers {
		data = append(data, toServerResponse(s))
	}
	return c.JSON(http.StatusOK, listServersResponse{Data: data})
}

// ListAdmin handles GET /v1/admin/servers, including disabled entries.
//
// @Summary      List all servers
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  listServersResponse
// @Router       /v1/admin/servers [get]
func (h *ServerHandler) ListAdmin(c echo.Context) error {
	servers, err := h.service.List(c.Request().Context(), false)
	if err != nil {
		return err
	}

	data := make([]serverResponse, 0, len(servers))
	for _, s := range servers {
		data = append(data, toServerResponse(s))
	}
	return c.JSON(http.StatusOK, listServersResponse{Data: data})
}

// Create handles POST /v1/admin/servers.
//
// @Summary      Add a server
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      serverRequest  true  "Server details"
// @Success      201   {object}  serverResponse
// @Failure      400   {object}  errorResponse
// @Router       /v1/admin/servers [post]
func (h *ServerHandler) Create(c echo.Context) error {
	in, err := h.bindInput(c)
	if err != nil {
		return err
	}

	server, err := h.service.Create(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toServerResponse(server))
}

// Update handles PUT /v1/admin/servers/:id.
//
// @Summary      Update a server
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string         true  "Server id"
// @Param        body  body      serverRequest  true  "Server details"
// @Success      200   {object}  serverResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/admin/servers/{id} [put]
func (h *ServerHandler) Update(c echo.Context) error {
	in, err := h.bindInput(c)
	if err != nil {
		return err
	}

	server, err := h.service.Update(c.Request().Context(), c.Param("id"), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toServerResponse(server))
}

// Delete handles DELETE /v1/admin/servers/:id. Servers carry no history, so
// a hard delete is safe.
//
// @Summary      Delete a server
// @Tags         admin
// @Security     BearerAuth
// @Param        id  path  string  true  "Server id"
// @Success      204
// @Failure      404  {object}  errorResponse
// @Router       /v1/admin/servers/{id} [delete]
func (h *ServerHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Toggle handles POST /v1/admin/servers/:id/toggle.
//
// @Summary      Toggle a server's active flag
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "Server id"
// @Success      200  {object}  toggleResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/admin/servers/{id}/toggle [post]
func (h *ServerHandler) Toggle(c echo.Context) error {
	id := c.Param("id")
	active, err := h.service.ToggleActive(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toggleResponse{ID: id, Active: active})
}
