package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/vpnservice/access-system/internal/core/domain"
	"github.com/vpnservice/access-system/internal/core/ports"
)

// ConfigHandler exposes connection material to entitled users and the admin
// rotation endpoint. Every descriptor request runs a fresh access check;
// nothing here is cached.
type ConfigHandler struct {
	service ports.CredentialService
}

func NewConfigHandler(service ports.CredentialService) *ConfigHandler {
	return &ConfigHandler{service: service}
}

type descriptorResponse struct {
	Server   string `json:"server"`
	Port     int    `json:"port"`
	Protocol string `json:"protocol"`
	ID       string `json:"id"`
}

type linkResponse struct {
	Link string `json:"link"`
}

type credentialResponse struct {
	ID        string     `json:"id"`
	UserID    string     `json:"user_id"`
	UUID      string     `json:"uuid"`
	CreatedAt time.Time  `json:"created_at"`
	RotatedAt *time.Time `json:"rotated_at,omitempty"`
}

func toCredentialResponse(cred *domain.Credential) credentialResponse {
	resp := credentialResponse{
		ID:        cred.ID,
		UserID:    cred.UserID,
		UUID:      cred.UUID,
		CreatedAt: cred.CreatedAt,
	}
	if !cred.RotatedAt.IsZero() {
		rotated := cred.RotatedAt
		resp.RotatedAt = &rotated
	}
	return resp
}

// label is the display name embedded in exported configs.
func label(c echo.Context) string {
	if email, _ := c.Get("email").(string); email != "" {
		return email
	}
	return "vpn"
}

// GetDescriptor handles GET /v1/me/config.
//
// @Summary      Get my connection descriptor
// @Tags         me
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  descriptorResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /v1/me/config [get]
func (h *ConfigHandler) GetDescriptor(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	d, err := h.service.AccessDescriptor(c.Request().Context(), userID, time.Now().UTC())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, descriptorResponse{
		Server:   d.Server,
		Port:     d.Port,
		Protocol: d.Protocol,
		ID:       d.ID,
	})
}

// GetLink handles GET /v1/me/config/link: the descriptor rendered as a
// vmess:// URI for one-tap client import.
//
// @Summary      Get my connection link
// @Tags         me
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  linkResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /v1/me/config/link [get]
func (h *ConfigHandler) GetLink(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	d, err := h.service.AccessDescriptor(c.Request().Context(), userID, time.Now().UTC())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, linkResponse{Link: d.Link(label(c))})
}

// GetFile handles GET /v1/me/config/file: the descriptor as a downloadable
// client config document.
//
// @Summary      Download my client config
// @Tags         me
// @Produce      json
// @Security     BearerAuth
// @Success      200  {string}  string  "client config JSON"
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /v1/me/config/file [get]
func (h *ConfigHandler) GetFile(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	d, err := h.service.AccessDescriptor(c.Request().Context(), userID, time.Now().UTC())
	if err != nil {
		return err
	}

	body, err := d.ConfigJSON(label(c))
	if err != nil {
		return err
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="vpn-config.json"`)
	return c.Blob(http.StatusOK, echo.MIMEApplicationJSON, body)
}

// Rotate handles POST /v1/admin/users/:id/credential/rotate. Existing
// sessions using the old identifier are cut off immediately.
//
// @Summary      Rotate a user's credential
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "User id"
// @Success      200  {object}  credentialResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/admin/users/{id}/credential/rotate [post]
func (h *ConfigHandler) Rotate(c echo.Context) error {
	actor, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	cred, err := h.service.Rotate(c.Request().Context(), c.Param("id"), actor)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toCredentialResponse(cred))
}
