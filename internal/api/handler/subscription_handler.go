package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/vpnservice/access-system/internal/core/domain"
	"github.com/vpnservice/access-system/internal/core/ports"
)

// SubscriptionHandler exposes entitlement assignment and history.
type SubscriptionHandler struct {
	service ports.EntitlementService
}

func NewSubscriptionHandler(service ports.EntitlementService) *SubscriptionHandler {
	return &SubscriptionHandler{service: service}
}

type subscribeRequest struct {
	UserID string `json:"user_id" validate:"required"`
	PlanID string `json:"plan_id" validate:"required"`
}

type entitlementResponse struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	PlanID        string    `json:"plan_id"`
	PlanName      string    `json:"plan_name"`
	StartAt       time.Time `json:"start_at"`
	EndAt         time.Time `json:"end_at"`
	Status        string    `json:"status"`
	RemainingDays int       `json:"remaining_days"`
}

type subscribeResponse struct {
	Entitlement entitlementResponse `json:"entitlement"`
	// Warning is set when the target account is disabled: the entitlement
	// exists but access stays blocked until the account is re-enabled.
	Warning string `json:"warning,omitempty"`
}

type listEntitlementsResponse struct {
	Data []entitlementResponse `json:"data"`
}

func toEntitlementResponse(e *domain.Entitlement, now time.Time) entitlementResponse {
	return entitlementResponse{
		ID:            e.ID,
		UserID:        e.UserID,
		PlanID:        e.PlanID,
		PlanName:      e.PlanName,
		StartAt:       e.StartAt,
		EndAt:         e.EndAt,
		Status:        string(e.StatusAt(now)),
		RemainingDays: e.RemainingDays(now),
	}
}

// Subscribe handles POST /v1/admin/subscriptions: assign a plan to a user.
//
// @Summary      Assign a plan to a user
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      subscribeRequest  true  "Assignment details"
// @Success      201   {object}  subscribeResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/admin/subscriptions [post]
func (h *SubscriptionHandler) Subscribe(c echo.Context) error {
	var req subscribeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	actor, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	res, err := h.service.Subscribe(c.Request().Context(), ports.SubscribeInput{
		UserID: req.UserID,
		PlanID: req.PlanID,
		Now:    now,
		Actor:  actor,
	})
	if err != nil {
		return err
	}

	resp := subscribeResponse{Entitlement: toEntitlementResponse(res.Entitlement, now)}
	if res.UserInactive {
		resp.Warning = "account is disabled; access stays blocked until it is re-enabled"
	}
	return c.JSON(http.StatusCreated, resp)
}

// ListMine handles GET /v1/me/entitlements: the caller's full history with
// statuses computed at request time.
//
// @Summary      List my entitlements
// @Tags         me
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  listEntitlementsResponse
// @Failure      401  {object}  errorResponse
// @Router       /v1/me/entitlements [get]
func (h *SubscriptionHandler) ListMine(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	list, err := h.service.ListForUser(c.Request().Context(), userID, now)
	if err != nil {
		return err
	}

	data := make([]entitlementResponse, 0, len(list))
	for _, e := range list {
		data = append(data, toEntitlementResponse(e, now))
	}
	return c.JSON(http.StatusOK, listEntitlementsResponse{Data: data})
}
