package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/vpnservice/access-system/internal/core/domain"
	"github.com/vpnservice/access-system/internal/core/ports"
)

// PlanHandler handles HTTP requests for the plan catalog.
type PlanHandler struct {
	service ports.PlanService
}

func NewPlanHandler(service ports.PlanService) *PlanHandler {
	return &PlanHandler{service: service}
}

func toPlanResponse(p *domain.Plan) planResponse {
	return planResponse{
		ID:           p.ID,
		Name:         p.Name,
		Price:        p.Price,
		DurationDays: p.DurationDays,
		Active:       p.Active,
		CreatedAt:    p.CreatedAt,
	}
}

// ListPublic handles GET /v1/plans: the catalog visible to buyers. Only
// active plans are offered for sale.
//
// @Summary      List purchasable plans
// @Tags         plans
// @Produce      json
// @Success      200  {object}  listPlansResponse
// @Router       /v1/plans [get]
func (h *PlanHandler) ListPublic(c echo.Context) error {
	plans, err := h.service.List(c.Request().Context(), true)
	if err != nil {
		return err
	}

	data := make([]planResponse, 0, len(plans))
	for _, p := range plans {
		data = append(data, toPlanResponse(p))
	}
	return c.JSON(http.StatusOK, listPlansResponse{Data: data})
}

// ListAdmin handles GET /v1/admin/plans, including deactivated plans.
//
// @Summary      List all plans
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  listPlansResponse
// @Failure      403  {object}  errorResponse
// @Router       /v1/admin/plans [get]
func (h *PlanHandler) ListAdmin(c echo.Context) error {
	plans, err := h.service.List(c.Request().Context(), false)
	if err != nil {
		return err
	}

	data := make([]planResponse, 0, len(plans))
	for _, p := range plans {
		data = append(data, toPlanResponse(p))
	}
	return c.JSON(http.StatusOK, listPlansResponse{Data: data})
}

// Get handles GET /v1/admin/plans/:id.
//
// @Summary      Get a plan
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "Plan id"
// @Success      200  {object}  planResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/admin/plans/{id} [get]
func (h *PlanHandler) Get(c echo.Context) error {
	plan, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toPlanResponse(plan))
}

// Create handles POST /v1/admin/plans.
//
// @Summary      Create a plan
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createPlanRequest  true  "Plan details"
// @Success      201   {object}  planResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /v1/admin/plans [post]
func (h *PlanHandler) Create(c echo.Context) error {
	var req createPlanRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	plan, err := h.service.Create(c.Request().Context(), ports.CreatePlanInput{
		Name:         req.Name,
		Price:        req.Price,
		DurationDays: req.DurationDays,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, toPlanResponse(plan))
}

// Update handles PUT /v1/admin/plans/:id. Edits never touch entitlements
// already sold from the previous terms.
//
// @Summary      Update a plan
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "Plan id"
// @Param        body  body      updatePlanRequest  true  "Plan details"
// @Success      200   {object}  planResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/admin/plans/{id} [put]
func (h *PlanHandler) Update(c echo.Context) error {
	var req updatePlanRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	plan, err := h.service.Update(c.Request().Context(), ports.UpdatePlanInput{
		ID:           c.Param("id"),
		Name:         req.Name,
		Price:        req.Price,
		DurationDays: req.DurationDays,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toPlanResponse(plan))
}

// Deactivate handles DELETE /v1/admin/plans/:id. Plans are retired from
// sale, never hard-deleted, so entitlement history keeps its references.
//
// @Summary      Deactivate a plan
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "Plan id"
// @Success      204
// @Failure      404  {object}  errorResponse
// @Router       /v1/admin/plans/{id} [delete]
func (h *PlanHandler) Deactivate(c echo.Context) error {
	if err := h.service.Deactivate(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
