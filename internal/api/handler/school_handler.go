package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/edulink/school-system/internal/api/metrics"
	"github.com/edulink/school-system/internal/core/domain"
	"github.com/edulink/school-system/internal/core/ports"
	"github.com/edulink/school-system/internal/core/service"
)

// SchoolHandler handles HTTP requests for school operations.
type SchoolHandler struct {
	schools ports.SchoolService
	gate    *service.Gate
}

func NewSchoolHandler(schools ports.SchoolService, gate *service.Gate) *SchoolHandler {
	return &SchoolHandler{schools: schools, gate: gate}
}

// Create registers a new school administered by the caller.
//
// @Summary      Create a school
// @Tags         schools
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createSchoolRequest  true  "School details"
// @Success      201   {object}  schoolResponse
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /v1/schools [post]
func (h *SchoolHandler) Create(c echo.Context) error {
	ident, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	if err := h.gate.RequireRole(ident.Account, domain.UserTypeSchoolAdmin, domain.UserTypePlatformAdmin); err != nil {
		metrics.GateDenialsTotal.WithLabelValues("require_role").Inc()
		return err
	}

	var req createSchoolRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	school, err := h.schools.CreateSchool(c.Request().Context(), ports.CreateSchoolInput{
		Name:           req.Name,
		City:           req.City,
		AdminAccountID: ident.Account.ID,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, toSchoolResponse(school))
}

// Mine returns the school administered by the caller. An admin account not
// yet linked to a school gets a 404, not a 403.
//
// @Summary      Get the caller's school
// @Tags         schools
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  schoolResponse
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /v1/schools/mine [get]
func (h *SchoolHandler) Mine(c echo.Context) error {
	ident, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	school, err := h.gate.RequireSchoolAdmin(c.Request().Context(), ident.Account)
	if err != nil {
		metrics.GateDenialsTotal.WithLabelValues("require_school_admin").Inc()
		return err
	}

	return c.JSON(http.StatusOK, toSchoolResponse(school))
}

// Get returns a single school. Callers must belong to the school or hold
// admin capabilities.
//
// @Summary      Get a school
// @Tags         schools
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "School ID"
// @Success      200  {object}  schoolResponse
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /v1/schools/{id} [get]
func (h *SchoolHandler) Get(c echo.Context) error {
	ident, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	schoolID := c.Param("id")
	member := ident.Role != nil && ident.Role.SchoolID == schoolID
	platform := ident.Account.UserType == domain.UserTypePlatformAdmin
	if !member && !platform {
		metrics.GateDenialsTotal.WithLabelValues("school_scope").Inc()
		return domain.ErrForbidden
	}

	school, err := h.schools.GetSchool(c.Request().Context(), schoolID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toSchoolResponse(school))
}

// List returns all schools. Admin-only.
//
// @Summary      List schools
// @Tags         schools
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  listSchoolsResponse
// @Failure      403  {object}  map[string]string
// @Router       /v1/schools [get]
func (h *SchoolHandler) List(c echo.Context) error {
	ident, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	if _, err := h.gate.RequireAdminOrStaffAdmin(c.Request().Context(), ident.Account); err != nil {
		metrics.GateDenialsTotal.WithLabelValues("require_admin_or_staff_admin").Inc()
		return err
	}

	schools, err := h.schools.ListSchools(c.Request().Context())
	if err != nil {
		return err
	}

	resp := listSchoolsResponse{Data: make([]schoolResponse, 0, len(schools))}
	for _, s := range schools {
		resp.Data = append(resp.Data, toSchoolResponse(s))
	}
	return c.JSON(http.StatusOK, resp)
}

// AddStaff binds an account to the school as staff. The caller must hold
// admin capabilities scoped to this school, or be a platform admin.
//
// @Summary      Add a staff record to a school
// @Tags         schools
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string           true  "School ID"
// @Param        body  body      addStaffRequest  true  "Staff details"
// @Success      201   {object}  staffResponse
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /v1/schools/{id}/staff [post]
func (h *SchoolHandler) AddStaff(c echo.Context) error {
	ident, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	schoolID := c.Param("id")
	adminSchoolID, err := h.gate.RequireAdminOrStaffAdmin(c.Request().Context(), ident.Account)
	if err != nil {
		metrics.GateDenialsTotal.WithLabelValues("require_admin_or_staff_admin").Inc()
		return err
	}
	// School-scoped admins may only manage their own school; rendered as 404
	// to avoid confirming the school exists.
	if adminSchoolID != "" && adminSchoolID != schoolID {
		return domain.ErrSchoolNotFound
	}

	var req addStaffRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	rec, err := h.schools.AddStaff(c.Request().Context(), &domain.StaffRecord{
		AccountID: req.AccountID,
		SchoolID:  schoolID,
		StaffType: domain.StaffType(req.StaffType),
		IsActive:  true,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, staffResponse{
		ID:        rec.ID,
		AccountID: rec.AccountID,
		SchoolID:  rec.SchoolID,
		StaffType: string(rec.StaffType),
		IsActive:  rec.IsActive,
		CreatedAt: rec.CreatedAt,
	})
}

func toSchoolResponse(s *domain.School) schoolResponse {
	return schoolResponse{
		ID:             s.ID,
		Name:           s.Name,
		City:           s.City,
		AdminAccountID: s.AdminAccountID,
		CreatedAt:      s.CreatedAt,
	}
}
