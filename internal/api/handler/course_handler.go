package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/edulink/school-system/internal/api/metrics"
	"github.com/edulink/school-system/internal/core/domain"
	"github.com/edulink/school-system/internal/core/ports"
	"github.com/edulink/school-system/internal/core/service"
)

// CourseHandler handles HTTP requests for course operations.
type CourseHandler struct {
	courses ports.CourseService
	gate    *service.Gate
}

func NewCourseHandler(courses ports.CourseService, gate *service.Gate) *CourseHandler {
	return &CourseHandler{courses: courses, gate: gate}
}

// Create creates a course owned by the caller.
//
// @Summary      Create a course
// @Tags         courses
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createCourseRequest  true  "Course details"
// @Success      201   {object}  courseResponse
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /v1/courses [post]
func (h *CourseHandler) Create(c echo.Context) error {
	ident, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	if err := h.gate.RequireRole(ident.Account,
		domain.UserTypeProfessor, domain.UserTypeSchoolAdmin, domain.UserTypePlatformAdmin); err != nil {
		metrics.GateDenialsTotal.WithLabelValues("require_role").Inc()
		return err
	}

	var req createCourseRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	// Professors may only create courses in their own school.
	if ident.Account.UserType == domain.UserTypeProfessor {
		if ident.Role == nil || ident.Role.SchoolID != req.SchoolID {
			metrics.GateDenialsTotal.WithLabelValues("school_scope").Inc()
			return domain.ErrForbidden
		}
	}

	professorID := req.ProfessorID
	if professorID == "" && ident.Role != nil && ident.Role.Capability == domain.CapabilityProfessor {
		professorID = ident.Role.BindingID
	}

	course, err := h.courses.CreateCourse(c.Request().Context(), ports.CreateCourseInput{
		SchoolID:       req.SchoolID,
		Title:          req.Title,
		Description:    req.Description,
		OwnerAccountID: ident.Account.ID,
		ProfessorID:    professorID,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, toCourseResponse(course))
}

// Get returns a single course. Non-admin callers must own or teach it.
//
// @Summary      Get a course
// @Tags         courses
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "Course ID"
// @Success      200  {object}  courseResponse
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /v1/courses/{id} [get]
func (h *CourseHandler) Get(c echo.Context) error {
	ident, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	course, err := h.courses.GetCourse(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}

	if !ident.Role.IsAdmin() {
		if err := h.gate.RequireCourseOwnership(c.Request().Context(), ident.Account, course); err != nil {
			metrics.GateDenialsTotal.WithLabelValues("require_course_ownership").Inc()
			return err
		}
	}

	return c.JSON(http.StatusOK, toCourseResponse(course))
}

// ListBySchool returns the courses of a school. Callers must belong to the
// school or hold admin capabilities over it.
//
// @Summary      List courses of a school
// @Tags         courses
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "School ID"
// @Success      200  {object}  listCoursesResponse
// @Failure      403  {object}  map[string]string
// @Router       /v1/schools/{id}/courses [get]
func (h *CourseHandler) ListBySchool(c echo.Context) error {
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

	courses, err := h.courses.ListCourses(c.Request().Context(), schoolID)
	if err != nil {
		return err
	}

	resp := listCoursesResponse{Data: make([]courseResponse, 0, len(courses))}
	for _, course := range courses {
		resp.Data = append(resp.Data, toCourseResponse(course))
	}
	return c.JSON(http.StatusOK, resp)
}

func toCourseResponse(course *domain.Course) courseResponse {
	return courseResponse{
		ID:             course.ID,
		SchoolID:       course.SchoolID,
		Title:          course.Title,
		Description:    course.Description,
		OwnerAccountID: course.OwnerAccountID,
		ProfessorID:    course.ProfessorID,
		CreatedAt:      course.CreatedAt,
	}
}
