package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/edu-portal-api/internal/models"
	appErrors "github.com/noah-isme/edu-portal-api/pkg/errors"
	"github.com/noah-isme/edu-portal-api/pkg/response"
)

type courseService interface {
	List(ctx context.Context, filter models.CourseFilter) ([]models.Course, error)
	ByID(ctx context.Context, id int64) (*models.Course, bool, error)
	Subjects(ctx context.Context) ([]string, error)
}

// CourseHandler serves the public course catalog.
type CourseHandler struct {
	service courseService
}

// NewCourseHandler builds a new handler.
func NewCourseHandler(service courseService) *CourseHandler {
	return &CourseHandler{service: service}
}

// List godoc
// @Summary List courses
// @Description Every supplied filter must match. Subject and difficulty are case-sensitive.
// @Tags Courses
// @Produce json
// @Param subject query string false "Exact subject"
// @Param grade query int false "Grade level (1-12)"
// @Param difficulty query string false "Exact difficulty"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /courses [get]
func (h *CourseHandler) List(c *gin.Context) {
	filter, err := courseFilterFromQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	courses, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, courses, map[string]interface{}{"total": len(courses)})
}

// Get godoc
// @Summary Get a course
// @Description Responds with null data when the course does not exist.
// @Tags Courses
// @Produce json
// @Param id path int true "Course ID"
// @Success 200 {object} response.Envelope
// @Router /courses/{id} [get]
func (h *CourseHandler) Get(c *gin.Context) {
	id, err := int64Param(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	course, found, err := h.service.ByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	if !found {
		response.JSON(c, http.StatusOK, nil, map[string]interface{}{"found": false})
		return
	}
	response.JSON(c, http.StatusOK, course, map[string]interface{}{"found": true})
}

// Subjects godoc
// @Summary List distinct subjects
// @Tags Courses
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /courses/subjects [get]
func (h *CourseHandler) Subjects(c *gin.Context) {
	subjects, err := h.service.Subjects(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, subjects)
}

func courseFilterFromQuery(c *gin.Context) (models.CourseFilter, error) {
	var filter models.CourseFilter
	if subject := c.Query("subject"); subject != "" {
		filter.Subject = &subject
	}
	if difficulty := c.Query("difficulty"); difficulty != "" {
		filter.Difficulty = &difficulty
	}
	if raw := c.Query("grade"); raw != "" {
		grade, err := strconv.Atoi(raw)
		if err != nil {
			return filter, appErrors.Clone(appErrors.ErrInvalidArgument, "grade must be an integer")
		}
		filter.GradeLevel = &grade
	}
	return filter, nil
}
