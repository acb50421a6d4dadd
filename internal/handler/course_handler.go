package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Cyborg-Robotics-Academy-Pvt-Ltd/cyborg-robotics-new-sub000/internal/progress"
	appErrors "github.com/Cyborg-Robotics-Academy-Pvt-Ltd/cyborg-robotics-new-sub000/pkg/errors"
	"github.com/Cyborg-Robotics-Academy-Pvt-Ltd/cyborg-robotics-new-sub000/pkg/response"
)

type slugNormalizer interface {
	NormalizeSlug(slug string) progress.CourseRef
}

// CourseHandler exposes course lookup helpers.
type CourseHandler struct {
	normalizer slugNormalizer
}

// NewCourseHandler constructs CourseHandler.
func NewCourseHandler(normalizer slugNormalizer) *CourseHandler {
	return &CourseHandler{normalizer: normalizer}
}

// Normalize godoc
// @Summary Resolve a course slug
// @Tags Courses
// @Produce json
// @Param slug query string true "Course slug"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /courses/normalize [get]
func (h *CourseHandler) Normalize(c *gin.Context) {
	slug := strings.TrimSpace(c.Query("slug"))
	if slug == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "slug is required"))
		return
	}
	response.JSON(c, http.StatusOK, h.normalizer.NormalizeSlug(slug), nil)
}
