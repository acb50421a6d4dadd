package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Cyborg-Robotics-Academy-Pvt-Ltd/cyborg-robotics-new-sub000/internal/dto"
	"github.com/Cyborg-Robotics-Academy-Pvt-Ltd/cyborg-robotics-new-sub000/internal/middleware"
	"github.com/Cyborg-Robotics-Academy-Pvt-Ltd/cyborg-robotics-new-sub000/internal/service"
	appErrors "github.com/Cyborg-Robotics-Academy-Pvt-Ltd/cyborg-robotics-new-sub000/pkg/errors"
	"github.com/Cyborg-Robotics-Academy-Pvt-Ltd/cyborg-robotics-new-sub000/pkg/response"
)

type progressService interface {
	ProgressCached(ctx context.Context, prn, slug string) (*dto.CourseProgress, bool, error)
	SetTaskStatus(ctx context.Context, prn string, index int, req dto.UpdateTaskStatusRequest) (*dto.CourseProgress, error)
	SetCertificate(ctx context.Context, prn, slug string, req dto.UpdateCertificateRequest) (*dto.CourseProgress, error)
}

type progressReporter interface {
	Render(ctx context.Context, prn, slug string) (*service.ReportFile, error)
}

// ProgressHandler exposes course progress endpoints.
type ProgressHandler struct {
	progress progressService
	reports  progressReporter
}

// NewProgressHandler constructs ProgressHandler.
func NewProgressHandler(progress progressService, reports progressReporter) *ProgressHandler {
	return &ProgressHandler{progress: progress, reports: reports}
}

// Get godoc
// @Summary Course progress of a student
// @Description Resolves the course slug, matches the enrollment and returns completed tasks, assigned classes and chart data. Completes the enrollment when the quota is reached.
// @Tags Progress
// @Produce json
// @Param prn path string true "Student PRN"
// @Param slug path string true "Course slug, e.g. 3d-printing-level-1"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /students/{prn}/progress/{slug} [get]
func (h *ProgressHandler) Get(c *gin.Context) {
	start := time.Now()
	payload, cacheHit, err := h.progress.ProgressCached(c.Request.Context(), c.Param("prn"), c.Param("slug"))
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, cacheHit)
	meta := middleware.ExtractMeta(c)
	meta["processing_time_ms"] = time.Since(start).Milliseconds()
	response.JSON(c, http.StatusOK, payload, nil, meta)
}

// Report godoc
// @Summary Download course progress as PDF
// @Tags Progress
// @Produce application/pdf
// @Param prn path string true "Student PRN"
// @Param slug path string true "Course slug"
// @Success 200 {file} binary
// @Failure 404 {object} response.Envelope
// @Router /students/{prn}/progress/{slug}/report [get]
func (h *ProgressHandler) Report(c *gin.Context) {
	if h.reports == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrUnavailable, "reports are disabled"))
		return
	}
	file, err := h.reports.Render(c.Request.Context(), c.Param("prn"), c.Param("slug"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Body)
}

// SetTaskStatus godoc
// @Summary Change a task status
// @Tags Progress
// @Accept json
// @Produce json
// @Param prn path string true "Student PRN"
// @Param index path int true "Task index in the student's task list"
// @Param payload body dto.UpdateTaskStatusRequest true "Status payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Router /students/{prn}/tasks/{index} [patch]
func (h *ProgressHandler) SetTaskStatus(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "task index must be an integer"))
		return
	}
	var req dto.UpdateTaskStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	payload, err := h.progress.SetTaskStatus(c.Request.Context(), c.Param("prn"), index, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, payload, nil)
}

// SetCertificate godoc
// @Summary Set the certificate flag of an enrollment
// @Tags Progress
// @Accept json
// @Produce json
// @Param prn path string true "Student PRN"
// @Param slug path string true "Course slug"
// @Param payload body dto.UpdateCertificateRequest true "Certificate payload"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /students/{prn}/courses/{slug}/certificate [put]
func (h *ProgressHandler) SetCertificate(c *gin.Context) {
	var req dto.UpdateCertificateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	payload, err := h.progress.SetCertificate(c.Request.Context(), c.Param("prn"), c.Param("slug"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, payload, nil)
}
