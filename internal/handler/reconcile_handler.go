package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Cyborg-Robotics-Academy-Pvt-Ltd/cyborg-robotics-new-sub000/internal/dto"
	appErrors "github.com/Cyborg-Robotics-Academy-Pvt-Ltd/cyborg-robotics-new-sub000/pkg/errors"
	"github.com/Cyborg-Robotics-Academy-Pvt-Ltd/cyborg-robotics-new-sub000/pkg/response"
)

type reconcileService interface {
	Enqueue(ctx context.Context, req dto.ReconcileRequest) (*dto.ReconcileAccepted, error)
}

// ReconcileHandler queues completion sweeps.
type ReconcileHandler struct {
	service reconcileService
}

// NewReconcileHandler constructs ReconcileHandler.
func NewReconcileHandler(service reconcileService) *ReconcileHandler {
	return &ReconcileHandler{service: service}
}

// Enqueue godoc
// @Summary Queue a completion sweep
// @Description Re-runs the completion check for every enrollment of each listed student in the background.
// @Tags Admin
// @Accept json
// @Produce json
// @Param payload body dto.ReconcileRequest true "Students to reconcile"
// @Success 202 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /admin/reconcile [post]
func (h *ReconcileHandler) Enqueue(c *gin.Context) {
	var req dto.ReconcileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	accepted, err := h.service.Enqueue(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Accepted(c, accepted)
}
