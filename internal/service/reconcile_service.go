package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Cyborg-Robotics-Academy-Pvt-Ltd/cyborg-robotics-new-sub000/internal/dto"
	appErrors "github.com/Cyborg-Robotics-Academy-Pvt-Ltd/cyborg-robotics-new-sub000/pkg/errors"
	"github.com/Cyborg-Robotics-Academy-Pvt-Ltd/cyborg-robotics-new-sub000/pkg/jobs"
)

// ReconcileJobType tags sweep jobs on the queue.
const ReconcileJobType = "reconcile_student"

type jobDispatcher interface {
	Enqueue(job jobs.Job) error
}

type studentReconciler interface {
	Reconcile(ctx context.Context, prn string) (*dto.ReconcileReport, error)
}

// ReconcileService queues students for a completion sweep.
type ReconcileService struct {
	queue     jobDispatcher
	validator *validator.Validate
	logger    *zap.Logger
}

// NewReconcileService constructs the sweep service.
func NewReconcileService(queue jobDispatcher, validate *validator.Validate, logger *zap.Logger) *ReconcileService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReconcileService{queue: queue, validator: validate, logger: logger}
}

// Enqueue schedules one job per distinct PRN.
func (s *ReconcileService) Enqueue(ctx context.Context, req dto.ReconcileRequest) (*dto.ReconcileAccepted, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid reconcile payload")
	}
	if s.queue == nil {
		return nil, appErrors.Clone(appErrors.ErrUnavailable, "reconcile queue is not running")
	}

	seen := make(map[string]struct{}, len(req.Prns))
	accepted := &dto.ReconcileAccepted{JobIDs: make([]string, 0, len(req.Prns))}
	for _, raw := range req.Prns {
		prn := strings.TrimSpace(raw)
		if prn == "" {
			continue
		}
		if _, dup := seen[prn]; dup {
			continue
		}
		seen[prn] = struct{}{}

		job := jobs.Job{ID: uuid.NewString(), Type: ReconcileJobType, Payload: prn}
		if err := s.queue.Enqueue(job); err != nil {
			return accepted, appErrors.Wrap(err, appErrors.ErrUnavailable.Code, appErrors.ErrUnavailable.Status, "failed to enqueue reconcile job")
		}
		accepted.JobIDs = append(accepted.JobIDs, job.ID)
	}
	s.logger.Info("reconcile jobs queued", zap.Int("count", len(accepted.JobIDs)))
	return accepted, nil
}

// ReconcileWorker bridges queue jobs to the progress service.
type ReconcileWorker struct {
	progress studentReconciler
	logger   *zap.Logger
}

// NewReconcileWorker constructs a worker.
func NewReconcileWorker(progress studentReconciler, logger *zap.Logger) *ReconcileWorker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReconcileWorker{progress: progress, logger: logger}
}

// Handle processes one queued student. Unknown students are dropped rather
// than retried.
func (w *ReconcileWorker) Handle(ctx context.Context, job jobs.Job) error {
	prn, ok := job.Payload.(string)
	if !ok || prn == "" {
		w.logger.Error("reconcile job without PRN", zap.String("job_id", job.ID))
		return nil
	}
	report, err := w.progress.Reconcile(ctx, prn)
	if err != nil {
		if errors.Is(err, appErrors.ErrStudentNotFound) {
			w.logger.Warn("reconcile skipped unknown student", zap.String("job_id", job.ID), zap.String("prn", prn))
			return nil
		}
		return fmt.Errorf("reconcile %s: %w", prn, err)
	}
	w.logger.Info("student reconciled",
		zap.String("job_id", job.ID),
		zap.String("prn", prn),
		zap.Int("courses", len(report.Courses)),
		zap.Bool("updated", report.Updated))
	return nil
}
