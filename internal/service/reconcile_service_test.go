package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Cyborg-Robotics-Academy-Pvt-Ltd/cyborg-robotics-new-sub000/internal/dto"
	appErrors "github.com/Cyborg-Robotics-Academy-Pvt-Ltd/cyborg-robotics-new-sub000/pkg/errors"
	"github.com/Cyborg-Robotics-Academy-Pvt-Ltd/cyborg-robotics-new-sub000/pkg/jobs"
)

type recordingDispatcher struct {
	jobs []jobs.Job
	err  error
}

func (r *recordingDispatcher) Enqueue(job jobs.Job) error {
	if r.err != nil {
		return r.err
	}
	r.jobs = append(r.jobs, job)
	return nil
}

type stubReconciler struct {
	report *dto.ReconcileReport
	err    error
	prns   []string
}

func (s *stubReconciler) Reconcile(_ context.Context, prn string) (*dto.ReconcileReport, error) {
	s.prns = append(s.prns, prn)
	return s.report, s.err
}

func TestReconcileServiceEnqueueDeduplicates(t *testing.T) {
	dispatcher := &recordingDispatcher{}
	svc := NewReconcileService(dispatcher, nil, nil)

	accepted, err := svc.Enqueue(context.Background(), dto.ReconcileRequest{Prns: []string{"PRN-1", " PRN-1 ", "PRN-2"}})
	require.NoError(t, err)
	assert.Len(t, accepted.JobIDs, 2)
	require.Len(t, dispatcher.jobs, 2)
	assert.Equal(t, "PRN-1", dispatcher.jobs[0].Payload)
	assert.Equal(t, "PRN-2", dispatcher.jobs[1].Payload)
	assert.Equal(t, ReconcileJobType, dispatcher.jobs[0].Type)
}

func TestReconcileServiceEnqueueValidation(t *testing.T) {
	svc := NewReconcileService(&recordingDispatcher{}, nil, nil)

	_, err := svc.Enqueue(context.Background(), dto.ReconcileRequest{})
	assert.ErrorIs(t, err, appErrors.ErrValidation)
}

func TestReconcileServiceEnqueueFailure(t *testing.T) {
	svc := NewReconcileService(&recordingDispatcher{err: errors.New("queue reconcile not started")}, nil, nil)

	_, err := svc.Enqueue(context.Background(), dto.ReconcileRequest{Prns: []string{"PRN-1"}})
	assert.ErrorIs(t, err, appErrors.ErrUnavailable)
}

func TestReconcileWorkerHandle(t *testing.T) {
	stub := &stubReconciler{report: &dto.ReconcileReport{PrnNumber: "PRN-1"}}
	worker := NewReconcileWorker(stub, nil)

	require.NoError(t, worker.Handle(context.Background(), jobs.Job{ID: "j1", Payload: "PRN-1"}))
	assert.Equal(t, []string{"PRN-1"}, stub.prns)
}

func TestReconcileWorkerDropsUnknownStudent(t *testing.T) {
	worker := NewReconcileWorker(&stubReconciler{err: appErrors.ErrStudentNotFound}, nil)
	assert.NoError(t, worker.Handle(context.Background(), jobs.Job{ID: "j1", Payload: "PRN-404"}))
}

func TestReconcileWorkerRetriesWriteFailure(t *testing.T) {
	worker := NewReconcileWorker(&stubReconciler{
		report: &dto.ReconcileReport{},
		err:    appErrors.Clone(appErrors.ErrWriteFailed, "failed"),
	}, nil)
	err := worker.Handle(context.Background(), jobs.Job{ID: "j1", Payload: "PRN-1"})
	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrWriteFailed)
}

func TestReconcileWorkerIgnoresMalformedPayload(t *testing.T) {
	stub := &stubReconciler{}
	worker := NewReconcileWorker(stub, nil)
	assert.NoError(t, worker.Handle(context.Background(), jobs.Job{ID: "j1", Payload: 42}))
	assert.Empty(t, stub.prns)
}
