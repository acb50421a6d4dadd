package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/Cyborg-Robotics-Academy-Pvt-Ltd/cyborg-robotics-new-sub000/internal/dto"
	"github.com/Cyborg-Robotics-Academy-Pvt-Ltd/cyborg-robotics-new-sub000/internal/models"
)

type completionLedger interface {
	Create(ctx context.Context, event *models.CompletionEvent) error
	UpdateState(ctx context.Context, id string, state models.MutationState, errMsg *string) error
}

// studentMutation is one whole-field write to a student document. It moves
// Pending -> Committed or Pending -> Failed; on failure revert restores the
// in-memory student so it never diverges from what was stored.
type studentMutation struct {
	kind           models.CompletionEventKind
	courseName     string
	level          string
	completedTasks int
	classNumber    string

	apply  func()
	revert func()
	write  func(ctx context.Context) error

	state models.MutationState
	err   error
}

func (m *studentMutation) outcome() *dto.MutationOutcome {
	out := &dto.MutationOutcome{Kind: m.kind, State: m.state}
	if m.err != nil {
		out.Error = m.err.Error()
	}
	return out
}

// commit runs the mutation against student and records it in the ledger.
func (s *ProgressService) commit(ctx context.Context, student *models.Student, m *studentMutation) *dto.MutationOutcome {
	m.state = models.MutationStatePending
	event := s.recordPending(ctx, student, m)

	m.apply()
	if err := m.write(ctx); err != nil {
		m.revert()
		m.state = models.MutationStateFailed
		m.err = err
		s.logger.Warn("student write failed, state reverted",
			zap.String("prn", student.PrnNumber),
			zap.String("kind", string(m.kind)),
			zap.String("course", m.courseName),
			zap.Error(err))
	} else {
		m.state = models.MutationStateCommitted
		s.cache.Invalidate(ctx, progressCachePattern(student.PrnNumber))
		s.logger.Info("student write committed",
			zap.String("prn", student.PrnNumber),
			zap.String("kind", string(m.kind)),
			zap.String("course", m.courseName),
			zap.String("level", m.level))
	}

	s.recordOutcome(ctx, event, m)
	s.metrics.RecordMutation(m.kind, m.state)
	return m.outcome()
}

func (s *ProgressService) recordPending(ctx context.Context, student *models.Student, m *studentMutation) *models.CompletionEvent {
	if s.ledger == nil {
		return nil
	}
	event := &models.CompletionEvent{
		StudentID:      student.ID,
		PrnNumber:      student.PrnNumber,
		Kind:           m.kind,
		CourseName:     m.courseName,
		Level:          m.level,
		CompletedTasks: m.completedTasks,
		ClassNumber:    m.classNumber,
		State:          models.MutationStatePending,
	}
	if err := s.ledger.Create(ctx, event); err != nil {
		s.logger.Warn("ledger create failed", zap.String("prn", student.PrnNumber), zap.Error(err))
		return nil
	}
	return event
}

func (s *ProgressService) recordOutcome(ctx context.Context, event *models.CompletionEvent, m *studentMutation) {
	if s.ledger == nil || event == nil {
		return
	}
	var errMsg *string
	if m.err != nil {
		msg := m.err.Error()
		errMsg = &msg
	}
	if err := s.ledger.UpdateState(ctx, event.ID, m.state, errMsg); err != nil {
		s.logger.Warn("ledger update failed", zap.String("event_id", event.ID), zap.Error(err))
	}
}
