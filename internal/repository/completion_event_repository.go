package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/Cyborg-Robotics-Academy-Pvt-Ltd/cyborg-robotics-new-sub000/internal/models"
)

// CompletionEventRepository persists the completion ledger in PostgreSQL.
type CompletionEventRepository struct {
	db *sqlx.DB
}

// NewCompletionEventRepository constructs a CompletionEventRepository.
func NewCompletionEventRepository(db *sqlx.DB) *CompletionEventRepository {
	return &CompletionEventRepository{db: db}
}

// Create inserts a ledger row, assigning ID and timestamps when missing.
func (r *CompletionEventRepository) Create(ctx context.Context, event *models.CompletionEvent) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if event.CreatedAt.IsZero() {
		event.CreatedAt = now
	}
	event.UpdatedAt = now
	if event.State == "" {
		event.State = models.MutationStatePending
	}
	const query = `INSERT INTO course_completion_events (id, student_id, prn_number, kind, course_name, level, completed_tasks, class_number, state, error, created_at, updated_at)
        VALUES (:id, :student_id, :prn_number, :kind, :course_name, :level, :completed_tasks, :class_number, :state, :error, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, event); err != nil {
		return fmt.Errorf("create completion event: %w", err)
	}
	return nil
}

// UpdateState records the outcome of a pending write.
func (r *CompletionEventRepository) UpdateState(ctx context.Context, id string, state models.MutationState, errMsg *string) error {
	const query = `UPDATE course_completion_events SET state = $2, error = $3, updated_at = $4 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, state, errMsg, time.Now().UTC()); err != nil {
		return fmt.Errorf("update completion event: %w", err)
	}
	return nil
}

// List returns recent ledger rows, newest first.
func (r *CompletionEventRepository) List(ctx context.Context, filter models.CompletionEventFilter) ([]models.CompletionEvent, error) {
	conditions := []string{"1=1"}
	args := []interface{}{}
	if filter.PrnNumber != "" {
		args = append(args, filter.PrnNumber)
		conditions = append(conditions, fmt.Sprintf("prn_number = $%d", len(args)))
	}
	if filter.State != "" {
		args = append(args, filter.State)
		conditions = append(conditions, fmt.Sprintf("state = $%d", len(args)))
	}
	limit := filter.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	query := fmt.Sprintf(`SELECT id, student_id, prn_number, kind, course_name, level, completed_tasks, class_number, state, error, created_at, updated_at
        FROM course_completion_events WHERE %s ORDER BY created_at DESC LIMIT %d`, strings.Join(conditions, " AND "), limit)

	var events []models.CompletionEvent
	if err := r.db.SelectContext(ctx, &events, query, args...); err != nil {
		return nil, fmt.Errorf("list completion events: %w", err)
	}
	return events, nil
}
