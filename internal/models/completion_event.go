package models

import "time"

// MutationState tracks a persisted write from request to outcome.
type MutationState string

const (
	MutationStatePending   MutationState = "PENDING"
	MutationStateCommitted MutationState = "COMMITTED"
	MutationStateFailed    MutationState = "FAILED"
)

// CompletionEventKind names what a ledger entry changed.
type CompletionEventKind string

const (
	CompletionEventAutoComplete CompletionEventKind = "AUTO_COMPLETE"
	CompletionEventCertificate  CompletionEventKind = "CERTIFICATE"
	CompletionEventTaskStatus   CompletionEventKind = "TASK_STATUS"
	CompletionEventNextCourse   CompletionEventKind = "NEXT_COURSE"
)

// CompletionEvent is a ledger row for a student document write.
type CompletionEvent struct {
	ID             string              `db:"id" json:"id"`
	StudentID      string              `db:"student_id" json:"studentId"`
	PrnNumber      string              `db:"prn_number" json:"prnNumber"`
	Kind           CompletionEventKind `db:"kind" json:"kind"`
	CourseName     string              `db:"course_name" json:"courseName"`
	Level          string              `db:"level" json:"level"`
	CompletedTasks int                 `db:"completed_tasks" json:"completedTasks"`
	ClassNumber    string              `db:"class_number" json:"classNumber"`
	State          MutationState       `db:"state" json:"state"`
	Error          *string             `db:"error" json:"error,omitempty"`
	CreatedAt      time.Time           `db:"created_at" json:"createdAt"`
	UpdatedAt      time.Time           `db:"updated_at" json:"updatedAt"`
}

// CompletionEventFilter narrows ledger listings.
type CompletionEventFilter struct {
	PrnNumber string
	State     MutationState
	Limit     int
}
