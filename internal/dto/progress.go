package dto

import (
	"github.com/Cyborg-Robotics-Academy-Pvt-Ltd/cyborg-robotics-new-sub000/internal/models"
	"github.com/Cyborg-Robotics-Academy-Pvt-Ltd/cyborg-robotics-new-sub000/internal/progress"
)

// CourseProgress is the console payload for one student in one course.
type CourseProgress struct {
	StudentID        string                 `json:"studentId"`
	PrnNumber        string                 `json:"prnNumber"`
	StudentName      string                 `json:"studentName"`
	Course           progress.CourseRef     `json:"course"`
	Enrollment       *models.Enrollment     `json:"enrollment"`
	AssignedClasses  string                 `json:"assignedClasses"`
	CompletedTasks   []TaskView             `json:"completedTasks"`
	CompletedCount   int                    `json:"completedCount"`
	OngoingCount     int                    `json:"ongoingCount"`
	RemainingClasses int                    `json:"remainingClasses"`
	AllCourseTasks   bool                   `json:"allCourseTasks"`
	StatusData       []progress.StatusCount `json:"statusData"`
	BarData          []progress.DateBucket  `json:"barData"`
	NextCourse       string                 `json:"nextCourse,omitempty"`
	AutoCompletion   *MutationOutcome       `json:"autoCompletion,omitempty"`
}

// TaskView is a task with its rendered date.
type TaskView struct {
	models.Task
	DisplayDate string `json:"displayDate"`
}

// MutationOutcome reports how a write triggered by a request ended.
type MutationOutcome struct {
	Kind  models.CompletionEventKind `json:"kind"`
	State models.MutationState       `json:"state"`
	Error string                     `json:"error,omitempty"`
}

// UpdateTaskStatusRequest toggles one task's status.
type UpdateTaskStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=complete ongoing"`
	// Slug selects the course whose progress is returned and re-checked.
	Slug string `json:"slug" validate:"required"`
}

// UpdateCertificateRequest sets the certificate flag of an enrollment.
type UpdateCertificateRequest struct {
	Certificate *bool `json:"certificate" validate:"required"`
}

// UpdateNextCourseRequest stores the suggested next course.
type UpdateNextCourseRequest struct {
	NextCourse string `json:"nextCourse" validate:"max=200"`
}

// ReconcileRequest queues students for a reconcile sweep.
type ReconcileRequest struct {
	Prns []string `json:"prns" validate:"required,min=1,dive,required"`
}

// ReconcileAccepted acknowledges queued sweep jobs.
type ReconcileAccepted struct {
	JobIDs []string `json:"jobIds"`
}

// ReconcileReport is the outcome of reconciling every enrollment of a student.
type ReconcileReport struct {
	PrnNumber string            `json:"prnNumber"`
	Courses   []ReconcileCourse `json:"courses"`
	Updated   bool              `json:"updated"`
}

// ReconcileCourse is the per-enrollment part of a ReconcileReport.
type ReconcileCourse struct {
	Name            string `json:"name"`
	Level           string `json:"level"`
	AssignedClasses string `json:"assignedClasses"`
	CompletedCount  int    `json:"completedCount"`
	AutoCompleted   bool   `json:"autoCompleted"`
	// NoCourseTasks is set when no task names this course, so the check was skipped.
	NoCourseTasks bool `json:"noCourseTasks"`
}
