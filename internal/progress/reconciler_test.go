package progress

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Cyborg-Robotics-Academy-Pvt-Ltd/cyborg-robotics-new-sub000/internal/models"
)

func printingStudent() *models.Student {
	student := &models.Student{
		ID:        "s1",
		PrnNumber: "PRN-001",
		Courses:   []models.Enrollment{{Name: "3D Printing", Level: "1", ClassNumber: "5"}},
	}
	for i := 0; i < 5; i++ {
		student.Tasks = append(student.Tasks, models.Task{
			Course:   "3D Printing|1",
			Task:     "session",
			DateTime: "2024-03-05",
			Status:   "complete",
		})
	}
	return student
}

func TestReconcilerCompletesCourseWhenQuotaReached(t *testing.T) {
	r := NewReconciler(nil, NewDateLabeler("UTC", "", ""))
	student := printingStudent()

	result := r.ForSlug(student, "3d-printing-level-1")

	require.NotNil(t, result.Enrollment)
	assert.Equal(t, 0, result.EnrollmentIndex)
	assert.Equal(t, "5", result.AssignedClasses)
	assert.Len(t, result.CompletedTasks, 5)
	assert.Equal(t, 0, result.RemainingClasses)
	assert.False(t, result.FellBack)
	assert.True(t, result.AutoCompleted)
	require.Len(t, result.UpdatedCourses, 1)
	assert.True(t, result.UpdatedCourses[0].Completed)
	assert.False(t, student.Courses[0].Completed)
	assert.Equal(t, []StatusCount{{Name: "complete", Value: 5}}, result.StatusData)
	assert.Equal(t, []DateBucket{{Date: "3/5/2024", Complete: 5}}, result.BarData)
}

func TestReconcilerSecondPassIsNoop(t *testing.T) {
	r := NewReconciler(nil, NewDateLabeler("UTC", "", ""))
	student := printingStudent()

	first := r.ForSlug(student, "3d-printing-level-1")
	student.Courses = first.UpdatedCourses

	second := r.ForSlug(student, "3d-printing-level-1")
	assert.False(t, second.AutoCompleted)
	assert.True(t, second.Enrollment.Completed)
}

func TestReconcilerNotEnrolled(t *testing.T) {
	r := NewReconciler(nil, DateLabeler{})
	student := &models.Student{Tasks: []models.Task{{Course: "Java", Status: "complete"}}}

	result := r.ForSlug(student, "python-level-1")
	assert.Nil(t, result.Enrollment)
	assert.Equal(t, -1, result.EnrollmentIndex)
	assert.Equal(t, NotAvailable, result.AssignedClasses)
	assert.True(t, result.FellBack)
	assert.Len(t, result.CompletedTasks, 1)
	assert.False(t, result.AutoCompleted)
}

func TestReconcilerNilStudent(t *testing.T) {
	result := NewReconciler(nil, DateLabeler{}).ForSlug(nil, "python-level-1")
	assert.Equal(t, NotAvailable, result.AssignedClasses)
	assert.Equal(t, -1, result.EnrollmentIndex)
}
