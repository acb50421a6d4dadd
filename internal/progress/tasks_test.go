package progress

import (
	"testing"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"

	"github.com/Cyborg-Robotics-Academy-Pvt-Ltd/cyborg-robotics-new-sub000/internal/models"
)

func TestFilterTasksForCourse(t *testing.T) {
	tasks := []models.Task{
		{Course: "3D Printing|1", Task: "a", Status: "complete"},
		{Course: "3d printing Level 1", Task: "b", Status: "ongoing"},
		{Course: "3D Printing|2", Task: "c", Status: "complete"},
		{Course: "Python", Task: "d", Status: "complete"},
	}

	filtered := FilterTasksForCourse(tasks, "3D Printing", "1")
	assert.Len(t, filtered, 2)
	assert.Equal(t, "a", filtered[0].Task)
	assert.Equal(t, "b", filtered[1].Task)
}

func TestCourseTasksFallsBackToAllCompleteTasks(t *testing.T) {
	tasks := []models.Task{
		{Course: "Java", Status: "complete"},
		{Course: "Java", Status: "ongoing"},
	}

	assert.Empty(t, FilterTasksForCourse(tasks, "Python", "1"))

	courseTasks, fellBack := CourseTasks(tasks, "Python", "1")
	assert.True(t, fellBack)
	assert.Equal(t, []models.Task{{Course: "Java", Status: "complete"}}, courseTasks)
	assert.Equal(t, []models.Task{{Course: "Java", Status: "complete"}}, CompletedTasks(tasks, "Python", "1"))
}

func TestCompletedTasksIsCaseInsensitive(t *testing.T) {
	tasks := []models.Task{
		{Course: "Python|1", Status: "Complete"},
		{Course: "Python|1", Status: " COMPLETE "},
		{Course: "Python|1", Status: "ongoing"},
	}
	assert.Len(t, CompletedTasks(tasks, "Python", "1"), 2)
}

func TestAggregateByStatus(t *testing.T) {
	tasks := []models.Task{
		{Status: "ongoing"},
		{Status: "Complete"},
		{Status: "complete"},
		{Status: ""},
	}
	assert.Equal(t, []StatusCount{
		{Name: "ongoing", Value: 1},
		{Name: "complete", Value: 2},
		{Name: "", Value: 1},
	}, AggregateByStatus(tasks))
	assert.Empty(t, AggregateByStatus(nil))
}

func TestAggregateByDateCountsOnlyExactComplete(t *testing.T) {
	dates := NewDateLabeler("Asia/Kolkata", "", "")
	tasks := []models.Task{
		{DateTime: "2024-03-05", Status: "complete"},
		{DateTime: "2024-03-05T10:00:00", Status: "Complete"},
		{DateTime: "2024-03-05T20:00:00Z", Status: "complete"},
		{DateTime: "not a date", Status: "ongoing"},
	}

	assert.Equal(t, []DateBucket{
		{Date: "3/5/2024", Complete: 1, Ongoing: 1},
		{Date: "3/6/2024", Complete: 1},
		{Date: InvalidDateLabel, Ongoing: 1},
	}, AggregateByDate(tasks, dates))
}

func TestDateLabelerDisplay(t *testing.T) {
	dates := NewDateLabeler("Asia/Kolkata", "1/2/2006", "1/2/2006, 3:04:05 PM")

	assert.Equal(t, "3/5/2024, 3:30:00 PM", dates.Display("2024-03-05T10:00:00Z"))
	assert.Equal(t, "3/5/2024, 5:30:00 AM", dates.Display("2024-03-05"))
	assert.Equal(t, DateNotSpecified, dates.Display(""))
	assert.Equal(t, DateNotSpecified, dates.Display("someday"))
}

func TestNewDateLabelerUnknownZoneFallsBackToUTC(t *testing.T) {
	dates := NewDateLabeler("Mars/Olympus", "", "")
	assert.Equal(t, "3/5/2024", dates.Label("2024-03-05T23:00:00Z"))
}
