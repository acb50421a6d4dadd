package progress

import (
	"strings"
	"time"

	"github.com/Cyborg-Robotics-Academy-Pvt-Ltd/cyborg-robotics-new-sub000/internal/models"
)

const (
	// InvalidDateLabel buckets tasks whose dateTime cannot be parsed.
	InvalidDateLabel = "Invalid Date"
	// DateNotSpecified is shown in place of an unparsable task date.
	DateNotSpecified = "Date not specified"

	statusComplete = "complete"
	statusOngoing  = "ongoing"
)

// StatusCount is one slice of the status chart.
type StatusCount struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// DateBucket is one bar of the per-day chart.
type DateBucket struct {
	Date     string `json:"date"`
	Complete int    `json:"complete"`
	Ongoing  int    `json:"ongoing"`
}

// FilterTasksForCourse keeps the tasks whose course label resolves to the
// given course and level.
func FilterTasksForCourse(tasks []models.Task, name, level string) []models.Task {
	filtered := make([]models.Task, 0, len(tasks))
	for _, task := range tasks {
		taskName, taskLevel := ExtractCourseAndLevel(task.Course)
		if IsSameCourseAndLevel(taskName, taskLevel, name, level) {
			filtered = append(filtered, task)
		}
	}
	return filtered
}

// CourseTasks returns the tasks attributed to the course. When no task label
// matches, every completed task of the student is attributed to it instead
// and fellBack is true; this can count another course's work when labels
// drift from enrollment names.
func CourseTasks(tasks []models.Task, name, level string) (courseTasks []models.Task, fellBack bool) {
	filtered := FilterTasksForCourse(tasks, name, level)
	if len(filtered) > 0 {
		return filtered, false
	}
	return filterByStatus(tasks, IsComplete), true
}

// CompletedTasks returns the completed-task set for the course, including the
// all-courses fallback applied by CourseTasks.
func CompletedTasks(tasks []models.Task, name, level string) []models.Task {
	courseTasks, _ := CourseTasks(tasks, name, level)
	return filterByStatus(courseTasks, IsComplete)
}

// IsComplete reports whether status reads "complete" in any case.
func IsComplete(status string) bool {
	return strings.EqualFold(strings.TrimSpace(status), statusComplete)
}

// IsOngoing reports whether status reads "ongoing" in any case.
func IsOngoing(status string) bool {
	return strings.EqualFold(strings.TrimSpace(status), statusOngoing)
}

// AggregateByStatus counts tasks per lower-cased status in first-seen order.
// Blank statuses are counted under the empty name.
func AggregateByStatus(tasks []models.Task) []StatusCount {
	index := make(map[string]int)
	counts := make([]StatusCount, 0)
	for _, task := range tasks {
		key := strings.ToLower(strings.TrimSpace(task.Status))
		i, ok := index[key]
		if !ok {
			i = len(counts)
			index[key] = i
			counts = append(counts, StatusCount{Name: key})
		}
		counts[i].Value++
	}
	return counts
}

// AggregateByDate groups tasks by calendar day in first-seen order. Only the
// exact status "complete" counts as complete; every other value, including
// "Complete", lands in the ongoing column.
func AggregateByDate(tasks []models.Task, dates DateLabeler) []DateBucket {
	index := make(map[string]int)
	buckets := make([]DateBucket, 0)
	for _, task := range tasks {
		key := dates.Label(task.DateTime)
		i, ok := index[key]
		if !ok {
			i = len(buckets)
			index[key] = i
			buckets = append(buckets, DateBucket{Date: key})
		}
		if task.Status == statusComplete {
			buckets[i].Complete++
		} else {
			buckets[i].Ongoing++
		}
	}
	return buckets
}

func filterByStatus(tasks []models.Task, keep func(string) bool) []models.Task {
	out := make([]models.Task, 0, len(tasks))
	for _, task := range tasks {
		if keep(task.Status) {
			out = append(out, task)
		}
	}
	return out
}

// DateLabeler renders task timestamps as local calendar labels.
type DateLabeler struct {
	Location      *time.Location
	DateLayout    string
	DisplayLayout string
}

var zonedLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04Z07:00",
	time.RFC1123Z,
	time.RFC1123,
}

var localLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"01/02/2006 15:04",
	"1/2/2006",
	"01/02/2006",
	"Jan 2, 2006",
	"January 2, 2006",
}

// NewDateLabeler builds a labeler for the named IANA zone. Unknown zones fall
// back to UTC and empty layouts to the US calendar style; callers that take
// the zone from configuration check it with time.LoadLocation first.
func NewDateLabeler(timezone, dateLayout, displayLayout string) DateLabeler {
	loc, err := time.LoadLocation(timezone)
	if err != nil || timezone == "" {
		loc = time.UTC
	}
	if dateLayout == "" {
		dateLayout = "1/2/2006"
	}
	if displayLayout == "" {
		displayLayout = dateLayout + ", 3:04:05 PM"
	}
	return DateLabeler{Location: loc, DateLayout: dateLayout, DisplayLayout: displayLayout}
}

// Parse reads an ISO-like timestamp. Values without a zone are read in the
// labeler's location, except bare dates which are taken as UTC midnight.
func (d DateLabeler) Parse(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range zonedLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, true
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, raw, d.location()); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Label returns the local date of raw, or InvalidDateLabel.
func (d DateLabeler) Label(raw string) string {
	t, ok := d.Parse(raw)
	if !ok {
		return InvalidDateLabel
	}
	return t.In(d.location()).Format(d.layout())
}

// Display returns the local date and time of raw, or DateNotSpecified.
func (d DateLabeler) Display(raw string) string {
	t, ok := d.Parse(raw)
	if !ok {
		return DateNotSpecified
	}
	layout := d.DisplayLayout
	if layout == "" {
		layout = d.layout()
	}
	return t.In(d.location()).Format(layout)
}

func (d DateLabeler) location() *time.Location {
	if d.Location == nil {
		return time.UTC
	}
	return d.Location
}

func (d DateLabeler) layout() string {
	if d.DateLayout == "" {
		return "1/2/2006"
	}
	return d.DateLayout
}
