package progress

import (
	"strconv"
	"strings"

	"github.com/Cyborg-Robotics-Academy-Pvt-Ltd/cyborg-robotics-new-sub000/internal/models"
)

// ParseClassNumber reads the leading integer of a class quota such as "12" or
// "12 classes". ok is false when no digits lead the value.
func ParseClassNumber(raw string) (int, bool) {
	raw = strings.TrimSpace(raw)
	end := 0
	for end < len(raw) && raw[end] >= '0' && raw[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(raw[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}

// ShouldAutoComplete is the auto-complete predicate: the quota is a positive
// integer, the completed count equals it exactly and the enrollment is not
// already complete. Overshooting the quota does not qualify.
func ShouldAutoComplete(enrollment *models.Enrollment, completedCount int) bool {
	if enrollment == nil || enrollment.Completed {
		return false
	}
	quota, ok := ParseClassNumber(enrollment.ClassNumber)
	if !ok || quota <= 0 {
		return false
	}
	return completedCount == quota
}

// MaybeAutoComplete returns a copy of courses with the matched enrollment
// marked completed when ShouldAutoComplete holds. The entry is located by
// name and level rather than position, so courses may be a fresher read than
// the one matched came from. The returned slice replaces the whole courses
// field when persisted.
func MaybeAutoComplete(courses []models.Enrollment, matched *models.Enrollment, completedCount int) ([]models.Enrollment, bool) {
	if !ShouldAutoComplete(matched, completedCount) {
		return courses, false
	}
	target := -1
	for i := range courses {
		if IsSameCourseAndLevel(courses[i].Name, courses[i].Level, matched.Name, matched.Level) {
			target = i
			break
		}
	}
	if target < 0 || courses[target].Completed {
		return courses, false
	}
	updated := make([]models.Enrollment, len(courses))
	copy(updated, courses)
	updated[target].Completed = true
	return updated, true
}
