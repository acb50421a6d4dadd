package progress

import "github.com/Cyborg-Robotics-Academy-Pvt-Ltd/cyborg-robotics-new-sub000/internal/models"

// FindEnrollment returns the enrollment for the course and its index.
// A strict name+level pass runs first, then a name-only pass for legacy
// records without a level. Ties go to the earliest array position. It
// returns nil and -1 when the student is not enrolled.
func FindEnrollment(courses []models.Enrollment, name, level string) (*models.Enrollment, int) {
	for i := range courses {
		if IsSameCourseAndLevel(courses[i].Name, courses[i].Level, name, level) {
			return &courses[i], i
		}
	}
	for i := range courses {
		if IsSameCourseAndLevel(courses[i].Name, "", name, "") {
			return &courses[i], i
		}
	}
	return nil, -1
}
