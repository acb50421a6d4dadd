package progress

import "github.com/Cyborg-Robotics-Academy-Pvt-Ltd/cyborg-robotics-new-sub000/internal/models"

// NotAvailable is returned when no class quota is known for a course.
const NotAvailable = "N/A"

// ResolveAssignedClasses returns the class quota for a course. Legacy
// courseClassNumbers entries win over the enrollment's classNumber; the
// result is NotAvailable when neither source knows the course.
func ResolveAssignedClasses(student *models.Student, name, level string) string {
	if student == nil {
		return NotAvailable
	}
	for _, entry := range student.CourseClassNumbers {
		entryName, entryLevel := ExtractCourseAndLevel(entry.Label)
		if IsSameCourseAndLevel(entryName, entryLevel, name, level) {
			return entry.Value
		}
	}
	if matched, _ := FindEnrollment(student.Courses, name, level); matched != nil {
		return matched.ClassNumber
	}
	return NotAvailable
}

// RemainingClasses is assigned minus completed, floored at zero. Non-numeric
// quotas such as NotAvailable yield zero.
func RemainingClasses(assigned string, completed int) int {
	quota, ok := ParseClassNumber(assigned)
	if !ok {
		return 0
	}
	return max(0, quota-completed)
}
