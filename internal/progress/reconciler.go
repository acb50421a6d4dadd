package progress

import "github.com/Cyborg-Robotics-Academy-Pvt-Ltd/cyborg-robotics-new-sub000/internal/models"

// Result is the derived progress of one student in one course.
type Result struct {
	Course           CourseRef
	Enrollment       *models.Enrollment
	EnrollmentIndex  int
	CourseTasks      []models.Task
	FellBack         bool
	CompletedTasks   []models.Task
	OngoingCount     int
	AssignedClasses  string
	RemainingClasses int
	StatusData       []StatusCount
	BarData          []DateBucket

	// UpdatedCourses holds the replacement courses array when AutoCompleted.
	UpdatedCourses []models.Enrollment
	AutoCompleted  bool
}

// Reconciler runs the full derivation for a student and course.
type Reconciler struct {
	normalizer *Normalizer
	dates      DateLabeler
}

// NewReconciler wires a reconciler.
func NewReconciler(normalizer *Normalizer, dates DateLabeler) *Reconciler {
	if normalizer == nil {
		normalizer = NewNormalizer(nil)
	}
	return &Reconciler{normalizer: normalizer, dates: dates}
}

// Normalizer exposes the slug normalizer.
func (r *Reconciler) Normalizer() *Normalizer {
	return r.normalizer
}

// Dates exposes the date labeler.
func (r *Reconciler) Dates() DateLabeler {
	return r.dates
}

// ForSlug resolves the slug and reconciles the student against it.
func (r *Reconciler) ForSlug(student *models.Student, slug string) Result {
	return r.ForCourse(student, r.normalizer.NormalizeSlug(slug))
}

// ForCourse reconciles the student against an already resolved course.
func (r *Reconciler) ForCourse(student *models.Student, course CourseRef) Result {
	result := Result{Course: course, EnrollmentIndex: -1}
	if student == nil {
		result.AssignedClasses = NotAvailable
		return result
	}

	result.Enrollment, result.EnrollmentIndex = FindEnrollment(student.Courses, course.Name, course.Level)
	result.CourseTasks, result.FellBack = CourseTasks(student.Tasks, course.Name, course.Level)
	result.CompletedTasks = filterByStatus(result.CourseTasks, IsComplete)
	result.OngoingCount = len(filterByStatus(result.CourseTasks, IsOngoing))
	result.AssignedClasses = ResolveAssignedClasses(student, course.Name, course.Level)
	result.RemainingClasses = RemainingClasses(result.AssignedClasses, len(result.CompletedTasks))
	result.StatusData = AggregateByStatus(result.CourseTasks)
	result.BarData = AggregateByDate(result.CourseTasks, r.dates)
	result.UpdatedCourses, result.AutoCompleted = MaybeAutoComplete(student.Courses, result.Enrollment, len(result.CompletedTasks))
	return result
}
