package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/Cyborg-Robotics-Academy-Pvt-Ltd/cyborg-robotics-new-sub000/internal/dto"
	"github.com/Cyborg-Robotics-Academy-Pvt-Ltd/cyborg-robotics-new-sub000/internal/models"
	"github.com/Cyborg-Robotics-Academy-Pvt-Ltd/cyborg-robotics-new-sub000/internal/progress"
	"github.com/Cyborg-Robotics-Academy-Pvt-Ltd/cyborg-robotics-new-sub000/internal/repository"
	appErrors "github.com/Cyborg-Robotics-Academy-Pvt-Ltd/cyborg-robotics-new-sub000/pkg/errors"
)

type studentStore interface {
	FindByPRN(ctx context.Context, prn string) (*models.Student, error)
	List(ctx context.Context, filter models.StudentFilter) ([]models.StudentSummary, int, error)
	ReplaceCourses(ctx context.Context, id string, courses []models.Enrollment) error
	ReplaceTasks(ctx context.Context, id string, tasks []models.Task) error
	SetNextCourse(ctx context.Context, id string, nextCourse string) error
}

// ProgressService derives course progress for a student and persists the
// writes that derivation triggers.
type ProgressService struct {
	store      studentStore
	ledger     completionLedger
	reconciler *progress.Reconciler
	cache      *CacheService
	metrics    *MetricsService
	validator  *validator.Validate
	logger     *zap.Logger
}

// ProgressServiceConfig bundles optional collaborators.
type ProgressServiceConfig struct {
	Ledger    completionLedger
	Cache     *CacheService
	Metrics   *MetricsService
	Validator *validator.Validate
	Logger    *zap.Logger
}

// NewProgressService constructs the progress service.
func NewProgressService(store studentStore, reconciler *progress.Reconciler, cfg ProgressServiceConfig) *ProgressService {
	if reconciler == nil {
		reconciler = progress.NewReconciler(nil, progress.DateLabeler{})
	}
	if cfg.Validator == nil {
		cfg.Validator = validator.New()
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &ProgressService{
		store:      store,
		ledger:     cfg.Ledger,
		reconciler: reconciler,
		cache:      cfg.Cache,
		metrics:    cfg.Metrics,
		validator:  cfg.Validator,
		logger:     cfg.Logger,
	}
}

// Normalize resolves a course slug.
func (s *ProgressService) Normalize(slug string) progress.CourseRef {
	return s.reconciler.Normalizer().NormalizeSlug(slug)
}

// Student loads one student by PRN.
func (s *ProgressService) Student(ctx context.Context, prn string) (*models.Student, error) {
	return s.load(ctx, prn)
}

// List returns student summaries and pagination metadata.
func (s *ProgressService) List(ctx context.Context, filter models.StudentFilter) ([]models.StudentSummary, *models.Pagination, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.PageSize > 100 {
		filter.PageSize = 100
	}
	students, total, err := s.store.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrUnavailable.Code, appErrors.ErrUnavailable.Status, "failed to list students")
	}
	return students, &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total}, nil
}

// Progress returns the progress of the student identified by prn in the
// course named by slug. When the completed task count reaches the assigned
// quota the enrollment is marked complete and persisted; a failed write is
// reported in AutoCompletion and the returned enrollment stays incomplete.
func (s *ProgressService) Progress(ctx context.Context, prn, slug string) (*dto.CourseProgress, error) {
	payload, _, err := s.ProgressCached(ctx, prn, slug)
	return payload, err
}

// ProgressCached is Progress that also reports whether the payload came from
// the cache.
func (s *ProgressService) ProgressCached(ctx context.Context, prn, slug string) (*dto.CourseProgress, bool, error) {
	course, err := s.resolve(slug)
	if err != nil {
		return nil, false, err
	}

	key := progressCacheKey(prn, slug)
	var cached dto.CourseProgress
	if s.cache.Get(ctx, key, &cached) && !progress.ShouldAutoComplete(cached.Enrollment, cached.CompletedCount) {
		return &cached, true, nil
	}

	student, err := s.load(ctx, prn)
	if err != nil {
		return nil, false, err
	}

	payload := s.reconcileCourse(ctx, student, course)
	if payload.AutoCompletion == nil || payload.AutoCompletion.State != models.MutationStateFailed {
		s.cache.Set(ctx, key, payload, 0)
	}
	return payload, false, nil
}

// SetTaskStatus changes the status of the task at index and returns the
// refreshed progress for the course named in the request.
func (s *ProgressService) SetTaskStatus(ctx context.Context, prn string, index int, req dto.UpdateTaskStatusRequest) (*dto.CourseProgress, error) {
	req.Status = strings.ToLower(strings.TrimSpace(req.Status))
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid task status payload")
	}
	course, err := s.resolve(req.Slug)
	if err != nil {
		return nil, err
	}
	student, err := s.load(ctx, prn)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(student.Tasks) {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("task index %d out of range", index))
	}

	if student.Tasks[index].Status != req.Status {
		previous := student.Tasks
		updated := append([]models.Task(nil), previous...)
		updated[index].Status = req.Status
		task := updated[index]

		outcome := s.commit(ctx, student, &studentMutation{
			kind:       models.CompletionEventTaskStatus,
			courseName: task.Course,
			apply:      func() { student.Tasks = updated },
			revert:     func() { student.Tasks = previous },
			write: func(ctx context.Context) error {
				return s.store.ReplaceTasks(ctx, student.ID, updated)
			},
		})
		if outcome.State == models.MutationStateFailed {
			return nil, appErrors.Clone(appErrors.ErrWriteFailed, "failed to update task status")
		}
	}

	return s.reconcileCourse(ctx, student, course), nil
}

// SetCertificate sets the certificate flag of the enrollment matching slug.
func (s *ProgressService) SetCertificate(ctx context.Context, prn, slug string, req dto.UpdateCertificateRequest) (*dto.CourseProgress, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid certificate payload")
	}
	course, err := s.resolve(slug)
	if err != nil {
		return nil, err
	}
	student, err := s.load(ctx, prn)
	if err != nil {
		return nil, err
	}
	enrollment, idx := progress.FindEnrollment(student.Courses, course.Name, course.Level)
	if enrollment == nil {
		return nil, appErrors.Clone(appErrors.ErrNotEnrolled, fmt.Sprintf("student %s is not enrolled in %s", prn, course.Display))
	}

	if enrollment.Certificate != *req.Certificate {
		previous := student.Courses
		updated := append([]models.Enrollment(nil), previous...)
		updated[idx].Certificate = *req.Certificate

		outcome := s.commit(ctx, student, &studentMutation{
			kind:        models.CompletionEventCertificate,
			courseName:  updated[idx].Name,
			level:       updated[idx].Level,
			classNumber: updated[idx].ClassNumber,
			apply:       func() { student.Courses = updated },
			revert:      func() { student.Courses = previous },
			write: func(ctx context.Context) error {
				return s.store.ReplaceCourses(ctx, student.ID, updated)
			},
		})
		if outcome.State == models.MutationStateFailed {
			return nil, appErrors.Clone(appErrors.ErrWriteFailed, "failed to update certificate")
		}
	}

	return s.reconcileCourse(ctx, student, course), nil
}

// UpdateNextCourse stores the suggested next course for a student.
func (s *ProgressService) UpdateNextCourse(ctx context.Context, prn string, req dto.UpdateNextCourseRequest) (*models.Student, error) {
	req.NextCourse = strings.TrimSpace(req.NextCourse)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid next course payload")
	}
	student, err := s.load(ctx, prn)
	if err != nil {
		return nil, err
	}
	if student.NextCourse == req.NextCourse {
		return student, nil
	}

	previous := student.NextCourse
	outcome := s.commit(ctx, student, &studentMutation{
		kind:       models.CompletionEventNextCourse,
		courseName: req.NextCourse,
		apply:      func() { student.NextCourse = req.NextCourse },
		revert:     func() { student.NextCourse = previous },
		write: func(ctx context.Context) error {
			return s.store.SetNextCourse(ctx, student.ID, req.NextCourse)
		},
	})
	if outcome.State == models.MutationStateFailed {
		return nil, appErrors.Clone(appErrors.ErrWriteFailed, "failed to update next course")
	}
	return student, nil
}

// Reconcile runs the completion check for every enrollment of a student,
// folding each committed update into the next check. Enrollments without
// tasks of their own are reported and left alone.
func (s *ProgressService) Reconcile(ctx context.Context, prn string) (*dto.ReconcileReport, error) {
	student, err := s.load(ctx, prn)
	if err != nil {
		return nil, err
	}

	report := &dto.ReconcileReport{PrnNumber: student.PrnNumber, Courses: make([]dto.ReconcileCourse, 0, len(student.Courses))}
	var failed error
	for i := 0; i < len(student.Courses); i++ {
		enrollment := student.Courses[i]
		course := progress.CourseRef{
			Name:    strings.TrimSpace(enrollment.Name),
			Level:   progress.CanonicalLevel(enrollment.Level),
			Display: strings.TrimSpace(enrollment.Name),
		}
		result := s.reconciler.ForCourse(student, course)
		entry := dto.ReconcileCourse{
			Name:            enrollment.Name,
			Level:           enrollment.Level,
			AssignedClasses: result.AssignedClasses,
			CompletedCount:  len(result.CompletedTasks),
		}
		// The all-courses fallback only fills a viewed dashboard; it never
		// completes an enrollment nobody is looking at.
		if result.FellBack {
			entry.CompletedCount = 0
			entry.NoCourseTasks = true
			report.Courses = append(report.Courses, entry)
			continue
		}
		if result.AutoCompleted {
			outcome := s.autoComplete(ctx, student, result)
			switch outcome.State {
			case models.MutationStateCommitted:
				entry.AutoCompleted = true
				report.Updated = true
			case models.MutationStateFailed:
				failed = appErrors.Clone(appErrors.ErrWriteFailed, fmt.Sprintf("failed to complete %s for %s", enrollment.Name, prn))
			}
		}
		report.Courses = append(report.Courses, entry)
	}

	if failed != nil {
		return report, failed
	}
	return report, nil
}

func (s *ProgressService) resolve(slug string) (progress.CourseRef, error) {
	course := s.reconciler.Normalizer().NormalizeSlug(slug)
	if course.Name == "" {
		return course, appErrors.Clone(appErrors.ErrValidation, "course slug is required")
	}
	return course, nil
}

func (s *ProgressService) load(ctx context.Context, prn string) (*models.Student, error) {
	prn = strings.TrimSpace(prn)
	if prn == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "PRN is required")
	}
	student, err := s.store.FindByPRN(ctx, prn)
	if err != nil {
		if errors.Is(err, repository.ErrStudentNotFound) {
			return nil, appErrors.ErrStudentNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrUnavailable.Code, appErrors.ErrUnavailable.Status, "failed to load student")
	}
	return student, nil
}

// reconcileCourse derives progress, persists an auto-completion when one is
// due, and renders the payload from the state that is actually stored.
func (s *ProgressService) reconcileCourse(ctx context.Context, student *models.Student, course progress.CourseRef) *dto.CourseProgress {
	result := s.reconciler.ForCourse(student, course)

	var outcome *dto.MutationOutcome
	if result.AutoCompleted {
		outcome = s.autoComplete(ctx, student, result)
		result = s.reconciler.ForCourse(student, course)
	}

	payload := s.render(student, result)
	payload.AutoCompletion = outcome
	return payload
}

func (s *ProgressService) autoComplete(ctx context.Context, student *models.Student, result progress.Result) *dto.MutationOutcome {
	previous := student.Courses
	updated := result.UpdatedCourses
	m := &studentMutation{
		kind:           models.CompletionEventAutoComplete,
		completedTasks: len(result.CompletedTasks),
		classNumber:    result.AssignedClasses,
		apply:          func() { student.Courses = updated },
		revert:         func() { student.Courses = previous },
		write: func(ctx context.Context) error {
			return s.store.ReplaceCourses(ctx, student.ID, updated)
		},
	}
	if result.Enrollment != nil {
		m.courseName = result.Enrollment.Name
		m.level = result.Enrollment.Level
	}
	return s.commit(ctx, student, m)
}

func (s *ProgressService) render(student *models.Student, result progress.Result) *dto.CourseProgress {
	dates := s.reconciler.Dates()
	completed := make([]dto.TaskView, 0, len(result.CompletedTasks))
	for _, task := range result.CompletedTasks {
		completed = append(completed, dto.TaskView{Task: task, DisplayDate: dates.Display(task.DateTime)})
	}

	payload := &dto.CourseProgress{
		StudentID:        student.ID,
		PrnNumber:        student.PrnNumber,
		StudentName:      student.Name,
		Course:           result.Course,
		AssignedClasses:  result.AssignedClasses,
		CompletedTasks:   completed,
		CompletedCount:   len(result.CompletedTasks),
		OngoingCount:     result.OngoingCount,
		RemainingClasses: result.RemainingClasses,
		AllCourseTasks:   result.FellBack,
		StatusData:       result.StatusData,
		BarData:          result.BarData,
		NextCourse:       student.NextCourse,
	}
	if result.Enrollment != nil {
		enrollment := *result.Enrollment
		payload.Enrollment = &enrollment
	}
	return payload
}

func progressCacheKey(prn, slug string) string {
	return fmt.Sprintf("progress:%s:%s", strings.TrimSpace(prn), strings.ToLower(strings.TrimSpace(slug)))
}

// progressCachePattern matches every cached course of one student. The PRN
// is escaped so glob characters in it match literally.
func progressCachePattern(prn string) string {
	return fmt.Sprintf("progress:%s:*", globEscaper.Replace(strings.TrimSpace(prn)))
}

var globEscaper = strings.NewReplacer(`\`, `\\`, "*", `\*`, "?", `\?`, "[", `\[`, "]", `\]`)
