package service

import (
	"context"
	"encoding/json"
	"errors"
	"path"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Cyborg-Robotics-Academy-Pvt-Ltd/cyborg-robotics-new-sub000/internal/dto"
	"github.com/Cyborg-Robotics-Academy-Pvt-Ltd/cyborg-robotics-new-sub000/internal/models"
	"github.com/Cyborg-Robotics-Academy-Pvt-Ltd/cyborg-robotics-new-sub000/internal/progress"
	"github.com/Cyborg-Robotics-Academy-Pvt-Ltd/cyborg-robotics-new-sub000/internal/repository"
	appErrors "github.com/Cyborg-Robotics-Academy-Pvt-Ltd/cyborg-robotics-new-sub000/pkg/errors"
)

type fakeStudentStore struct {
	students map[string]*models.Student
	writeErr error
	writes   []string
	summary  []models.StudentSummary
	filter   models.StudentFilter
}

func newFakeStudentStore(students ...*models.Student) *fakeStudentStore {
	store := &fakeStudentStore{students: map[string]*models.Student{}}
	for _, s := range students {
		store.students[s.PrnNumber] = s
	}
	return store
}

func (f *fakeStudentStore) FindByPRN(_ context.Context, prn string) (*models.Student, error) {
	s, ok := f.students[prn]
	if !ok {
		return nil, repository.ErrStudentNotFound
	}
	clone := *s
	clone.Tasks = append([]models.Task(nil), s.Tasks...)
	clone.Courses = append([]models.Enrollment(nil), s.Courses...)
	return &clone, nil
}

func (f *fakeStudentStore) List(_ context.Context, filter models.StudentFilter) ([]models.StudentSummary, int, error) {
	f.filter = filter
	return f.summary, len(f.summary), nil
}

func (f *fakeStudentStore) byID(id string) *models.Student {
	for _, s := range f.students {
		if s.ID == id {
			return s
		}
	}
	return nil
}

func (f *fakeStudentStore) ReplaceCourses(_ context.Context, id string, courses []models.Enrollment) error {
	f.writes = append(f.writes, "courses")
	if f.writeErr != nil {
		return f.writeErr
	}
	f.byID(id).Courses = append([]models.Enrollment(nil), courses...)
	return nil
}

func (f *fakeStudentStore) ReplaceTasks(_ context.Context, id string, tasks []models.Task) error {
	f.writes = append(f.writes, "tasks")
	if f.writeErr != nil {
		return f.writeErr
	}
	f.byID(id).Tasks = append([]models.Task(nil), tasks...)
	return nil
}

func (f *fakeStudentStore) SetNextCourse(_ context.Context, id string, nextCourse string) error {
	f.writes = append(f.writes, "nextCourse")
	if f.writeErr != nil {
		return f.writeErr
	}
	f.byID(id).NextCourse = nextCourse
	return nil
}

type fakeLedger struct {
	events []*models.CompletionEvent
}

func (f *fakeLedger) Create(_ context.Context, event *models.CompletionEvent) error {
	event.ID = "evt-" + string(rune('a'+len(f.events)))
	copied := *event
	f.events = append(f.events, &copied)
	return nil
}

func (f *fakeLedger) UpdateState(_ context.Context, id string, state models.MutationState, errMsg *string) error {
	for _, e := range f.events {
		if e.ID == id {
			e.State = state
			e.Error = errMsg
		}
	}
	return nil
}

type memoryCacheRepo struct {
	items map[string][]byte
}

func newMemoryCacheRepo() *memoryCacheRepo {
	return &memoryCacheRepo{items: map[string][]byte{}}
}

func (m *memoryCacheRepo) Get(_ context.Context, key string, dest interface{}) error {
	raw, ok := m.items[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *memoryCacheRepo) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.items[key] = raw
	return nil
}

func (m *memoryCacheRepo) DeleteByPattern(_ context.Context, pattern string) error {
	for key := range m.items {
		if ok, _ := path.Match(pattern, key); ok {
			delete(m.items, key)
		}
	}
	return nil
}

func printingStudent() *models.Student {
	student := &models.Student{
		ID:        "s1",
		PrnNumber: "PRN-001",
		Name:      "Asha Rao",
		Courses:   []models.Enrollment{{Name: "3D Printing", Level: "1", ClassNumber: "5"}},
	}
	for i := 0; i < 5; i++ {
		student.Tasks = append(student.Tasks, models.Task{Course: "3D Printing|1", Task: "session", DateTime: "2024-03-05", Status: "complete"})
	}
	return student
}

func newTestProgressService(store studentStore, ledger completionLedger, cacheRepo CacheRepository) *ProgressService {
	reconciler := progress.NewReconciler(nil, progress.NewDateLabeler("UTC", "", ""))
	cfg := ProgressServiceConfig{Metrics: NewMetricsService(), Logger: zap.NewNop()}
	if ledger != nil {
		cfg.Ledger = ledger
	}
	cfg.Cache = NewCacheService(cacheRepo, nil, time.Minute, zap.NewNop(), cacheRepo != nil)
	return NewProgressService(store, reconciler, cfg)
}

func TestProgressServiceAutoCompletesWhenQuotaReached(t *testing.T) {
	store := newFakeStudentStore(printingStudent())
	ledger := &fakeLedger{}
	svc := newTestProgressService(store, ledger, nil)

	payload, err := svc.Progress(context.Background(), "PRN-001", "3d-printing-level-1")
	require.NoError(t, err)

	assert.Equal(t, "5", payload.AssignedClasses)
	assert.Len(t, payload.CompletedTasks, 5)
	assert.Equal(t, 5, payload.CompletedCount)
	assert.Equal(t, 0, payload.RemainingClasses)
	require.NotNil(t, payload.Enrollment)
	assert.True(t, payload.Enrollment.Completed)
	require.NotNil(t, payload.AutoCompletion)
	assert.Equal(t, models.MutationStateCommitted, payload.AutoCompletion.State)
	assert.Equal(t, "3D Printing Level 1", payload.Course.Display)
	assert.Equal(t, "3/5/2024, 12:00:00 AM", payload.CompletedTasks[0].DisplayDate)

	assert.True(t, store.students["PRN-001"].Courses[0].Completed)
	require.Len(t, ledger.events, 1)
	assert.Equal(t, models.CompletionEventAutoComplete, ledger.events[0].Kind)
	assert.Equal(t, models.MutationStateCommitted, ledger.events[0].State)
	assert.Equal(t, 5, ledger.events[0].CompletedTasks)
	assert.Equal(t, uint64(1), svc.metrics.Snapshot().AutoCompletions)
}

func TestProgressServiceSecondViewDoesNotWriteAgain(t *testing.T) {
	store := newFakeStudentStore(printingStudent())
	svc := newTestProgressService(store, nil, nil)

	_, err := svc.Progress(context.Background(), "PRN-001", "3d-printing-level-1")
	require.NoError(t, err)
	payload, err := svc.Progress(context.Background(), "PRN-001", "3d-printing-level-1")
	require.NoError(t, err)

	assert.Nil(t, payload.AutoCompletion)
	assert.Equal(t, []string{"courses"}, store.writes)
}

func TestProgressServiceRevertsOnWriteFailure(t *testing.T) {
	store := newFakeStudentStore(printingStudent())
	store.writeErr = errors.New("connection reset")
	ledger := &fakeLedger{}
	cacheRepo := newMemoryCacheRepo()
	svc := newTestProgressService(store, ledger, cacheRepo)

	payload, err := svc.Progress(context.Background(), "PRN-001", "3d-printing-level-1")
	require.NoError(t, err)

	require.NotNil(t, payload.AutoCompletion)
	assert.Equal(t, models.MutationStateFailed, payload.AutoCompletion.State)
	assert.Contains(t, payload.AutoCompletion.Error, "connection reset")
	assert.False(t, payload.Enrollment.Completed)
	assert.False(t, store.students["PRN-001"].Courses[0].Completed)
	assert.Empty(t, cacheRepo.items)

	require.Len(t, ledger.events, 1)
	assert.Equal(t, models.MutationStateFailed, ledger.events[0].State)
	require.NotNil(t, ledger.events[0].Error)
	assert.Equal(t, uint64(1), svc.metrics.Snapshot().WriteFailures)
}

func TestProgressServiceUsesCache(t *testing.T) {
	store := newFakeStudentStore(printingStudent())
	cacheRepo := newMemoryCacheRepo()
	svc := newTestProgressService(store, nil, cacheRepo)

	_, hit, err := svc.ProgressCached(context.Background(), "PRN-001", "3d-printing-level-1")
	require.NoError(t, err)
	assert.False(t, hit)

	payload, hit, err := svc.ProgressCached(context.Background(), "PRN-001", "3D-Printing-Level-1")
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, 5, payload.CompletedCount)
	assert.True(t, payload.Enrollment.Completed)
}

func TestProgressServiceRechecksStaleCachedQuota(t *testing.T) {
	store := newFakeStudentStore(printingStudent())
	cacheRepo := newMemoryCacheRepo()
	svc := newTestProgressService(store, nil, cacheRepo)

	stale := &dto.CourseProgress{
		PrnNumber:      "PRN-001",
		Enrollment:     &models.Enrollment{Name: "3D Printing", Level: "1", ClassNumber: "5"},
		CompletedCount: 5,
	}
	svc.cache.Set(context.Background(), progressCacheKey("PRN-001", "3d-printing-level-1"), stale, 0)

	payload, hit, err := svc.ProgressCached(context.Background(), "PRN-001", "3d-printing-level-1")
	require.NoError(t, err)
	assert.False(t, hit)
	require.NotNil(t, payload.AutoCompletion)
	assert.Equal(t, models.MutationStateCommitted, payload.AutoCompletion.State)
	assert.True(t, store.students["PRN-001"].Courses[0].Completed)
}

func TestProgressCachePatternEscapesGlob(t *testing.T) {
	pattern := progressCachePattern(" PRN*1 ")
	assert.Equal(t, `progress:PRN\*1:*`, pattern)

	own, err := path.Match(pattern, "progress:PRN*1:python")
	require.NoError(t, err)
	assert.True(t, own)
	other, err := path.Match(pattern, "progress:PRN-001-1:python")
	require.NoError(t, err)
	assert.False(t, other)

	assert.Equal(t, `progress:A\?\[b\]:*`, progressCachePattern("A?[b]"))
}

func TestProgressServiceStudentNotFound(t *testing.T) {
	svc := newTestProgressService(newFakeStudentStore(), nil, nil)

	_, err := svc.Progress(context.Background(), "missing", "python-level-1")
	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrStudentNotFound)
	assert.Equal(t, 404, appErrors.FromError(err).Status)
}

func TestProgressServiceRejectsEmptySlug(t *testing.T) {
	svc := newTestProgressService(newFakeStudentStore(printingStudent()), nil, nil)

	_, err := svc.Progress(context.Background(), "PRN-001", " ")
	assert.ErrorIs(t, err, appErrors.ErrValidation)
}

func TestProgressServiceNotEnrolledStillReportsFallbackTasks(t *testing.T) {
	student := &models.Student{ID: "s2", PrnNumber: "PRN-002", Tasks: []models.Task{{Course: "Java", Status: "complete"}}}
	svc := newTestProgressService(newFakeStudentStore(student), nil, nil)

	payload, err := svc.Progress(context.Background(), "PRN-002", "python-level-1")
	require.NoError(t, err)
	assert.Nil(t, payload.Enrollment)
	assert.True(t, payload.AllCourseTasks)
	assert.Equal(t, 1, payload.CompletedCount)
	assert.Equal(t, progress.NotAvailable, payload.AssignedClasses)
	assert.Nil(t, payload.AutoCompletion)
}

func TestSetTaskStatusTriggersAutoComplete(t *testing.T) {
	student := printingStudent()
	student.Tasks[4].Status = "ongoing"
	store := newFakeStudentStore(student)
	ledger := &fakeLedger{}
	svc := newTestProgressService(store, ledger, nil)

	payload, err := svc.SetTaskStatus(context.Background(), "PRN-001", 4, dto.UpdateTaskStatusRequest{Status: "Complete", Slug: "3d-printing-level-1"})
	require.NoError(t, err)

	assert.Equal(t, "complete", store.students["PRN-001"].Tasks[4].Status)
	assert.True(t, payload.Enrollment.Completed)
	require.NotNil(t, payload.AutoCompletion)
	assert.Equal(t, models.MutationStateCommitted, payload.AutoCompletion.State)
	assert.Equal(t, []string{"tasks", "courses"}, store.writes)
	require.Len(t, ledger.events, 2)
	assert.Equal(t, models.CompletionEventTaskStatus, ledger.events[0].Kind)
	assert.Equal(t, models.CompletionEventAutoComplete, ledger.events[1].Kind)
}

func TestSetTaskStatusWriteFailure(t *testing.T) {
	student := printingStudent()
	student.Tasks[4].Status = "ongoing"
	store := newFakeStudentStore(student)
	store.writeErr = errors.New("timeout")
	svc := newTestProgressService(store, nil, nil)

	_, err := svc.SetTaskStatus(context.Background(), "PRN-001", 4, dto.UpdateTaskStatusRequest{Status: "complete", Slug: "3d-printing-level-1"})
	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrWriteFailed)
	assert.Equal(t, "ongoing", store.students["PRN-001"].Tasks[4].Status)
}

func TestSetTaskStatusValidation(t *testing.T) {
	svc := newTestProgressService(newFakeStudentStore(printingStudent()), nil, nil)

	_, err := svc.SetTaskStatus(context.Background(), "PRN-001", 0, dto.UpdateTaskStatusRequest{Status: "done", Slug: "3d-printing-level-1"})
	assert.ErrorIs(t, err, appErrors.ErrValidation)

	_, err = svc.SetTaskStatus(context.Background(), "PRN-001", 9, dto.UpdateTaskStatusRequest{Status: "complete", Slug: "3d-printing-level-1"})
	assert.ErrorIs(t, err, appErrors.ErrValidation)
}

func TestSetCertificate(t *testing.T) {
	student := printingStudent()
	student.Tasks = nil
	store := newFakeStudentStore(student)
	svc := newTestProgressService(store, nil, nil)
	issued := true

	payload, err := svc.SetCertificate(context.Background(), "PRN-001", "3d-printing-level-1", dto.UpdateCertificateRequest{Certificate: &issued})
	require.NoError(t, err)
	assert.True(t, payload.Enrollment.Certificate)
	assert.True(t, store.students["PRN-001"].Courses[0].Certificate)

	_, err = svc.SetCertificate(context.Background(), "PRN-001", "python-level-1", dto.UpdateCertificateRequest{Certificate: &issued})
	assert.ErrorIs(t, err, appErrors.ErrNotEnrolled)

	_, err = svc.SetCertificate(context.Background(), "PRN-001", "3d-printing-level-1", dto.UpdateCertificateRequest{})
	assert.ErrorIs(t, err, appErrors.ErrValidation)
}

func TestUpdateNextCourse(t *testing.T) {
	store := newFakeStudentStore(printingStudent())
	svc := newTestProgressService(store, nil, nil)

	student, err := svc.UpdateNextCourse(context.Background(), "PRN-001", dto.UpdateNextCourseRequest{NextCourse: " Python Level 1 "})
	require.NoError(t, err)
	assert.Equal(t, "Python Level 1", student.NextCourse)
	assert.Equal(t, "Python Level 1", store.students["PRN-001"].NextCourse)

	store.writeErr = errors.New("down")
	_, err = svc.UpdateNextCourse(context.Background(), "PRN-001", dto.UpdateNextCourseRequest{NextCourse: "Java"})
	assert.ErrorIs(t, err, appErrors.ErrWriteFailed)
	assert.Equal(t, "Python Level 1", store.students["PRN-001"].NextCourse)
}

func TestReconcileSweepsEveryEnrollment(t *testing.T) {
	student := printingStudent()
	student.Courses = append(student.Courses, models.Enrollment{Name: "Python", Level: "Beginner", ClassNumber: "2"})
	student.Tasks = append(student.Tasks,
		models.Task{Course: "Python Level 1", Status: "complete"},
		models.Task{Course: "Python|1", Status: "complete"},
	)
	store := newFakeStudentStore(student)
	svc := newTestProgressService(store, nil, nil)

	report, err := svc.Reconcile(context.Background(), "PRN-001")
	require.NoError(t, err)
	assert.True(t, report.Updated)
	require.Len(t, report.Courses, 2)
	assert.True(t, report.Courses[0].AutoCompleted)
	assert.True(t, report.Courses[1].AutoCompleted)
	assert.True(t, store.students["PRN-001"].Courses[0].Completed)
	assert.True(t, store.students["PRN-001"].Courses[1].Completed)

	report, err = svc.Reconcile(context.Background(), "PRN-001")
	require.NoError(t, err)
	assert.False(t, report.Updated)
}

func TestReconcileSkipsEnrollmentWithoutOwnTasks(t *testing.T) {
	student := &models.Student{
		ID:        "s2",
		PrnNumber: "PRN-002",
		Courses: []models.Enrollment{
			{Name: "Python", Level: "1", ClassNumber: "3"},
			{Name: "Java", Level: "1", ClassNumber: "3"},
		},
	}
	for i := 0; i < 3; i++ {
		student.Tasks = append(student.Tasks, models.Task{Course: "Python|1", Status: "complete"})
	}
	store := newFakeStudentStore(student)
	svc := newTestProgressService(store, nil, nil)

	report, err := svc.Reconcile(context.Background(), "PRN-002")
	require.NoError(t, err)
	require.Len(t, report.Courses, 2)
	assert.True(t, report.Courses[0].AutoCompleted)
	assert.False(t, report.Courses[0].NoCourseTasks)
	assert.Equal(t, "Java", report.Courses[1].Name)
	assert.False(t, report.Courses[1].AutoCompleted)
	assert.True(t, report.Courses[1].NoCourseTasks)
	assert.Equal(t, 0, report.Courses[1].CompletedCount)

	stored := store.students["PRN-002"]
	assert.True(t, stored.Courses[0].Completed)
	assert.False(t, stored.Courses[1].Completed)
}

func TestProgressServiceList(t *testing.T) {
	store := newFakeStudentStore()
	store.summary = []models.StudentSummary{{PrnNumber: "PRN-001"}}
	svc := newTestProgressService(store, nil, nil)

	students, pagination, err := svc.List(context.Background(), models.StudentFilter{PageSize: 500})
	require.NoError(t, err)
	assert.Len(t, students, 1)
	assert.Equal(t, 1, pagination.Page)
	assert.Equal(t, 100, pagination.PageSize)
	assert.Equal(t, 1, pagination.TotalCount)
}
