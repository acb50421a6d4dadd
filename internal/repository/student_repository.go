package repository

import (
	"context"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Cyborg-Robotics-Academy-Pvt-Ltd/cyborg-robotics-new-sub000/internal/models"
)

// ErrStudentNotFound is returned when no document matches a lookup.
var ErrStudentNotFound = errors.New("student not found")

type queryObserver interface {
	ObserveStoreQuery(label string, duration time.Duration)
}

// StudentRepository reads and writes student documents in MongoDB.
// Writes replace whole top-level fields; there is no version check, so
// concurrent editors overwrite each other.
type StudentRepository struct {
	coll    *mongo.Collection
	metrics queryObserver
}

// NewStudentRepository constructs a StudentRepository.
func NewStudentRepository(coll *mongo.Collection, metrics queryObserver) *StudentRepository {
	return &StudentRepository{coll: coll, metrics: metrics}
}

// FindByPRN returns the first student whose PrnNumber equals prn.
func (r *StudentRepository) FindByPRN(ctx context.Context, prn string) (*models.Student, error) {
	defer r.observe("find_by_prn", time.Now())

	var doc studentDocument
	err := r.coll.FindOne(ctx, bson.M{"PrnNumber": prn}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrStudentNotFound
		}
		return nil, fmt.Errorf("find student %s: %w", prn, err)
	}
	return doc.toModel(), nil
}

// List returns students matching the filter ordered by PrnNumber.
func (r *StudentRepository) List(ctx context.Context, filter models.StudentFilter) ([]models.StudentSummary, int, error) {
	defer r.observe("list_students", time.Now())

	query := bson.M{}
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(search), Options: "i"}
		query["$or"] = bson.A{
			bson.M{"PrnNumber": pattern},
			bson.M{"name": pattern},
		}
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "PrnNumber", Value: 1}}).
		SetSkip(int64((page - 1) * size)).
		SetLimit(int64(size))

	cursor, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list students: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []studentDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, 0, fmt.Errorf("decode students: %w", err)
	}

	total, err := r.coll.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("count students: %w", err)
	}

	summaries := make([]models.StudentSummary, 0, len(docs))
	for _, doc := range docs {
		student := doc.toModel()
		summaries = append(summaries, models.StudentSummary{
			ID:          student.ID,
			PrnNumber:   student.PrnNumber,
			Name:        student.Name,
			CourseCount: len(student.Courses),
			TaskCount:   len(student.Tasks),
		})
	}
	return summaries, int(total), nil
}

// ReplaceCourses overwrites the courses array of a student. Each element is
// merged into the element it was read from, so fields this service does not
// model survive the write.
func (r *StudentRepository) ReplaceCourses(ctx context.Context, id string, courses []models.Enrollment) error {
	records := make(bson.A, 0, len(courses))
	for _, course := range courses {
		records = append(records, enrollmentRecord(course))
	}
	return r.setField(ctx, "replace_courses", id, "courses", records)
}

// ReplaceTasks overwrites the tasks array of a student, merging like
// ReplaceCourses.
func (r *StudentRepository) ReplaceTasks(ctx context.Context, id string, tasks []models.Task) error {
	records := make(bson.A, 0, len(tasks))
	for _, task := range tasks {
		records = append(records, taskRecord(task))
	}
	return r.setField(ctx, "replace_tasks", id, "tasks", records)
}

// SetNextCourse overwrites the nextCourse suggestion of a student.
func (r *StudentRepository) SetNextCourse(ctx context.Context, id string, nextCourse string) error {
	return r.setField(ctx, "set_next_course", id, "nextCourse", nextCourse)
}

func (r *StudentRepository) setField(ctx context.Context, label, id, field string, value interface{}) error {
	defer r.observe(label, time.Now())

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": documentID(id)}, bson.M{"$set": bson.M{field: value}})
	if err != nil {
		return fmt.Errorf("update %s of student %s: %w", field, id, err)
	}
	if res.MatchedCount == 0 {
		return ErrStudentNotFound
	}
	return nil
}

func (r *StudentRepository) observe(label string, start time.Time) {
	if r.metrics == nil {
		return
	}
	r.metrics.ObserveStoreQuery(label, time.Since(start))
}

// documentID maps a string id back to the stored _id type.
func documentID(id string) interface{} {
	if oid, err := primitive.ObjectIDFromHex(id); err == nil {
		return oid
	}
	return id
}

// studentDocument mirrors the schemaless student document. Loosely typed
// fields decode into interface{} and are coerced in toModel. Array elements
// stay raw so writes can carry unmodeled fields back.
type studentDocument struct {
	ID                 interface{} `bson:"_id"`
	PrnNumber          interface{} `bson:"PrnNumber"`
	Name               interface{} `bson:"name"`
	Email              interface{} `bson:"email"`
	Phone              interface{} `bson:"phone"`
	Tasks              []bson.D    `bson:"tasks"`
	Courses            []bson.D    `bson:"courses"`
	NextCourse         interface{} `bson:"nextCourse"`
	CourseClassNumbers bson.D      `bson:"courseClassNumbers"`
}

// toModel is the decode-with-defaults boundary.
func (d studentDocument) toModel() *models.Student {
	student := &models.Student{
		ID:         asString(d.ID),
		PrnNumber:  asString(d.PrnNumber),
		Name:       asString(d.Name),
		Email:      asString(d.Email),
		Phone:      asString(d.Phone),
		NextCourse: asString(d.NextCourse),
		Tasks:      make([]models.Task, 0, len(d.Tasks)),
		Courses:    make([]models.Enrollment, 0, len(d.Courses)),
	}
	for _, t := range d.Tasks {
		student.Tasks = append(student.Tasks, models.Task{
			Course:   asString(lookup(t, "course")),
			Task:     asString(lookup(t, "task")),
			DateTime: asString(lookup(t, "dateTime")),
			Status:   asString(lookup(t, "status")),
			Stored:   t,
		})
	}
	for _, c := range d.Courses {
		student.Courses = append(student.Courses, models.Enrollment{
			Name:        asString(lookup(c, "name")),
			Level:       asString(lookup(c, "level")),
			ClassNumber: asString(lookup(c, "classNumber")),
			Completed:   asBool(lookup(c, "completed")),
			Certificate: asBool(lookup(c, "certificate")),
			Status:      asString(lookup(c, "status")),
			StartDate:   asString(lookup(c, "startDate")),
			Stored:      c,
		})
	}
	if d.CourseClassNumbers != nil {
		student.CourseClassNumbers = make([]models.LegacyClassNumber, 0, len(d.CourseClassNumbers))
		for _, elem := range d.CourseClassNumbers {
			student.CourseClassNumbers = append(student.CourseClassNumbers, models.LegacyClassNumber{
				Label: elem.Key,
				Value: asString(elem.Value),
			})
		}
	}
	return student
}

func lookup(doc bson.D, key string) interface{} {
	for _, elem := range doc {
		if elem.Key == key {
			return elem.Value
		}
	}
	return nil
}

// modeledField is a key this service reads and may change.
type modeledField struct {
	key   string
	value interface{}
}

func enrollmentRecord(e models.Enrollment) bson.D {
	return mergeStored(e.Stored, []modeledField{
		{"name", e.Name},
		{"level", e.Level},
		{"classNumber", e.ClassNumber},
		{"completed", e.Completed},
		{"certificate", e.Certificate},
		{"status", e.Status},
		{"startDate", e.StartDate},
	})
}

func taskRecord(t models.Task) bson.D {
	return mergeStored(t.Stored, []modeledField{
		{"course", t.Course},
		{"task", t.Task},
		{"dateTime", t.DateTime},
		{"status", t.Status},
	})
}

// mergeStored writes modeled fields into the stored element. Unchanged values
// keep their stored type and position; unmodeled keys are copied as is. A
// modeled key missing from storage is added only when it has a non-zero value.
func mergeStored(stored bson.D, fields []modeledField) bson.D {
	out := make(bson.D, 0, len(stored)+len(fields))
	seen := make(map[string]struct{}, len(fields))
	for _, elem := range stored {
		field, ok := findField(fields, elem.Key)
		if !ok {
			out = append(out, elem)
			continue
		}
		seen[elem.Key] = struct{}{}
		if differs(elem.Value, field.value) {
			elem.Value = field.value
		}
		out = append(out, elem)
	}
	for _, field := range fields {
		if _, ok := seen[field.key]; ok || isZero(field.value) {
			continue
		}
		out = append(out, bson.E{Key: field.key, Value: field.value})
	}
	return out
}

func findField(fields []modeledField, key string) (modeledField, bool) {
	for _, field := range fields {
		if field.key == key {
			return field, true
		}
	}
	return modeledField{}, false
}

func differs(stored, value interface{}) bool {
	switch v := value.(type) {
	case bool:
		return asBool(stored) != v
	case string:
		return asString(stored) != v
	default:
		return true
	}
}

func isZero(value interface{}) bool {
	switch v := value.(type) {
	case bool:
		return !v
	case string:
		return v == ""
	default:
		return value == nil
	}
}

func asString(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case int32:
		return strconv.FormatInt(int64(val), 10)
	case int64:
		return strconv.FormatInt(val, 10)
	case int:
		return strconv.Itoa(val)
	case float64:
		if val == math.Trunc(val) && !math.IsInf(val, 0) {
			return strconv.FormatInt(int64(val), 10)
		}
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	case primitive.ObjectID:
		return val.Hex()
	case primitive.DateTime:
		return val.Time().UTC().Format(time.RFC3339)
	default:
		return fmt.Sprint(val)
	}
}

func asBool(v interface{}) bool {
	switch val := v.(type) {
	case bool:
		return val
	case string:
		return strings.EqualFold(strings.TrimSpace(val), "true")
	case int32:
		return val != 0
	case int64:
		return val != 0
	case float64:
		return val != 0
	default:
		return false
	}
}
