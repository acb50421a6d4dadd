package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/Cyborg-Robotics-Academy-Pvt-Ltd/cyborg-robotics-new-sub000/internal/dto"
	appErrors "github.com/Cyborg-Robotics-Academy-Pvt-Ltd/cyborg-robotics-new-sub000/pkg/errors"
	"github.com/Cyborg-Robotics-Academy-Pvt-Ltd/cyborg-robotics-new-sub000/pkg/export"
)

type progressSource interface {
	Progress(ctx context.Context, prn, slug string) (*dto.CourseProgress, error)
}

type documentRenderer interface {
	Render(doc export.Document) ([]byte, error)
}

// ReportFile is a rendered progress report.
type ReportFile struct {
	Filename    string
	ContentType string
	Body        []byte
}

// ReportService renders course progress as a printable PDF.
type ReportService struct {
	progress progressSource
	renderer documentRenderer
	logger   *zap.Logger
}

// NewReportService constructs the report service.
func NewReportService(progress progressSource, renderer documentRenderer, logger *zap.Logger) *ReportService {
	if renderer == nil {
		renderer = export.NewPDFExporter()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{progress: progress, renderer: renderer, logger: logger}
}

// Render builds the PDF report for a student's course.
func (s *ReportService) Render(ctx context.Context, prn, slug string) (*ReportFile, error) {
	payload, err := s.progress.Progress(ctx, prn, slug)
	if err != nil {
		return nil, err
	}

	body, err := s.renderer.Render(progressDocument(payload))
	if err != nil {
		s.logger.Error("progress report render failed", zap.String("prn", prn), zap.String("slug", slug), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render progress report")
	}
	return &ReportFile{
		Filename:    reportFilename(payload),
		ContentType: "application/pdf",
		Body:        body,
	}, nil
}

func progressDocument(p *dto.CourseProgress) export.Document {
	status := "In progress"
	certificate := "No"
	if p.Enrollment != nil {
		if p.Enrollment.Completed {
			status = "Completed"
		}
		if p.Enrollment.Certificate {
			certificate = "Yes"
		}
	} else {
		status = "Not enrolled"
	}

	doc := export.Document{
		Title:    "Course Progress Report",
		Subtitle: fmt.Sprintf("%s (%s)", p.StudentName, p.PrnNumber),
		Fields: []export.Field{
			{Label: "Course", Value: p.Course.Display},
			{Label: "Status", Value: status},
			{Label: "Assigned classes", Value: p.AssignedClasses},
			{Label: "Completed classes", Value: strconv.Itoa(p.CompletedCount)},
			{Label: "Remaining classes", Value: strconv.Itoa(p.RemainingClasses)},
			{Label: "Certificate", Value: certificate},
		},
	}
	if p.NextCourse != "" {
		doc.Fields = append(doc.Fields, export.Field{Label: "Next course", Value: p.NextCourse})
	}

	tasks := export.Dataset{Title: "Completed Tasks", Headers: []string{"#", "Task", "Date"}}
	for i, task := range p.CompletedTasks {
		tasks.Rows = append(tasks.Rows, map[string]string{
			"#":    strconv.Itoa(i + 1),
			"Task": task.Task.Task,
			"Date": task.DisplayDate,
		})
	}
	statuses := export.Dataset{Title: "Task Status", Headers: []string{"Status", "Tasks"}}
	for _, entry := range p.StatusData {
		statuses.Rows = append(statuses.Rows, map[string]string{"Status": entry.Name, "Tasks": strconv.Itoa(entry.Value)})
	}
	doc.Tables = []export.Dataset{tasks, statuses}
	return doc
}

func reportFilename(p *dto.CourseProgress) string {
	course := strings.ToLower(strings.Join(strings.Fields(p.Course.Display), "-"))
	if course == "" {
		course = "course"
	}
	return fmt.Sprintf("progress-%s-%s.pdf", p.PrnNumber, course)
}
