package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/edudesk/school-api/internal/models"
	appErrors "github.com/edudesk/school-api/pkg/errors"
	"github.com/edudesk/school-api/pkg/export"
)

type reportStudentRepository interface {
	FindByID(ctx context.Context, id string) (*models.StudentDetail, error)
}

type reportAttendanceRepository interface {
	ListByStudent(ctx context.Context, studentID string) ([]models.Attendance, error)
}

type reportFeeRepository interface {
	ListByStudent(ctx context.Context, studentID string) ([]models.FeeDetail, error)
}

type reportExamRepository interface {
	ResultsByStudent(ctx context.Context, studentID string) ([]models.ExamResultDetail, error)
}

// ReportService assembles the consolidated per-student academic report
// and renders its export formats. Assembled reports are cached; every
// write to the underlying ledgers invalidates the student's entry.
type ReportService struct {
	students   reportStudentRepository
	attendance reportAttendanceRepository
	fees       reportFeeRepository
	exams      reportExamRepository
	cache      *CacheService
	cacheTTL   time.Duration
	csv        *export.CSVExporter
	pdf        *export.PDFExporter
	logger     *zap.Logger
}

// NewReportService constructs the report service.
func NewReportService(
	students reportStudentRepository,
	attendance reportAttendanceRepository,
	fees reportFeeRepository,
	exams reportExamRepository,
	cache *CacheService,
	cacheTTL time.Duration,
	logger *zap.Logger,
) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{
		students:   students,
		attendance: attendance,
		fees:       fees,
		exams:      exams,
		cache:      cache,
		cacheTTL:   cacheTTL,
		csv:        export.NewCSVExporter(),
		pdf:        export.NewPDFExporter(),
		logger:     logger,
	}
}

func studentReportKey(studentID string) string {
	return "report:student:" + studentID
}

func studentReportPattern(studentID string) string {
	return studentReportKey(studentID) + "*"
}

// AcademicReport builds the consolidated report for one student.
func (s *ReportService) AcademicReport(ctx context.Context, studentID string) (*models.AcademicReport, error) {
	var cached models.AcademicReport
	if hit, _ := s.cache.Get(ctx, studentReportKey(studentID), &cached); hit {
		return &cached, nil
	}

	student, err := s.students.FindByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	decorateStudent(student)

	attendance, err := s.attendance.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load attendance")
	}

	fees, err := s.fees.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load fees")
	}

	results, err := s.exams.ResultsByStudent(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load exam results")
	}
	for i := range results {
		decorateExamResult(&results[i])
	}

	report := &models.AcademicReport{
		Student:           *student,
		AttendanceSummary: summarizeAttendance(attendance),
		FeeSummary:        summarizeFees(fees, time.Now().UTC()),
		ExamResults:       results,
		OverallGrade:      overallGrade(results),
	}

	if err := s.cache.Set(ctx, studentReportKey(studentID), report, s.cacheTTL); err != nil {
		s.logger.Warn("failed to cache report", zap.String("student", studentID), zap.Error(err))
	}

	return report, nil
}

// ExportReport renders the consolidated report as CSV or PDF. The export
// flattens exam results into the tabular body.
func (s *ReportService) ExportReport(ctx context.Context, studentID, format string) ([]byte, string, error) {
	report, err := s.AcademicReport(ctx, studentID)
	if err != nil {
		return nil, "", err
	}

	data := export.Dataset{
		Headers: []string{"Exam", "Subject", "Marks", "Max Marks", "Percentage", "Grade"},
		Summary: []export.SummaryItem{
			{Label: "Student", Value: fmt.Sprintf("%s %s (%s)", report.Student.FirstName, report.Student.LastName, report.Student.AdmissionNumber)},
			{Label: "Attendance", Value: strconv.FormatFloat(report.AttendanceSummary.AttendancePercentage, 'f', 2, 64) + "%"},
			{Label: "Overall Grade", Value: report.OverallGrade},
			{Label: "Pending Fees", Value: strconv.FormatFloat(report.FeeSummary.PendingFees, 'f', 2, 64)},
		},
	}
	for _, r := range report.ExamResults {
		data.Rows = append(data.Rows, map[string]string{
			"Exam":       r.ExamName,
			"Subject":    r.SubjectName,
			"Marks":      strconv.FormatFloat(r.MarksObtained, 'f', 2, 64),
			"Max Marks":  strconv.FormatFloat(r.MaxMarks, 'f', 2, 64),
			"Percentage": strconv.FormatFloat(r.Percentage, 'f', 2, 64),
			"Grade":      r.Grade,
		})
	}

	switch format {
	case "csv":
		payload, err := s.csv.Render(data)
		if err != nil {
			return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
		}
		return payload, "text/csv", nil
	case "pdf":
		title := fmt.Sprintf("Academic Report - %s %s", report.Student.FirstName, report.Student.LastName)
		payload, err := s.pdf.Render(data, title)
		if err != nil {
			return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
		}
		return payload, "application/pdf", nil
	default:
		return nil, "", appErrors.Validation(map[string]string{"format": "must be csv or pdf"})
	}
}

func summarizeAttendance(records []models.Attendance) models.AttendanceSummary {
	summary := models.AttendanceSummary{
		MonthlyReport: map[string]models.MonthlyAttendance{},
	}
	for _, rec := range records {
		summary.TotalDays++
		month := rec.Date.Format("2006-01")
		monthly := summary.MonthlyReport[month]
		monthly.TotalDays++
		switch rec.Status {
		case models.AttendancePresent:
			summary.PresentDays++
			monthly.PresentDays++
		case models.AttendanceAbsent:
			summary.AbsentDays++
			monthly.AbsentDays++
		case models.AttendanceLate:
			summary.LateDays++
			monthly.LateDays++
		case models.AttendanceExcused:
			summary.ExcusedDays++
			monthly.ExcusedDays++
		}
		summary.MonthlyReport[month] = monthly
	}
	summary.AttendancePercentage = AttendancePercentage(summary.PresentDays, summary.TotalDays)
	return summary
}

func summarizeFees(fees []models.FeeDetail, now time.Time) models.FeeSummary {
	summary := models.FeeSummary{PaymentHistory: []models.FeeDetail{}}
	for i := range fees {
		decorateFee(&fees[i], now)
		fee := fees[i]
		summary.TotalFees += fee.Amount
		switch {
		case fee.Status == models.FeePaid:
			summary.PaidFees += fee.Amount
			summary.PaymentHistory = append(summary.PaymentHistory, fee)
		case fee.Status == models.FeeOverdue || fee.IsOverdue:
			summary.OverdueFees += fee.Amount
		default:
			summary.PendingFees += fee.Amount
		}
	}
	return summary
}

func overallGrade(results []models.ExamResultDetail) string {
	if len(results) == 0 {
		return "N/A"
	}
	var obtained, max float64
	for _, r := range results {
		obtained += r.MarksObtained
		max += r.MaxMarks
	}
	return GradeFor(Percentage(obtained, max))
}
