package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/edudesk/school-api/internal/middleware"
	"github.com/edudesk/school-api/internal/models"
	"github.com/edudesk/school-api/internal/service"
)

// Handlers bundles every endpoint group for route registration.
type Handlers struct {
	Auth          *AuthHandler
	Students      *StudentHandler
	Teachers      *TeacherHandler
	Classes       *ClassHandler
	ClassSections *ClassSectionHandler
	Subjects      *SubjectHandler
	Attendance    *AttendanceHandler
	Exams         *ExamHandler
	Fees          *FeeHandler
	Dashboard     *DashboardHandler
	Metrics       *service.MetricsService
	Ready         gin.HandlerFunc
}

// RegisterRoutes wires all endpoints onto the engine under the optional
// prefix. Registry writes are restricted to admin and manager roles;
// reads require any valid token.
func RegisterRoutes(r *gin.Engine, prefix string, auth *service.AuthService, h Handlers) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if h.Ready != nil {
		r.GET("/ready", h.Ready)
	}
	if h.Metrics != nil {
		r.GET("/metrics", gin.WrapH(h.Metrics.Handler()))
	}

	root := r.Group(prefix)

	root.POST("/register", h.Auth.Register)
	root.POST("/login", h.Auth.Login)
	root.POST("/refresh", h.Auth.Refresh)

	authed := root.Group("", middleware.JWT(auth))
	writers := middleware.RequireRoles(models.RoleAdmin, models.RoleManager)

	authed.POST("/logout", h.Auth.Logout)
	authed.GET("/me", h.Auth.Me)

	authed.GET("/dashboard", h.Dashboard.Summary)

	authed.GET("/students", h.Students.List)
	authed.POST("/students", writers, h.Students.Create)
	authed.GET("/students/:id", h.Students.Get)
	authed.PUT("/students/:id", writers, h.Students.Update)
	authed.DELETE("/students/:id", writers, h.Students.Delete)
	authed.GET("/students/:id/report", h.Students.Report)
	authed.GET("/students/:id/report/export", h.Students.ExportReport)

	authed.GET("/teachers", h.Teachers.List)
	authed.POST("/teachers", writers, h.Teachers.Create)
	authed.GET("/teachers/:id", h.Teachers.Get)
	authed.PUT("/teachers/:id", writers, h.Teachers.Update)
	authed.DELETE("/teachers/:id", writers, h.Teachers.Delete)

	authed.GET("/classes", h.Classes.ListClasses)
	authed.POST("/classes", writers, h.Classes.CreateClass)
	authed.GET("/classes/:id", h.Classes.GetClass)
	authed.PUT("/classes/:id", writers, h.Classes.UpdateClass)
	authed.DELETE("/classes/:id", writers, h.Classes.DeleteClass)

	authed.GET("/sections", h.Classes.ListSections)
	authed.POST("/sections", writers, h.Classes.CreateSection)
	authed.GET("/sections/:id", h.Classes.GetSection)
	authed.PUT("/sections/:id", writers, h.Classes.UpdateSection)
	authed.DELETE("/sections/:id", writers, h.Classes.DeleteSection)

	authed.GET("/class-sections", h.ClassSections.List)
	authed.POST("/class-sections", writers, h.ClassSections.Create)
	authed.GET("/class-sections/:id", h.ClassSections.Get)
	authed.PUT("/class-sections/:id", writers, h.ClassSections.Update)
	authed.DELETE("/class-sections/:id", writers, h.ClassSections.Delete)

	authed.GET("/subjects", h.Subjects.List)
	authed.POST("/subjects", writers, h.Subjects.Create)
	authed.GET("/subjects/:id", h.Subjects.Get)
	authed.PUT("/subjects/:id", writers, h.Subjects.Update)
	authed.DELETE("/subjects/:id", writers, h.Subjects.Delete)

	authed.POST("/attendance/mark", writers, h.Attendance.Mark)
	authed.GET("/attendance/report", h.Attendance.Report)

	authed.GET("/exams", h.Exams.List)
	authed.POST("/exams", writers, h.Exams.Create)
	authed.GET("/exams/results", h.Exams.Results)
	authed.POST("/exams/results/add", writers, h.Exams.AddResult)
	authed.GET("/exams/:id", h.Exams.Get)
	authed.PUT("/exams/:id", writers, h.Exams.Update)
	authed.DELETE("/exams/:id", writers, h.Exams.Delete)

	authed.GET("/fees", h.Fees.List)
	authed.POST("/fees", writers, h.Fees.Create)
	authed.POST("/fees/payment", writers, h.Fees.Pay)
	authed.GET("/fees/:id", h.Fees.Get)
	authed.PUT("/fees/:id", writers, h.Fees.Update)
	authed.DELETE("/fees/:id", writers, h.Fees.Delete)
}
