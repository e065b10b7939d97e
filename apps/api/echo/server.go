package echoapi

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/rafidain/schoollink/core"
	"github.com/rafidain/schoollink/core/chat"
	"github.com/rafidain/schoollink/core/school"
	"github.com/rafidain/schoollink/core/user"
)

type (
	// SchoolService is the data-access surface the API needs.
	SchoolService interface {
		user.Service
		GenerateID() string
		GetStudentsForParent(parentID string) []school.Student
		GetAllStudents() []school.Student
		GetStudentByID(id string) (school.Student, bool)
		GetGradesForStudent(studentID string) []school.GradeItem
		GetInvoicesForStudent(studentID string) []school.Invoice
		GetReportsForStudent(studentID string) []school.ReportCard
		GetTeachers() []school.Teacher
		GetTeacherByID(id string) (school.Teacher, bool)
		GetClassesForTeacher(teacherID string) []school.ClassSession
		ClassForTeacher(teacherID, classID string) (school.ClassSession, error)
		GetAttendance(classID, date string) (school.AttendanceRecords, bool)
		SaveAttendance(ctx context.Context, classID, date string, records school.AttendanceRecords) error
		GetAnnouncements(role user.Role) []school.Announcement
		GetMessages(userID, otherID string) []school.Message
	}

	Deps struct {
		Conf       *core.Config
		Logger     core.Logger
		School     SchoolService
		Messenger  *chat.Messenger
		Auth       *Authenticator
		Validate   *validator.Validate
		Translator ut.Translator
	}

	Server struct {
		deps     *Deps
		app      *echo.Echo
		errors   chan error
		shutdown chan os.Signal
	}
)

var _ http.Handler = (*Server)(nil)

func NewServer(deps *Deps) *Server {
	s := &Server{
		deps:     deps,
		app:      echo.New(),
		errors:   make(chan error, 1),
		shutdown: make(chan os.Signal, 1),
	}
	signal.Notify(s.shutdown, os.Interrupt, syscall.SIGTERM)
	s.setup()
	return s
}

func (s *Server) setup() {
	conf := s.deps.Conf

	s.app.HideBanner = true
	s.app.Pre(middleware.RemoveTrailingSlash())
	if !conf.Server.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.deps.Logger, s.deps.Translator, s.signalShutdown)
	s.app.Debug = conf.Debug

	s.app.GET("/", home)

	v1 := s.app.Group("/v1")
	jwt := s.deps.Auth.Middleware()

	registerUserAPI(v1, jwt, s.deps)
	registerStudentAPI(v1, jwt, s.deps)
	registerTeacherAPI(v1, jwt, s.deps)
	registerClassAPI(v1, jwt, s.deps)
	registerAnnouncementAPI(v1, jwt, s.deps)
	registerMessageAPI(v1, jwt, s.deps)
}

// Start blocks serving requests. Startup failures are reported on Errors.
func (s *Server) Start() {
	if err := s.app.Start(s.deps.Conf.Server.Addr); err != nil && err != http.ErrServerClosed {
		s.errors <- err
	}
}

func (s *Server) Shutdown(ctx context.Context) error {
	signal.Stop(s.shutdown)
	return s.app.Shutdown(ctx)
}

func (s *Server) Close() error {
	return s.app.Close()
}

func (s *Server) Errors() <-chan error {
	return s.errors
}

func (s *Server) ShutdownSignal() <-chan os.Signal {
	return s.shutdown
}

func (s *Server) signalShutdown() {
	select {
	case s.shutdown <- syscall.SIGTERM:
	default:
	}
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to SchoolLink API!")
}
