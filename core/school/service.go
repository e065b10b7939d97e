package school

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/rafidain/schoollink/core"
	"github.com/rafidain/schoollink/core/user"
)

var ErrClassNotFound = errors.New("class not found")

type (
	// MessagePublisher is notified of every message once it is stored.
	MessagePublisher interface {
		Publish(msg Message)
	}

	Options struct {
		Latency   core.LatencyConfig
		Publisher MessagePublisher  // optional
		Mailer    core.EmailService // optional; absence notices are skipped without it
		Logger    core.Logger       // optional
		Now       func() time.Time  // defaults to time.Now
	}

	// Service owns the in-memory collections and writes every mutation back to the record store.
	// Collections are loaded once, at construction.
	Service struct {
		store     core.RecordStore
		latency   core.LatencyConfig
		publisher MessagePublisher
		mailer    core.EmailService
		logger    core.Logger
		now       func() time.Time

		mu            sync.RWMutex
		users         []user.User
		students      []Student
		messages      []Message
		classes       []ClassSession
		attendance    map[string]AttendanceRecords
		grades        []GradeItem
		invoices      []Invoice
		announcements []Announcement
		teachers      []Teacher
		reports       []ReportCard
	}
)

var _ user.Service = (*Service)(nil)

func NewService(ctx context.Context, store core.RecordStore, opts Options) *Service {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	defaults := DefaultDataset(opts.Now())

	svc := &Service{
		store:     store,
		latency:   opts.Latency,
		publisher: opts.Publisher,
		mailer:    opts.Mailer,
		logger:    opts.Logger,
		now:       opts.Now,

		users:         core.Load(ctx, store, core.KeyUsers, defaults.Users),
		students:      core.Load(ctx, store, core.KeyStudents, defaults.Students),
		messages:      core.Load(ctx, store, core.KeyMessages, defaults.Messages),
		classes:       core.Load(ctx, store, core.KeyClasses, defaults.Classes),
		attendance:    core.Load(ctx, store, core.KeyAttendance, defaults.Attendance),
		grades:        core.Load(ctx, store, core.KeyGrades, defaults.Grades),
		invoices:      core.Load(ctx, store, core.KeyInvoices, defaults.Invoices),
		announcements: core.Load(ctx, store, core.KeyAnnouncements, defaults.Announcements),
		teachers:      core.Load(ctx, store, core.KeyTeachers, defaults.Teachers),
		reports:       core.Load(ctx, store, core.KeyReports, defaults.Reports),
	}
	if svc.attendance == nil {
		svc.attendance = make(map[string]AttendanceRecords)
	}
	return svc
}

// Login waits for the simulated round-trip then looks up the user by id.
// There is no credential check.
func (svc *Service) Login(ctx context.Context, id string) (user.User, error) {
	if err := core.Sleep(ctx, svc.latency.Login); err != nil {
		return user.User{}, err
	}
	usr, ok := svc.GetUserByID(id)
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	return usr, nil
}

// RegisterUser appends usr to the users collection. Ids and emails are not checked for uniqueness.
// Like SendMessage, it runs to completion even if ctx is cancelled.
func (svc *Service) RegisterUser(ctx context.Context, usr user.User) (user.User, error) {
	ctx = context.WithoutCancel(ctx)
	time.Sleep(svc.latency.Register)

	svc.mu.Lock()
	defer svc.mu.Unlock()

	users := append(svc.users, usr)
	if err := core.Save(ctx, svc.store, core.KeyUsers, users); err != nil {
		return user.User{}, err
	}
	svc.users = users
	return usr, nil
}

func (svc *Service) GetUserByID(id string) (user.User, bool) {
	svc.mu.RLock()
	defer svc.mu.RUnlock()
	for _, usr := range svc.users {
		if usr.ID == id {
			return usr, true
		}
	}
	return user.User{}, false
}

// GetStudentsForParent returns the parent's children in store order.
func (svc *Service) GetStudentsForParent(parentID string) []Student {
	svc.mu.RLock()
	defer svc.mu.RUnlock()
	return filter(svc.students, func(s Student) bool { return s.ParentID == parentID })
}

func (svc *Service) GetAllStudents() []Student {
	svc.mu.RLock()
	defer svc.mu.RUnlock()
	return append([]Student(nil), svc.students...)
}

func (svc *Service) GetStudentByID(id string) (Student, bool) {
	svc.mu.RLock()
	defer svc.mu.RUnlock()
	for _, s := range svc.students {
		if s.ID == id {
			return s, true
		}
	}
	return Student{}, false
}

func (svc *Service) GetAllClasses() []ClassSession {
	svc.mu.RLock()
	defer svc.mu.RUnlock()
	return append([]ClassSession(nil), svc.classes...)
}

func (svc *Service) GetClassesForTeacher(teacherID string) []ClassSession {
	svc.mu.RLock()
	defer svc.mu.RUnlock()
	return filter(svc.classes, func(c ClassSession) bool { return c.TeacherID == teacherID })
}

func (svc *Service) GetClassByID(id string) (ClassSession, bool) {
	svc.mu.RLock()
	defer svc.mu.RUnlock()
	for _, c := range svc.classes {
		if c.ID == id {
			return c, true
		}
	}
	return ClassSession{}, false
}

// ClassForTeacher returns the class if it is taught by teacherID, ErrClassNotFound otherwise.
func (svc *Service) ClassForTeacher(teacherID, classID string) (ClassSession, error) {
	c, ok := svc.GetClassByID(classID)
	if !ok || c.TeacherID != teacherID {
		return ClassSession{}, ErrClassNotFound
	}
	return c, nil
}

func (svc *Service) GetGradesForStudent(studentID string) []GradeItem {
	svc.mu.RLock()
	defer svc.mu.RUnlock()
	return filter(svc.grades, func(g GradeItem) bool { return g.StudentID == studentID })
}

func (svc *Service) GetInvoicesForStudent(studentID string) []Invoice {
	svc.mu.RLock()
	defer svc.mu.RUnlock()
	return filter(svc.invoices, func(inv Invoice) bool { return inv.StudentID == studentID })
}

// GetReportsForStudent returns the student's report cards, newest first.
func (svc *Service) GetReportsForStudent(studentID string) []ReportCard {
	svc.mu.RLock()
	reports := filter(svc.reports, func(r ReportCard) bool { return r.StudentID == studentID })
	svc.mu.RUnlock()

	sort.SliceStable(reports, func(i, j int) bool { return reports[i].Date > reports[j].Date })
	return reports
}

// GetTeachers returns the staff directory in store order.
func (svc *Service) GetTeachers() []Teacher {
	svc.mu.RLock()
	defer svc.mu.RUnlock()
	return append([]Teacher{}, svc.teachers...)
}

func (svc *Service) GetTeacherByID(id string) (Teacher, bool) {
	svc.mu.RLock()
	defer svc.mu.RUnlock()
	for _, t := range svc.teachers {
		if t.ID == id {
			return t, true
		}
	}
	return Teacher{}, false
}

// GenerateID returns a random 128-bit identifier.
func (svc *Service) GenerateID() string {
	return core.NewID()
}

func filter[T any](items []T, keep func(T) bool) []T {
	res := make([]T, 0)
	for _, item := range items {
		if keep(item) {
			res = append(res, item)
		}
	}
	return res
}
