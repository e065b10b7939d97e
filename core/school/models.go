package school

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/rafidain/schoollink/core"
)

type TuitionStatus string

const (
	TuitionPaid    TuitionStatus = "paid"
	TuitionPartial TuitionStatus = "partial"
	TuitionOverdue TuitionStatus = "overdue"
	TuitionPending TuitionStatus = "pending"
)

type Student struct {
	ID            string        `json:"id"`
	Name          string        `json:"name"`
	GradeLevel    string        `json:"gradeLevel"`
	AvatarURL     string        `json:"avatarUrl"`
	GPA           float64       `json:"gpa"`
	Attendance    float64       `json:"attendance"` // percentage, 0 - 100
	NextExam      string        `json:"nextExam,omitempty"`
	TuitionStatus TuitionStatus `json:"tuitionStatus,omitempty"`
	ParentID      string        `json:"parentId,omitempty"`
}

// Teacher is a staff directory entry. It need not be a registered user.
type Teacher struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Subject   string   `json:"subject"`
	AvatarURL string   `json:"avatarUrl"`
	Schedule  []string `json:"schedule,omitempty"`
}

// Message is immutable once sent, except for Read.
type Message struct {
	ID          string    `json:"id"`
	SenderID    string    `json:"senderId"`
	SenderName  string    `json:"senderName"`
	RecipientID string    `json:"recipientId"`
	Content     string    `json:"content"`
	Timestamp   time.Time `json:"timestamp"`
	Read        bool      `json:"read"`
}

// Between reports whether the message belongs to the conversation of a and b, in either direction.
func (m Message) Between(a, b string) bool {
	return (m.SenderID == a && m.RecipientID == b) || (m.SenderID == b && m.RecipientID == a)
}

type ClassSession struct {
	ID            string `json:"id"`
	Subject       string `json:"subject"`
	Grade         string `json:"grade"`
	Time          string `json:"time"`
	Topic         string `json:"topic"`
	StudentsCount int    `json:"studentsCount"`
	TeacherID     string `json:"teacherId"`
}

type AttendanceStatus string

const (
	Present AttendanceStatus = "present"
	Absent  AttendanceStatus = "absent"
	Late    AttendanceStatus = "late"
)

func (s AttendanceStatus) IsValid() bool {
	return s == Present || s == Absent || s == Late
}

// AttendanceRecords maps student ids to their status for one class on one day.
type AttendanceRecords map[string]AttendanceStatus

// AttendanceKey is the attendance map key of a class on a date.
func AttendanceKey(classID, date string) string {
	return classID + "_" + date
}

// AttendanceSheet is the roster a teacher submits for a class on a date.
type AttendanceSheet struct {
	ClassID string            `json:"classId" validate:"required,ident"`
	Date    string            `json:"date" validate:"required,datetime=2006-01-02"`
	Records AttendanceRecords `json:"records" validate:"required,min=1,dive,keys,ident,endkeys,attendance_status"`
}

func (as *AttendanceSheet) Validate(validate *validator.Validate) error {
	as.ClassID = core.CleanString(as.ClassID)
	as.Date = core.CleanString(as.Date)
	return validate.Struct(as)
}

type GradeType string

const (
	GradeQuiz     GradeType = "quiz"
	GradeMidterm  GradeType = "midterm"
	GradeFinal    GradeType = "final"
	GradeHomework GradeType = "homework"
)

type GradeItem struct {
	ID        string    `json:"id"`
	StudentID string    `json:"studentId"`
	Subject   string    `json:"subject"`
	Score     float64   `json:"score"`
	Total     float64   `json:"total"`
	Date      string    `json:"date"`
	Type      GradeType `json:"type"`
}

type InvoiceStatus string

const (
	InvoicePaid    InvoiceStatus = "paid"
	InvoicePending InvoiceStatus = "pending"
	InvoiceOverdue InvoiceStatus = "overdue"
)

type Invoice struct {
	ID        string        `json:"id"`
	StudentID string        `json:"studentId"`
	Title     string        `json:"title"`
	Amount    float64       `json:"amount"`
	DueDate   string        `json:"dueDate"`
	Status    InvoiceStatus `json:"status"`
}

type AnnouncementType string

const (
	AnnouncementUrgent AnnouncementType = "urgent"
	AnnouncementInfo   AnnouncementType = "info"
	AnnouncementEvent  AnnouncementType = "event"
)

type Audience string

const (
	AudienceAll      Audience = "all"
	AudienceParents  Audience = "parents"
	AudienceStudents Audience = "students"
	AudienceTeachers Audience = "teachers"
)

type Announcement struct {
	ID             string           `json:"id"`
	Title          string           `json:"title"`
	Content        string           `json:"content"`
	Date           string           `json:"date"`
	Type           AnnouncementType `json:"type"`
	TargetAudience Audience         `json:"targetAudience"`
}

type ReportType string

const (
	ReportMonthly ReportType = "monthly"
	ReportMidterm ReportType = "midterm"
	ReportFinal   ReportType = "final"
)

// ReportCard points at a published report document.
type ReportCard struct {
	ID        string     `json:"id"`
	StudentID string     `json:"studentId"`
	Title     string     `json:"title"`
	Date      string     `json:"date"`
	Type      ReportType `json:"type"`
	URL       string     `json:"url"`
}
