package school

import (
	"time"

	"github.com/rafidain/schoollink/core"
	"github.com/rafidain/schoollink/core/user"
)

// Dataset holds every collection of the record store.
type Dataset struct {
	Users         []user.User
	Students      []Student
	Messages      []Message
	Classes       []ClassSession
	Attendance    map[string]AttendanceRecords
	Grades        []GradeItem
	Invoices      []Invoice
	Announcements []Announcement
	Teachers      []Teacher
	Reports       []ReportCard
}

// Records returns the dataset keyed by record store key.
func (d Dataset) Records() map[string]interface{} {
	return map[string]interface{}{
		core.KeyUsers:         d.Users,
		core.KeyStudents:      d.Students,
		core.KeyMessages:      d.Messages,
		core.KeyClasses:       d.Classes,
		core.KeyAttendance:    d.Attendance,
		core.KeyGrades:        d.Grades,
		core.KeyInvoices:      d.Invoices,
		core.KeyAnnouncements: d.Announcements,
		core.KeyTeachers:      d.Teachers,
		core.KeyReports:       d.Reports,
	}
}

func avatar(seed string) string {
	return "https://api.dicebear.com/7.x/avataaars/svg?seed=" + seed
}

// DefaultDataset is the first-run content of a fresh store.
// Message timestamps are relative to now.
func DefaultDataset(now time.Time) Dataset {
	now = now.UTC()
	return Dataset{
		Users: []user.User{
			{ID: "p1", Name: "Abu Ali (Hussein Karim)", Role: user.RoleParent, AvatarURL: avatar("Hussein"), LinkedStudentIDs: []string{"s1", "s2"}},
			{ID: "t1", Name: "Mr. Haider", Role: user.RoleTeacher, AvatarURL: avatar("Haider"), Specialization: "Mathematics"},
			{ID: "t2", Name: "Ms. Marwa", Role: user.RoleTeacher, AvatarURL: avatar("Marwa"), Specialization: "English"},
			{ID: "s1", Name: "Ali Hussein", Role: user.RoleStudent, AvatarURL: avatar("Ali"), GradeLevel: "5th Scientific"},
		},
		Students: []Student{
			{
				ID: "s1", Name: "Ali Hussein", GradeLevel: "5th Scientific", AvatarURL: avatar("Ali"),
				GPA: 88.5, Attendance: 94, NextExam: "Mathematics - next Sunday", TuitionStatus: TuitionPaid, ParentID: "p1",
			},
			{
				ID: "s2", Name: "Zainab Hussein", GradeLevel: "2nd Intermediate", AvatarURL: avatar("Zainab"),
				GPA: 92, Attendance: 98, NextExam: "Science - Tuesday", TuitionStatus: TuitionOverdue, ParentID: "p1",
			},
			{
				ID: "s3", Name: "Mohamed Kadhim", GradeLevel: "5th Scientific", AvatarURL: avatar("Mohamed"),
				GPA: 76.5, Attendance: 85, NextExam: "Physics - Wednesday", TuitionStatus: TuitionPending, ParentID: "p2",
			},
		},
		Messages: []Message{
			{
				ID: "m1", SenderID: "t1", SenderName: "Mr. Haider", RecipientID: "p1",
				Content:   "Peace be upon you Abu Ali, Ali's level in mathematics is excellent this month.",
				Timestamp: now.Add(-86400 * time.Second), Read: true,
			},
			{
				ID: "m2", SenderID: "p1", SenderName: "Abu Ali", RecipientID: "t1",
				Content:   "And upon you peace, thank you for your efforts. Does he need extra lessons in geometry?",
				Timestamp: now.Add(-82000 * time.Second),
			},
		},
		Classes: []ClassSession{
			{ID: "c1", Subject: "Mathematics", Grade: "5th Scientific (A)", Time: "08:00 AM", Topic: "Calculus", StudentsCount: 32, TeacherID: "t1"},
			{ID: "c2", Subject: "Mathematics", Grade: "5th Scientific (B)", Time: "09:30 AM", Topic: "Matrices", StudentsCount: 30, TeacherID: "t1"},
			{ID: "c3", Subject: "Physics", Grade: "4th Scientific", Time: "11:00 AM", Topic: "Laws of motion", StudentsCount: 28, TeacherID: "t3"},
		},
		Attendance: map[string]AttendanceRecords{},
		Grades: []GradeItem{
			{ID: "g1", StudentID: "s1", Subject: "Mathematics", Score: 45, Total: 50, Date: "2023-10-10", Type: GradeMidterm},
			{ID: "g2", StudentID: "s1", Subject: "Physics", Score: 42, Total: 50, Date: "2023-10-12", Type: GradeQuiz},
			{ID: "g3", StudentID: "s1", Subject: "Arabic", Score: 48, Total: 50, Date: "2023-10-15", Type: GradeHomework},
			{ID: "g4", StudentID: "s2", Subject: "Science", Score: 95, Total: 100, Date: "2023-10-18", Type: GradeMidterm},
		},
		Invoices: []Invoice{
			{ID: "inv_001", StudentID: "s2", Title: "First tuition installment - 2024", Amount: 750000, DueDate: "2023-10-01", Status: InvoiceOverdue},
			{ID: "inv_002", StudentID: "s1", Title: "First tuition installment - 2024", Amount: 850000, DueDate: "2023-10-01", Status: InvoicePaid},
			{ID: "inv_003", StudentID: "s2", Title: "Bus transport fees - October", Amount: 50000, DueDate: "2023-11-01", Status: InvoicePending},
		},
		Announcements: []Announcement{
			{
				ID: "a1", Title: "Parents meeting", Date: "2023-10-25", Type: AnnouncementEvent, TargetAudience: AudienceParents,
				Content: "You are invited to the parent-teacher council meeting next Thursday in Al-Mutanabbi hall to discuss the mid-year plan.",
			},
			{
				ID: "a2", Title: "Exams notice", Date: "2023-10-22", Type: AnnouncementUrgent, TargetAudience: AudienceAll,
				Content: "Mid-year exams start on January 15. All students should collect their timetables from the office.",
			},
			{
				ID: "a3", Title: "Robotics contest", Date: "2023-10-20", Type: AnnouncementInfo, TargetAudience: AudienceStudents,
				Content: "Registration for the robotics and AI club is open to distinguished students.",
			},
		},
		Teachers: []Teacher{
			{ID: "t1", Name: "Mr. Haider", Subject: "Mathematics", AvatarURL: avatar("Haider")},
			{ID: "t2", Name: "Ms. Marwa", Subject: "English", AvatarURL: avatar("Marwa")},
			{ID: "t3", Name: "Mr. Ahmed", Subject: "Physics", AvatarURL: avatar("Ahmed")},
			{ID: "t4", Name: "Dr. Yousef", Subject: "Arabic", AvatarURL: avatar("Yousef")},
		},
		Reports: []ReportCard{
			{ID: "rep_001", StudentID: "s1", Title: "First month report", Date: "2023-10-30", Type: ReportMonthly, URL: "#"},
			{ID: "rep_002", StudentID: "s2", Title: "First month report", Date: "2023-10-30", Type: ReportMonthly, URL: "#"},
		},
	}
}
