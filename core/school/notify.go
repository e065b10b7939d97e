package school

import (
	"fmt"
	"net/mail"

	"github.com/rafidain/schoollink/core"
)

const absenceNoticeTemplate = "absence_notice"

type absenceNotice struct {
	ParentName  string
	StudentName string
	Subject     string
	Date        string
	Attendance  float64
}

// notifyAbsences emails the parent of every absent student, when the parent has an email.
func (svc *Service) notifyAbsences(classID, date string, absentees []Student) {
	if svc.mailer == nil || len(absentees) == 0 {
		return
	}

	subject := classID
	if c, ok := svc.GetClassByID(classID); ok {
		subject = c.Subject
	}

	msgs := make([]*core.EmailMessage, 0, len(absentees))
	for _, s := range absentees {
		parent, ok := svc.GetUserByID(s.ParentID)
		if !ok || parent.Email == "" {
			if svc.logger != nil {
				svc.logger.Debug(fmt.Sprintf("no absence notice for student %s: parent %q has no email", s.ID, s.ParentID))
			}
			continue
		}
		msgs = append(msgs, &core.EmailMessage{
			To:           []mail.Address{{Name: parent.Name, Address: parent.Email}},
			Subject:      fmt.Sprintf("%s was absent on %s", s.Name, date),
			TemplateName: absenceNoticeTemplate,
			TemplateData: absenceNotice{
				ParentName:  parent.Name,
				StudentName: s.Name,
				Subject:     subject,
				Date:        date,
				Attendance:  s.Attendance,
			},
		})
	}
	if len(msgs) > 0 {
		svc.mailer.SendMessages(msgs...)
	}
}
