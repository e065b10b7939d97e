package school

import (
	"sort"

	"github.com/rafidain/schoollink/core/user"
)

var roleAudiences = map[user.Role]Audience{
	user.RoleParent:  AudienceParents,
	user.RoleStudent: AudienceStudents,
	user.RoleTeacher: AudienceTeachers,
}

// GetAnnouncements returns the announcements addressed to everyone or to role's audience, newest first.
func (svc *Service) GetAnnouncements(role user.Role) []Announcement {
	svc.mu.RLock()
	res := filter(svc.announcements, func(a Announcement) bool {
		return a.TargetAudience == AudienceAll || a.TargetAudience == roleAudiences[role]
	})
	svc.mu.RUnlock()

	// dates are YYYY-MM-DD
	sort.SliceStable(res, func(i, j int) bool { return res[i].Date > res[j].Date })
	return res
}
