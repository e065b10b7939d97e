package school

import (
	"context"
	"math"

	"github.com/rafidain/schoollink/core"
)

// SaveAttendance overwrites the roster of classID on date.
// Every absent student loses one attendance point, floored at 0. Late and present leave it unchanged.
// Both collections are written even if ctx is cancelled midway.
func (svc *Service) SaveAttendance(ctx context.Context, classID, date string, records AttendanceRecords) error {
	ctx = context.WithoutCancel(ctx)
	entry := make(AttendanceRecords, len(records))
	for id, status := range records {
		entry[id] = status
	}

	svc.mu.Lock()
	attendance := make(map[string]AttendanceRecords, len(svc.attendance)+1)
	for k, v := range svc.attendance {
		attendance[k] = v
	}
	attendance[AttendanceKey(classID, date)] = entry
	if err := core.Save(ctx, svc.store, core.KeyAttendance, attendance); err != nil {
		svc.mu.Unlock()
		return err
	}
	svc.attendance = attendance

	students := append([]Student(nil), svc.students...)
	var absentees []Student
	seen := make(map[string]bool)
	for i, s := range students {
		if entry[s.ID] == Absent && !seen[s.ID] {
			seen[s.ID] = true
			students[i].Attendance = math.Max(0, s.Attendance-1)
			absentees = append(absentees, students[i])
		}
	}
	if err := core.Save(ctx, svc.store, core.KeyStudents, students); err != nil {
		svc.mu.Unlock()
		return err
	}
	svc.students = students
	svc.mu.Unlock()

	svc.notifyAbsences(classID, date, absentees)
	return nil
}

// GetAttendance returns a copy of the roster saved for classID on date.
func (svc *Service) GetAttendance(classID, date string) (AttendanceRecords, bool) {
	svc.mu.RLock()
	defer svc.mu.RUnlock()
	entry, ok := svc.attendance[AttendanceKey(classID, date)]
	if !ok {
		return nil, false
	}
	res := make(AttendanceRecords, len(entry))
	for id, status := range entry {
		res[id] = status
	}
	return res, true
}
