package school

import (
	"context"
	"testing"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rafidain/schoollink/core"
	"github.com/rafidain/schoollink/core/user"
	"github.com/rafidain/schoollink/storage/database/inmem"
)

func attendanceOf(t *testing.T, svc *Service, id string) float64 {
	t.Helper()
	s, ok := svc.GetStudentByID(id)
	require.True(t, ok)
	return s.Attendance
}

func TestService_SaveAttendance(t *testing.T) {
	ctx := context.Background()

	t.Run("absent decrements by one", func(t *testing.T) {
		store := inmem.NewStore()
		svc := newTestService(t, store)

		require.NoError(t, svc.SaveAttendance(ctx, "c1", "2024-05-20", AttendanceRecords{"s1": Absent, "s2": Late, "s3": Present}))
		assert.Equal(t, float64(93), attendanceOf(t, svc, "s1"))
		assert.Equal(t, float64(98), attendanceOf(t, svc, "s2"))
		assert.Equal(t, float64(85), attendanceOf(t, svc, "s3"))

		records, ok := svc.GetAttendance("c1", "2024-05-20")
		require.True(t, ok)
		assert.Equal(t, AttendanceRecords{"s1": Absent, "s2": Late, "s3": Present}, records)

		// both collections persisted
		saved := core.Load(ctx, store, core.KeyAttendance, map[string]AttendanceRecords{})
		assert.Equal(t, Absent, saved["c1_2024-05-20"]["s1"])
		students := core.Load(ctx, store, core.KeyStudents, []Student{})
		assert.Equal(t, float64(93), students[0].Attendance)
	})

	t.Run("overwrite replaces the roster", func(t *testing.T) {
		svc := newTestService(t, nil)
		require.NoError(t, svc.SaveAttendance(ctx, "c1", "2024-05-20", AttendanceRecords{"s1": Absent, "s2": Absent}))
		require.NoError(t, svc.SaveAttendance(ctx, "c1", "2024-05-20", AttendanceRecords{"s1": Present}))

		records, _ := svc.GetAttendance("c1", "2024-05-20")
		assert.Equal(t, AttendanceRecords{"s1": Present}, records)
		// a reversed absence is not given back
		assert.Equal(t, float64(93), attendanceOf(t, svc, "s1"))
		assert.Equal(t, float64(97), attendanceOf(t, svc, "s2"))
	})

	t.Run("floored at zero", func(t *testing.T) {
		store := inmem.NewStore()
		require.NoError(t, core.Save(ctx, store, core.KeyStudents, []Student{{ID: "s1", Attendance: 0.5}}))
		svc := newTestService(t, store)

		require.NoError(t, svc.SaveAttendance(ctx, "c1", "2024-05-20", AttendanceRecords{"s1": Absent}))
		assert.Equal(t, float64(0), attendanceOf(t, svc, "s1"))
		require.NoError(t, svc.SaveAttendance(ctx, "c1", "2024-05-20", AttendanceRecords{"s1": Absent}))
		assert.Equal(t, float64(0), attendanceOf(t, svc, "s1"))
	})

	t.Run("unknown students are recorded only", func(t *testing.T) {
		svc := newTestService(t, nil)
		require.NoError(t, svc.SaveAttendance(ctx, "c1", "2024-05-21", AttendanceRecords{"ghost": Absent}))
		records, ok := svc.GetAttendance("c1", "2024-05-21")
		assert.True(t, ok)
		assert.Equal(t, Absent, records["ghost"])
		assert.Equal(t, DefaultDataset(fixedNow).Students, svc.GetAllStudents())
	})

	t.Run("caller map is not retained", func(t *testing.T) {
		svc := newTestService(t, nil)
		records := AttendanceRecords{"s1": Present}
		require.NoError(t, svc.SaveAttendance(ctx, "c1", "2024-05-22", records))
		records["s1"] = Absent

		got, _ := svc.GetAttendance("c1", "2024-05-22")
		assert.Equal(t, Present, got["s1"])
		got["s1"] = Late
		again, _ := svc.GetAttendance("c1", "2024-05-22")
		assert.Equal(t, Present, again["s1"])
	})

	t.Run("cancelled context still writes both collections", func(t *testing.T) {
		store := liveCtxStore{inmem.NewStore()}
		svc := newTestService(t, store)
		cctx, cancel := context.WithCancel(ctx)
		cancel()

		require.NoError(t, svc.SaveAttendance(cctx, "c1", "2024-05-23", AttendanceRecords{"s1": Absent}))
		saved := core.Load(ctx, store, core.KeyAttendance, map[string]AttendanceRecords{})
		assert.Equal(t, Absent, saved["c1_2024-05-23"]["s1"])
		students := core.Load(ctx, store, core.KeyStudents, []Student{})
		assert.Equal(t, float64(93), students[0].Attendance)
	})

	t.Run("no roster", func(t *testing.T) {
		svc := newTestService(t, nil)
		_, ok := svc.GetAttendance("c1", "1999-01-01")
		assert.False(t, ok)
	})
}

func TestService_AbsenceNotice(t *testing.T) {
	ctx := context.Background()
	store := inmem.NewStore()
	users := DefaultDataset(fixedNow).Users
	users[0].Email = "abu.ali@example.com" // p1
	require.NoError(t, core.Save(ctx, store, core.KeyUsers, users))

	mailer := new(mailerMock)
	svc := newTestService(t, store, func(o *Options) { o.Mailer = mailer })

	// s3's parent (p2) is unknown: no notice
	require.NoError(t, svc.SaveAttendance(ctx, "c1", "2024-05-20", AttendanceRecords{"s1": Absent, "s2": Present, "s3": Absent}))

	require.Len(t, mailer.msgs, 1)
	msg := mailer.msgs[0]
	assert.Equal(t, "abu.ali@example.com", msg.To[0].Address)
	assert.Equal(t, "Ali Hussein was absent on 2024-05-20", msg.Subject)
	require.NoError(t, msg.Render("SchoolLink"))
	assert.Contains(t, msg.TextContent, "Ali Hussein was marked absent from Mathematics on 2024-05-20.")
	assert.Contains(t, msg.TextContent, "93%")

	t.Run("no absentees, no mail", func(t *testing.T) {
		require.NoError(t, svc.SaveAttendance(ctx, "c1", "2024-05-21", AttendanceRecords{"s1": Late}))
		assert.Len(t, mailer.msgs, 1)
	})
}

func TestAttendanceSheet_Validate(t *testing.T) {
	validate := validator.New()
	translator, _ := ut.New(en.New()).GetTranslator("en")
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)
	InitValidators(validate, translator)

	errorsOf := func(err error) map[string]string {
		var verrs validator.ValidationErrors
		require.ErrorAs(t, err, &verrs)
		res := make(map[string]string)
		for _, fe := range core.TranslateErrors(verrs, translator) {
			res[fe.Field] = fe.Error
		}
		return res
	}

	sheet := AttendanceSheet{ClassID: " c1 ", Date: "2024-05-20", Records: AttendanceRecords{"s1": Absent, "s2": Late}}
	require.NoError(t, sheet.Validate(validate))
	assert.Equal(t, "c1", sheet.ClassID)

	bad := AttendanceSheet{ClassID: "c1", Date: "20/05/2024", Records: AttendanceRecords{"s1": "sick"}}
	assert.Equal(t, map[string]string{
		"date":        "date must be a date formatted as YYYY-MM-DD",
		"records[s1]": "status must be one of present, absent or late",
	}, errorsOf(bad.Validate(validate)))

	empty := AttendanceSheet{ClassID: "c1", Date: "2024-05-20"}
	assert.Equal(t, map[string]string{"records": "this field is required"}, errorsOf(empty.Validate(validate)))
}
