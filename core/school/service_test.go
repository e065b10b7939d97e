package school

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rafidain/schoollink/core"
	"github.com/rafidain/schoollink/core/user"
	"github.com/rafidain/schoollink/storage/database/inmem"
)

var fixedNow = time.Date(2024, 5, 20, 9, 0, 0, 0, time.UTC)

type publisherMock struct {
	mu   sync.Mutex
	msgs []Message
}

func (p *publisherMock) Publish(msg Message) {
	p.mu.Lock()
	p.msgs = append(p.msgs, msg)
	p.mu.Unlock()
}

type mailerMock struct {
	mu   sync.Mutex
	msgs []*core.EmailMessage
}

func (m *mailerMock) SendMessages(messages ...*core.EmailMessage) {
	m.mu.Lock()
	m.msgs = append(m.msgs, messages...)
	m.mu.Unlock()
}

type failingStore struct {
	*inmem.Store
	failKey string
}

func (s failingStore) Put(ctx context.Context, key string, data []byte) error {
	if key == s.failKey {
		return errors.New("disk full")
	}
	return s.Store.Put(ctx, key, data)
}

// liveCtxStore refuses writes on a done context, like the SQL engines do.
type liveCtxStore struct {
	*inmem.Store
}

func (s liveCtxStore) Put(ctx context.Context, key string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.Store.Put(ctx, key, data)
}

func newTestService(t *testing.T, store core.RecordStore, opts ...func(*Options)) *Service {
	t.Helper()
	if store == nil {
		store = inmem.NewStore()
	}
	o := Options{Now: func() time.Time { return fixedNow }}
	for _, opt := range opts {
		opt(&o)
	}
	return NewService(context.Background(), store, o)
}

func TestNewService(t *testing.T) {
	ctx := context.Background()

	t.Run("fresh store uses the default dataset", func(t *testing.T) {
		svc := newTestService(t, nil)
		assert.Equal(t, DefaultDataset(fixedNow).Students, svc.GetAllStudents())
		assert.Len(t, svc.GetAllClasses(), 3)
	})

	t.Run("saved collections win", func(t *testing.T) {
		store := inmem.NewStore()
		saved := []Student{{ID: "x1", Name: "Saved", Attendance: 50}}
		require.NoError(t, core.Save(ctx, store, core.KeyStudents, saved))

		svc := newTestService(t, store)
		assert.Equal(t, saved, svc.GetAllStudents())
		assert.Len(t, svc.GetAllClasses(), 3) // others still default
	})

	t.Run("corrupt collection falls back", func(t *testing.T) {
		store := inmem.NewStore()
		require.NoError(t, store.Put(ctx, core.KeyStudents, []byte("{oops")))

		svc := newTestService(t, store)
		assert.Len(t, svc.GetAllStudents(), 3)
	})

	t.Run("state survives a restart", func(t *testing.T) {
		store := inmem.NewStore()
		svc := newTestService(t, store)
		_, err := svc.RegisterUser(ctx, user.User{ID: "u9", Name: "X", Role: user.RoleStudent})
		require.NoError(t, err)

		restarted := newTestService(t, store)
		usr, ok := restarted.GetUserByID("u9")
		assert.True(t, ok)
		assert.Equal(t, "X", usr.Name)
	})
}

func TestService_Users(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, nil)

	t.Run("login known user", func(t *testing.T) {
		usr, err := svc.Login(ctx, "p1")
		require.NoError(t, err)
		assert.Equal(t, user.RoleParent, usr.Role)
		assert.Equal(t, []string{"s1", "s2"}, usr.LinkedStudentIDs)
	})

	t.Run("login unknown user", func(t *testing.T) {
		_, err := svc.Login(ctx, "nobody")
		assert.ErrorIs(t, err, user.ErrNotFound)
	})

	t.Run("register then login", func(t *testing.T) {
		registered, err := svc.RegisterUser(ctx, user.User{ID: "u9", Name: "X", Role: user.RoleStudent})
		require.NoError(t, err)

		usr, err := svc.Login(ctx, "u9")
		require.NoError(t, err)
		assert.Equal(t, registered, usr)
		assert.Equal(t, "u9", usr.ID)
		assert.Equal(t, user.RoleStudent, usr.Role)
	})

	t.Run("register does not check uniqueness", func(t *testing.T) {
		_, err := svc.RegisterUser(ctx, user.User{ID: "t1", Name: "Twin", Role: user.RoleTeacher})
		require.NoError(t, err)

		usr, err := svc.Login(ctx, "t1")
		require.NoError(t, err)
		assert.Equal(t, "Mr. Haider", usr.Name) // first match
	})

	t.Run("failed save leaves users unchanged", func(t *testing.T) {
		svc := newTestService(t, failingStore{Store: inmem.NewStore(), failKey: core.KeyUsers})
		_, err := svc.RegisterUser(ctx, user.User{ID: "u10", Role: user.RoleParent})
		assert.EqualError(t, err, `saving "users": disk full`)
		_, ok := svc.GetUserByID("u10")
		assert.False(t, ok)
	})
}

func TestService_Latency(t *testing.T) {
	store := liveCtxStore{inmem.NewStore()}
	svc := newTestService(t, store, func(o *Options) {
		o.Latency = core.LatencyConfig{Login: 50 * time.Millisecond, Register: 50 * time.Millisecond, Send: 50 * time.Millisecond}
	})

	start := time.Now()
	_, err := svc.Login(context.Background(), "p1")
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)

	t.Run("login gives up when cancelled", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()
		_, err := svc.Login(ctx, "p1")
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})

	t.Run("pending send completes after cancellation", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()

		start := time.Now()
		err := svc.SendMessage(ctx, Message{ID: "late", SenderID: "p1", RecipientID: "t1", Timestamp: fixedNow})
		require.NoError(t, err)
		assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)

		var stored int
		for _, m := range svc.GetMessages("p1", "t1") {
			if m.ID == "late" {
				stored++
			}
		}
		assert.Equal(t, 1, stored)

		msgs := core.Load(context.Background(), store, core.KeyMessages, []Message(nil))
		assert.Equal(t, "late", msgs[len(msgs)-1].ID)
	})

	t.Run("pending register completes after cancellation", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := svc.RegisterUser(ctx, user.User{ID: "late", Name: "Late", Role: user.RoleParent})
		require.NoError(t, err)
		_, ok := svc.GetUserByID("late")
		assert.True(t, ok)
	})
}

func TestService_Students(t *testing.T) {
	svc := newTestService(t, nil)

	kids := svc.GetStudentsForParent("p1")
	require.Len(t, kids, 2)
	assert.Equal(t, "s1", kids[0].ID)
	assert.Equal(t, "s2", kids[1].ID)
	assert.Empty(t, svc.GetStudentsForParent("nobody"))

	s, ok := svc.GetStudentByID("s3")
	require.True(t, ok)
	assert.Equal(t, "p2", s.ParentID)
	_, ok = svc.GetStudentByID("s404")
	assert.False(t, ok)

	t.Run("reads are copies", func(t *testing.T) {
		all := svc.GetAllStudents()
		all[0].Attendance = -1
		s, _ := svc.GetStudentByID(all[0].ID)
		assert.NotEqual(t, float64(-1), s.Attendance)
	})

	t.Run("grades and invoices", func(t *testing.T) {
		assert.Len(t, svc.GetGradesForStudent("s1"), 3)
		assert.Len(t, svc.GetGradesForStudent("s2"), 1)
		assert.Empty(t, svc.GetGradesForStudent("s3"))

		invoices := svc.GetInvoicesForStudent("s2")
		require.Len(t, invoices, 2)
		assert.Equal(t, InvoiceOverdue, invoices[0].Status)
	})

	t.Run("reports", func(t *testing.T) {
		reports := svc.GetReportsForStudent("s1")
		require.Len(t, reports, 1)
		assert.Equal(t, "rep_001", reports[0].ID)
		assert.Equal(t, ReportMonthly, reports[0].Type)
		assert.NotNil(t, svc.GetReportsForStudent("s3"))
		assert.Empty(t, svc.GetReportsForStudent("s3"))
	})

	t.Run("reports newest first", func(t *testing.T) {
		store := inmem.NewStore()
		require.NoError(t, core.Save(context.Background(), store, core.KeyReports, []ReportCard{
			{ID: "r1", StudentID: "s1", Date: "2023-10-30", Type: ReportMonthly},
			{ID: "r2", StudentID: "s1", Date: "2024-01-20", Type: ReportMidterm},
			{ID: "r3", StudentID: "s2", Date: "2024-06-01", Type: ReportFinal},
		}))
		svc := newTestService(t, store)

		reports := svc.GetReportsForStudent("s1")
		require.Len(t, reports, 2)
		assert.Equal(t, "r2", reports[0].ID)
		assert.Equal(t, "r1", reports[1].ID)
	})
}

func TestService_Teachers(t *testing.T) {
	svc := newTestService(t, nil)

	teachers := svc.GetTeachers()
	require.Len(t, teachers, 4)
	assert.Equal(t, "t1", teachers[0].ID)
	assert.Equal(t, "Physics", teachers[2].Subject)

	// every class is taught by someone in the directory
	for _, c := range svc.GetAllClasses() {
		_, ok := svc.GetTeacherByID(c.TeacherID)
		assert.True(t, ok, c.ID)
	}

	// t3 has no account
	_, ok := svc.GetUserByID("t3")
	assert.False(t, ok)
	_, ok = svc.GetTeacherByID("t9")
	assert.False(t, ok)

	teachers[0].Name = "changed"
	got, _ := svc.GetTeacherByID("t1")
	assert.Equal(t, "Mr. Haider", got.Name)
}

func TestService_Classes(t *testing.T) {
	svc := newTestService(t, nil)

	classes := svc.GetClassesForTeacher("t1")
	require.Len(t, classes, 2)
	assert.Equal(t, "c1", classes[0].ID)
	assert.Empty(t, svc.GetClassesForTeacher("t2"))

	c, err := svc.ClassForTeacher("t1", "c2")
	require.NoError(t, err)
	assert.Equal(t, "Matrices", c.Topic)

	_, err = svc.ClassForTeacher("t1", "c3")
	assert.ErrorIs(t, err, ErrClassNotFound)
	_, err = svc.ClassForTeacher("t1", "c404")
	assert.ErrorIs(t, err, ErrClassNotFound)
}

func TestService_Announcements(t *testing.T) {
	svc := newTestService(t, nil)

	ids := func(as []Announcement) []string {
		res := make([]string, 0, len(as))
		for _, a := range as {
			res = append(res, a.ID)
		}
		return res
	}
	assert.Equal(t, []string{"a1", "a2"}, ids(svc.GetAnnouncements(user.RoleParent)))
	assert.Equal(t, []string{"a2", "a3"}, ids(svc.GetAnnouncements(user.RoleStudent)))
	assert.Equal(t, []string{"a2"}, ids(svc.GetAnnouncements(user.RoleTeacher)))
}

func TestService_GenerateID(t *testing.T) {
	svc := newTestService(t, nil)
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := svc.GenerateID()
		assert.Len(t, id, 36)
		assert.False(t, seen[id])
		seen[id] = true
	}
}
