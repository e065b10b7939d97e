package core

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"
)

var ErrRecordNotFound = errors.New("record not found")

// Collection keys
const (
	KeyUsers         = "users"
	KeyStudents      = "students"
	KeyMessages      = "messages"
	KeyClasses       = "classes"
	KeyAttendance    = "attendance"
	KeyGrades        = "grades"
	KeyInvoices      = "invoices"
	KeyAnnouncements = "announcements"
	KeyTeachers      = "teachers"
	KeyReports       = "reports"
)

// AllKeys lists every collection key, in seeding order.
var AllKeys = []string{
	KeyUsers, KeyStudents, KeyMessages, KeyClasses, KeyAttendance,
	KeyGrades, KeyInvoices, KeyAnnouncements, KeyTeachers, KeyReports,
}

// RecordStore is a durable key/value store of encoded collections.
type RecordStore interface {
	// Get returns ErrRecordNotFound if nothing was saved under key.
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, data []byte) error
}

// Load returns the value saved under key, or fallback if it is missing or cannot be decoded.
// Errors are never surfaced: the store is a best-effort cache of the collections.
func Load[T any](ctx context.Context, store RecordStore, key string, fallback T) T {
	data, err := store.Get(ctx, key)
	if err != nil {
		return fallback
	}
	var val T
	if err := json.Unmarshal(data, &val); err != nil {
		return fallback
	}
	return val
}

// Save encodes value and writes it under key.
func Save(ctx context.Context, store RecordStore, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return errors.Wrapf(err, "encoding %q", key)
	}
	if err := store.Put(ctx, key, data); err != nil {
		return errors.Wrapf(err, "saving %q", key)
	}
	return nil
}
