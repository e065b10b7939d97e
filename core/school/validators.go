package school

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/rafidain/schoollink/core"
)

var (
	attendanceStatusTag  = "attendance_status"
	attendanceStatusText = "status must be one of present, absent or late"

	datetimeTag  = "datetime"
	datetimeText = "{0} must be a date formatted as YYYY-MM-DD"
)

// InitValidators registers the school validations on validate.
// core.InitValidators must have been called first.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(attendanceStatusTag, attendanceStatusValidation)
	core.RegisterCustomTranslation(validate, translator, attendanceStatusTag, attendanceStatusText)
	core.RegisterCustomTranslation(validate, translator, datetimeTag, datetimeText, true)
}

func attendanceStatusValidation(fl validator.FieldLevel) bool {
	switch v := fl.Field().Interface().(type) {
	case AttendanceStatus:
		return v.IsValid()
	case string:
		return AttendanceStatus(v).IsValid()
	}
	return false
}
