package user

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/rafidain/schoollink/core"
)

var (
	roleTag  = "role"
	roleText = "invalid role"

	parentOnlyTag  = "parent_only"
	parentOnlyText = "only parents can be linked to students"
)

// InitValidators registers the user validations on validate.
// core.InitValidators must have been called first.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(roleTag, roleValidation)
	core.RegisterCustomTranslation(validate, translator, roleTag, roleText)

	validate.RegisterStructValidation(newUserStructValidation, NewUser{})
	core.RegisterCustomTranslation(validate, translator, parentOnlyTag, parentOnlyText)
}

// roleValidation checks that the role is one of AllRoles
func roleValidation(fl validator.FieldLevel) bool {
	switch v := fl.Field().Interface().(type) {
	case Role:
		return v.IsValid()
	case string:
		return Role(v).IsValid()
	}
	return false
}

// newUserStructValidation rejects linked students on non-parent users.
func newUserStructValidation(sl validator.StructLevel) {
	nu := sl.Current().Interface().(NewUser)
	if len(nu.LinkedStudentIDs) > 0 && nu.Role != RoleParent {
		sl.ReportError(nu.LinkedStudentIDs, "linkedStudentIds", "LinkedStudentIDs", parentOnlyTag, "")
	}
}
