package user

import (
	"github.com/go-playground/validator/v10"

	"github.com/rafidain/schoollink/core"
)

type Role string

// Roles
const (
	RoleParent  Role = "parent"
	RoleStudent Role = "student"
	RoleTeacher Role = "teacher"
)

var (
	AllRoles = []Role{RoleParent, RoleStudent, RoleTeacher}

	Roles = []RoleOption{
		{Name: "Parent", Value: RoleParent},
		{Name: "Student", Value: RoleStudent},
		{Name: "Teacher", Value: RoleTeacher},
	}
)

func (r Role) IsValid() bool {
	for _, role := range AllRoles {
		if r == role {
			return true
		}
	}
	return false
}

type RoleOption struct {
	Name  string `json:"name"`
	Value Role   `json:"value"`
}

type User struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	Role             Role     `json:"role"`
	AvatarURL        string   `json:"avatarUrl,omitempty"`
	Email            string   `json:"email,omitempty"`
	Phone            string   `json:"phone,omitempty"`
	LinkedStudentIDs []string `json:"linkedStudentIds,omitempty"` // parents only
	Specialization   string   `json:"specialization,omitempty"`   // teachers only
	GradeLevel       string   `json:"gradeLevel,omitempty"`       // students only
}

func (u User) HasRole(roles ...Role) bool {
	for _, role := range roles {
		if u.Role == role {
			return true
		}
	}
	return false
}

func (u User) IsParent() bool  { return u.Role == RoleParent }
func (u User) IsStudent() bool { return u.Role == RoleStudent }
func (u User) IsTeacher() bool { return u.Role == RoleTeacher }

// IsLinkedTo reports whether studentID is one of the parent's children.
func (u User) IsLinkedTo(studentID string) bool {
	for _, id := range u.LinkedStudentIDs {
		if id == studentID {
			return true
		}
	}
	return false
}

// NewUser contains information needed to register a new User.
type NewUser struct {
	ID               string   `json:"id" validate:"omitempty,max=64,ident"`
	Name             string   `json:"name" validate:"required"`
	Role             Role     `json:"role" validate:"required,role"`
	AvatarURL        string   `json:"avatarUrl" validate:"omitempty,url"`
	Email            string   `json:"email" validate:"omitempty,email"`
	Phone            string   `json:"phone" validate:"omitempty,e164"`
	LinkedStudentIDs []string `json:"linkedStudentIds" validate:"omitempty,dive,ident"`
	Specialization   string   `json:"specialization"`
	GradeLevel       string   `json:"gradeLevel"`
}

func (nu *NewUser) Validate(validate *validator.Validate) error {
	nu.ID = core.CleanString(nu.ID)
	nu.Name = core.CleanString(nu.Name)
	nu.Role = Role(core.CleanString(string(nu.Role), true /* lower */))
	nu.Email = core.CleanString(nu.Email, true /* lower */)
	nu.Phone = core.CleanString(nu.Phone)
	return validate.Struct(nu)
}

// User builds the User to register, generating an id with newID when none was given.
func (nu NewUser) User(newID func() string) User {
	id := nu.ID
	if id == "" {
		id = newID()
	}
	return User{
		ID:               id,
		Name:             nu.Name,
		Role:             nu.Role,
		AvatarURL:        nu.AvatarURL,
		Email:            nu.Email,
		Phone:            nu.Phone,
		LinkedStudentIDs: nu.LinkedStudentIDs,
		Specialization:   nu.Specialization,
		GradeLevel:       nu.GradeLevel,
	}
}
