package echoapi

import (
	"github.com/rafidain/schoollink/core/school"
	"github.com/rafidain/schoollink/core/user"
)

type (
	loginRequest struct {
		ID string `json:"id" validate:"required"`
	}

	LoginResponse struct {
		Token string    `json:"token"`
		User  user.User `json:"user"`
	}

	attendanceRequest struct {
		Records school.AttendanceRecords `json:"records"`
	}

	sendMessageRequest struct {
		Content string `json:"content"`
	}
)
