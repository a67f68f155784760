package service

import (
	"errors"

	"hostel-management-backend/pkg/utils"
)

// Sentinel errors mapped to response statuses by the handlers.
var (
	ErrInvalidCredentials      = errors.New("invalid credentials")
	ErrForbidden               = errors.New("forbidden")
	ErrConflict                = errors.New("record already exists")
	ErrCurrentPasswordRequired = errors.New("current password is required")
	ErrWrongCurrentPassword    = errors.New("current password is incorrect")
)

// Temporary password lengths used by the invite flows.
const (
	tempPasswordLenHostel = 12
	tempPasswordLenStaff  = 10
)

// checkPasswordChange enforces the password rotation precondition. A record
// that has no hash yet accepts the first password without proof; once a hash
// exists, the current password must verify.
func checkPasswordChange(existingHash, currentPassword string) error {
	if existingHash == "" {
		return nil
	}
	if currentPassword == "" {
		return ErrCurrentPasswordRequired
	}
	if !utils.ComparePassword(existingHash, currentPassword) {
		return ErrWrongCurrentPassword
	}
	return nil
}
