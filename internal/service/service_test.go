package service

import (
	"errors"
	"testing"

	"hostel-management-backend/pkg/utils"
)

// Bootstrap rule: the first password set needs no proof, later rotations do.
func TestCheckPasswordChange(t *testing.T) {
	hash, err := utils.HashPassword("old-pass")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}

	if err := checkPasswordChange("", ""); err != nil {
		t.Errorf("no existing hash: err = %v, want nil", err)
	}
	if err := checkPasswordChange(hash, ""); !errors.Is(err, ErrCurrentPasswordRequired) {
		t.Errorf("missing current: err = %v, want ErrCurrentPasswordRequired", err)
	}
	if err := checkPasswordChange(hash, "wrong"); !errors.Is(err, ErrWrongCurrentPassword) {
		t.Errorf("wrong current: err = %v, want ErrWrongCurrentPassword", err)
	}
	if err := checkPasswordChange(hash, "old-pass"); err != nil {
		t.Errorf("correct current: err = %v, want nil", err)
	}
}
