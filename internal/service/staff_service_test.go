package service

import (
	"context"
	"testing"
	"time"

	"hostel-management-backend/internal/config"
	"hostel-management-backend/internal/models"
	"hostel-management-backend/pkg/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Creating a staff member issues a temporary password that immediately works
// for login, with the stored role carried into the token.
func TestStaffInviteTemporaryPasswordLogsIn(t *testing.T) {
	utils.InitJWT("test-secret", time.Hour)
	store := &fakeStaffStore{}
	mailer := &fakeMailer{}
	staffSvc := NewStaffService(store, mailer)

	created, err := staffSvc.Create(context.Background(), primitive.NewObjectID(), CreateStaffInput{
		Name:  "Jay",
		Role:  models.RoleWarden,
		Email: "j@x.com",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID.IsZero() {
		t.Fatal("created staff has no id")
	}
	if len(mailer.sent) != 1 {
		t.Fatalf("sent %d invites, want 1", len(mailer.sent))
	}
	plain := mailer.sent[0].PlainPassword
	if len(plain) != 10 {
		t.Fatalf("temp password length = %d, want 10", len(plain))
	}

	auth := NewAuthService(config.SuperAdminConfig{},
		fakeHostelFinder{},
		fakeStaffFinder{staff: &store.staff},
		fakeStudentFinder{},
	)
	resp, err := auth.Login(context.Background(), "j@x.com", plain)
	if err != nil {
		t.Fatalf("Login with invited password: %v", err)
	}
	if resp.User.Role != models.RoleWarden {
		t.Errorf("role = %q, want the stored role", resp.User.Role)
	}
	if resp.User.ID != created.ID.Hex() {
		t.Errorf("principal id = %q, want %q", resp.User.ID, created.ID.Hex())
	}

	// The old invite password is single-use only in the sense that a resend
	// rotates it; a wrong password still fails closed.
	if _, err := auth.Login(context.Background(), "j@x.com", "not-the-password"); err == nil {
		t.Fatal("wrong password accepted")
	}
}
