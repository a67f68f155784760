package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"hostel-management-backend/internal/config"
	"hostel-management-backend/internal/models"
	"hostel-management-backend/internal/repository"
	"hostel-management-backend/pkg/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeHostelFinder struct{ hostel *models.Hostel }

func (f fakeHostelFinder) FindByContactEmail(_ context.Context, email string) (*models.Hostel, error) {
	if f.hostel != nil && f.hostel.ContactEmail == email {
		return f.hostel, nil
	}
	return nil, repository.ErrNotFound
}

type fakeStaffFinder struct{ staff *models.Staff }

func (f fakeStaffFinder) FindByEmail(_ context.Context, email string) (*models.Staff, error) {
	if f.staff != nil && f.staff.Email == email {
		return f.staff, nil
	}
	return nil, repository.ErrNotFound
}

type fakeStudentFinder struct{ student *models.Student }

func (f fakeStudentFinder) FindByEmail(_ context.Context, email string) (*models.Student, error) {
	if f.student != nil && f.student.Email == email {
		return f.student, nil
	}
	return nil, repository.ErrNotFound
}

func mustHash(t *testing.T, password string) string {
	t.Helper()
	hash, err := utils.HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	return hash
}

func newTestAuthService(t *testing.T, superAdmin config.SuperAdminConfig, hostel *models.Hostel, staff *models.Staff, student *models.Student) *AuthService {
	t.Helper()
	utils.InitJWT("test-secret", time.Hour)
	return NewAuthService(superAdmin,
		fakeHostelFinder{hostel: hostel},
		fakeStaffFinder{staff: staff},
		fakeStudentFinder{student: student},
	)
}

func TestLoginSuperAdmin(t *testing.T) {
	svc := newTestAuthService(t, config.SuperAdminConfig{
		Email:    "root@example.com",
		Password: "root-pass",
	}, nil, nil, nil)

	resp, err := svc.Login(context.Background(), "root@example.com", "root-pass")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if resp.User.Role != models.RoleSuperAdmin || resp.User.ID != models.SuperAdminID {
		t.Errorf("unexpected principal: %+v", resp.User)
	}

	claims := utils.VerifyToken(resp.Token)
	if claims == nil {
		t.Fatal("issued token did not verify")
	}
	if claims.ID != models.SuperAdminID || claims.Role != models.RoleSuperAdmin {
		t.Errorf("token claims = %+v", claims)
	}
}

// The bootstrap identifier is matched byte for byte, never case-folded.
func TestLoginSuperAdminEmailExactMatch(t *testing.T) {
	svc := newTestAuthService(t, config.SuperAdminConfig{
		Email:    "root@example.com",
		Password: "root-pass",
	}, nil, nil, nil)

	_, err := svc.Login(context.Background(), "Root@Example.com", "root-pass")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("err = %v, want ErrInvalidCredentials", err)
	}
}

func TestLoginSuperAdminUnsetPairNeverMatches(t *testing.T) {
	svc := newTestAuthService(t, config.SuperAdminConfig{}, nil, nil, nil)

	_, err := svc.Login(context.Background(), "anything@example.com", "")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("err = %v, want ErrInvalidCredentials", err)
	}
}

// A hostel contact email always shadows an identical staff email.
func TestLoginPrecedenceHostelOverStaff(t *testing.T) {
	hash := mustHash(t, "shared-pass")
	hostel := &models.Hostel{
		ID:           primitive.NewObjectID(),
		Name:         "Alpha Hall",
		ContactEmail: "shared@example.com",
		PasswordHash: hash,
	}
	staff := &models.Staff{
		ID:           primitive.NewObjectID(),
		Name:         "Jay",
		Role:         models.RoleWarden,
		Email:        "shared@example.com",
		PasswordHash: hash,
	}
	svc := newTestAuthService(t, config.SuperAdminConfig{}, hostel, staff, nil)

	resp, err := svc.Login(context.Background(), "shared@example.com", "shared-pass")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if resp.User.Role != models.RoleHostelAdmin {
		t.Errorf("role = %q, want hostel-admin", resp.User.Role)
	}
	if resp.User.ID != hostel.ID.Hex() {
		t.Errorf("subject = %q, want hostel id", resp.User.ID)
	}
}

func TestLoginStaffKeepsStoredRole(t *testing.T) {
	staff := &models.Staff{
		ID:           primitive.NewObjectID(),
		Name:         "Jay",
		Role:         models.RoleWarden,
		Email:        "warden@example.com",
		PasswordHash: mustHash(t, "warden-pass"),
	}
	svc := newTestAuthService(t, config.SuperAdminConfig{}, nil, staff, nil)

	resp, err := svc.Login(context.Background(), "warden@example.com", "warden-pass")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if resp.User.Role != models.RoleWarden {
		t.Errorf("role = %q, want warden", resp.User.Role)
	}
}

func TestLoginStudent(t *testing.T) {
	student := &models.Student{
		ID:           primitive.NewObjectID(),
		Name:         "Sam",
		Email:        "sam@example.com",
		PasswordHash: mustHash(t, "sam-pass"),
	}
	svc := newTestAuthService(t, config.SuperAdminConfig{}, nil, nil, student)

	resp, err := svc.Login(context.Background(), "sam@example.com", "sam-pass")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if resp.User.Role != models.RoleStudent {
		t.Errorf("role = %q, want student", resp.User.Role)
	}
}

// A missing principal and a wrong password are indistinguishable.
func TestLoginCredentialOpacity(t *testing.T) {
	staff := &models.Staff{
		ID:           primitive.NewObjectID(),
		Role:         models.RoleStaff,
		Email:        "known@example.com",
		PasswordHash: mustHash(t, "right-pass"),
	}
	svc := newTestAuthService(t, config.SuperAdminConfig{}, nil, staff, nil)

	_, errUnknown := svc.Login(context.Background(), "nobody@example.com", "whatever")
	_, errWrongPass := svc.Login(context.Background(), "known@example.com", "wrong-pass")

	if !errors.Is(errUnknown, ErrInvalidCredentials) || !errors.Is(errWrongPass, ErrInvalidCredentials) {
		t.Fatalf("errors differ from sentinel: %v / %v", errUnknown, errWrongPass)
	}
	if errUnknown.Error() != errWrongPass.Error() {
		t.Errorf("error messages differ: %q vs %q", errUnknown, errWrongPass)
	}
}

// An account whose invite never completed has no hash and cannot log in.
func TestLoginEmptyHashRejected(t *testing.T) {
	staff := &models.Staff{
		ID:    primitive.NewObjectID(),
		Role:  models.RoleStaff,
		Email: "pending@example.com",
	}
	svc := newTestAuthService(t, config.SuperAdminConfig{}, nil, staff, nil)

	_, err := svc.Login(context.Background(), "pending@example.com", "")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("err = %v, want ErrInvalidCredentials", err)
	}
}

func TestLoginSuperAdminWrongPasswordFallsThrough(t *testing.T) {
	hostel := &models.Hostel{
		ID:           primitive.NewObjectID(),
		ContactEmail: "root@example.com",
		PasswordHash: mustHash(t, "hostel-pass"),
	}
	svc := newTestAuthService(t, config.SuperAdminConfig{
		Email:    "root@example.com",
		Password: "root-pass",
	}, hostel, nil, nil)

	// The hostel resolver still gets its turn after the env pair misses.
	resp, err := svc.Login(context.Background(), "root@example.com", "hostel-pass")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if resp.User.Role != models.RoleHostelAdmin {
		t.Errorf("role = %q, want hostel-admin", resp.User.Role)
	}
}
