package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"hostel-management-backend/internal/config"
	"hostel-management-backend/internal/models"
	"hostel-management-backend/internal/repository"
	"hostel-management-backend/pkg/utils"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var loginAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "auth_login_attempts_total",
	Help: "Login attempts by outcome and resolved role.",
}, []string{"outcome", "role"})

// Principal is the authenticated identity produced by a successful login.
type Principal struct {
	ID    string `json:"id"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// LoginResponse is returned by POST /auth/login.
type LoginResponse struct {
	Token string    `json:"token"`
	User  Principal `json:"user"`
}

// credentialResolver is one strategy of the login pipeline. It reports
// (principal, true, nil) on success and (nil, false, nil) when the credential
// pair does not belong to its principal type; only infrastructure failures
// return an error.
type credentialResolver interface {
	tryAuthenticate(ctx context.Context, email, password string) (*Principal, bool, error)
}

type hostelByEmailFinder interface {
	FindByContactEmail(ctx context.Context, email string) (*models.Hostel, error)
}

type staffByEmailFinder interface {
	FindByEmail(ctx context.Context, email string) (*models.Staff, error)
}

type studentByEmailFinder interface {
	FindByEmail(ctx context.Context, email string) (*models.Student, error)
}

// superAdminResolver checks the out-of-band bootstrap pair. An unset pair
// simply never matches, which leaves super-admin login disabled without
// affecting the other principal types. Both identifier and password must
// equal the configured values byte for byte; the stored-principal resolvers
// below are the only case-insensitive ones.
type superAdminResolver struct {
	email    string
	password string
}

func (r superAdminResolver) tryAuthenticate(_ context.Context, email, password string) (*Principal, bool, error) {
	if r.email == "" || r.password == "" {
		return nil, false, nil
	}
	if email != r.email || password != r.password {
		return nil, false, nil
	}
	return &Principal{
		ID:    models.SuperAdminID,
		Name:  "Super Admin",
		Email: r.email,
		Role:  models.RoleSuperAdmin,
	}, true, nil
}

type hostelAdminResolver struct {
	hostels hostelByEmailFinder
}

func (r hostelAdminResolver) tryAuthenticate(ctx context.Context, email, password string) (*Principal, bool, error) {
	hostel, err := r.hostels.FindByContactEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, false, nil
		}
		return nil, false, err
	}
	if hostel.PasswordHash == "" || !utils.ComparePassword(hostel.PasswordHash, password) {
		return nil, false, nil
	}
	return &Principal{
		ID:    hostel.ID.Hex(),
		Name:  hostel.Name,
		Email: hostel.ContactEmail,
		Role:  models.RoleHostelAdmin,
	}, true, nil
}

type staffResolver struct {
	staff staffByEmailFinder
}

func (r staffResolver) tryAuthenticate(ctx context.Context, email, password string) (*Principal, bool, error) {
	staff, err := r.staff.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, false, nil
		}
		return nil, false, err
	}
	if staff.PasswordHash == "" || !utils.ComparePassword(staff.PasswordHash, password) {
		return nil, false, nil
	}
	return &Principal{
		ID:    staff.ID.Hex(),
		Name:  staff.Name,
		Email: staff.Email,
		Role:  staff.Role,
	}, true, nil
}

type studentResolver struct {
	students studentByEmailFinder
}

func (r studentResolver) tryAuthenticate(ctx context.Context, email, password string) (*Principal, bool, error) {
	student, err := r.students.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, false, nil
		}
		return nil, false, err
	}
	if student.PasswordHash == "" || !utils.ComparePassword(student.PasswordHash, password) {
		return nil, false, nil
	}
	return &Principal{
		ID:    student.ID.Hex(),
		Name:  student.Name,
		Email: student.Email,
		Role:  models.RoleStudent,
	}, true, nil
}

// AuthService resolves a single credential pair against the four principal
// types in fixed precedence order.
type AuthService struct {
	resolvers []credentialResolver
}

func NewAuthService(superAdmin config.SuperAdminConfig, hostels hostelByEmailFinder, staff staffByEmailFinder, students studentByEmailFinder) *AuthService {
	return &AuthService{
		// Order is load-bearing: a hostel contact email shadows an identical
		// staff email, which shadows an identical student email.
		resolvers: []credentialResolver{
			superAdminResolver{email: superAdmin.Email, password: superAdmin.Password},
			hostelAdminResolver{hostels: hostels},
			staffResolver{staff: staff},
			studentResolver{students: students},
		},
	}
}

// Login runs the resolver pipeline and signs a token for the first match.
// Every non-match, wrong password included, collapses into one generic
// ErrInvalidCredentials so callers cannot enumerate accounts.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	// The bootstrap pair is matched byte for byte; stored principals are
	// looked up case-insensitively by their repositories.
	email = strings.TrimSpace(email)
	for _, resolver := range s.resolvers {
		principal, ok, err := resolver.tryAuthenticate(ctx, email, password)
		if err != nil {
			return nil, fmt.Errorf("resolve principal: %w", err)
		}
		if !ok {
			continue
		}
		token, err := utils.SignToken(principal.ID, principal.Email, principal.Role)
		if err != nil {
			return nil, fmt.Errorf("sign token: %w", err)
		}
		loginAttempts.WithLabelValues("success", principal.Role).Inc()
		return &LoginResponse{Token: token, User: *principal}, nil
	}
	loginAttempts.WithLabelValues("failure", "none").Inc()
	return nil, ErrInvalidCredentials
}

// Me echoes the verified claims back as a principal.
func (s *AuthService) Me(claims *utils.Claims) Principal {
	return Principal{ID: claims.ID, Email: claims.Email, Role: claims.Role}
}
