package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"hostel-management-backend/internal/config"
	"hostel-management-backend/internal/middleware"
	"hostel-management-backend/internal/models"
	"hostel-management-backend/internal/repository"
	"hostel-management-backend/internal/service"
	"hostel-management-backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

type hostelFinderStub struct{ hostel *models.Hostel }

func (s hostelFinderStub) FindByContactEmail(_ context.Context, email string) (*models.Hostel, error) {
	if s.hostel != nil && s.hostel.ContactEmail == email {
		return s.hostel, nil
	}
	return nil, repository.ErrNotFound
}

type staffFinderStub struct{ staff *models.Staff }

func (s staffFinderStub) FindByEmail(_ context.Context, email string) (*models.Staff, error) {
	if s.staff != nil && s.staff.Email == email {
		return s.staff, nil
	}
	return nil, repository.ErrNotFound
}

type studentFinderStub struct{ student *models.Student }

func (s studentFinderStub) FindByEmail(_ context.Context, email string) (*models.Student, error) {
	if s.student != nil && s.student.Email == email {
		return s.student, nil
	}
	return nil, repository.ErrNotFound
}

func hashFor(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	return string(h)
}

func newAuthRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	utils.InitJWT("handler-test-secret", time.Hour)

	auth := service.NewAuthService(
		config.SuperAdminConfig{Email: "root@example.com", Password: "root-pass"},
		hostelFinderStub{hostel: &models.Hostel{
			ID:           primitive.NewObjectID(),
			Name:         "Alpha Hall",
			ContactEmail: "admin@alpha.example.com",
			PasswordHash: hashFor(t, "alpha-pass"),
		}},
		staffFinderStub{},
		studentFinderStub{},
	)

	h := NewAuthHandler(auth)
	r := gin.New()
	r.POST("/auth/login", h.Login)
	r.GET("/auth/me", middleware.RequireAuth(), h.Me)
	return r
}

func postLogin(r *gin.Engine, email, password string) *httptest.ResponseRecorder {
	body, _ := json.Marshal(gin.H{"email": email, "password": password})
	req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestLoginSuperAdmin(t *testing.T) {
	r := newAuthRouter(t)

	w := postLogin(r, "root@example.com", "root-pass")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			Token string            `json:"token"`
			User  service.Principal `json:"user"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Success || resp.Data.Token == "" {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
	if resp.Data.User.Role != models.RoleSuperAdmin {
		t.Errorf("role = %q, want super-admin", resp.Data.User.Role)
	}

	claims := utils.VerifyToken(resp.Data.Token)
	if claims == nil || claims.Role != models.RoleSuperAdmin {
		t.Fatalf("issued token does not verify to a super-admin: %+v", claims)
	}
}

func TestLoginHostelAdmin(t *testing.T) {
	r := newAuthRouter(t)

	w := postLogin(r, "admin@alpha.example.com", "alpha-pass")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}
}

// Every rejection is the same status and body regardless of which step
// rejected it, so a caller cannot probe which emails exist.
func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	r := newAuthRouter(t)

	unknownUser := postLogin(r, "nobody@example.com", "whatever")
	wrongPassword := postLogin(r, "admin@alpha.example.com", "wrong")

	if unknownUser.Code != http.StatusUnauthorized || wrongPassword.Code != http.StatusUnauthorized {
		t.Fatalf("statuses = %d/%d, want 401/401", unknownUser.Code, wrongPassword.Code)
	}
	if unknownUser.Body.String() != wrongPassword.Body.String() {
		t.Errorf("bodies differ:\n%s\n%s", unknownUser.Body.String(), wrongPassword.Body.String())
	}
}

func TestMeRequiresToken(t *testing.T) {
	r := newAuthRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("garbage token status = %d, want 401", w.Code)
	}
}

func TestMeReturnsPrincipal(t *testing.T) {
	r := newAuthRouter(t)

	login := postLogin(r, "root@example.com", "root-pass")
	var resp struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	if err := json.Unmarshal(login.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+resp.Data.Token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}
}
