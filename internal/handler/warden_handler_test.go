package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"hostel-management-backend/internal/middleware"
	"hostel-management-backend/internal/models"
	"hostel-management-backend/internal/repository"
	"hostel-management-backend/internal/service"
	"hostel-management-backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type staffRecordStub struct{ staff *models.Staff }

func (s staffRecordStub) FindByID(_ context.Context, id string) (*models.Staff, error) {
	if s.staff != nil && s.staff.ID.Hex() == id {
		return s.staff, nil
	}
	return nil, repository.ErrNotFound
}

type studentRecordStub struct{}

func (studentRecordStub) FindByID(_ context.Context, _ string) (*models.Student, error) {
	return nil, repository.ErrNotFound
}

type hostelRecordStub struct{ hostel *models.Hostel }

func (s hostelRecordStub) FindByID(_ context.Context, id string) (*models.Hostel, error) {
	if s.hostel != nil && s.hostel.ID.Hex() == id {
		return s.hostel, nil
	}
	return nil, repository.ErrNotFound
}

type rosterStudentsStub struct{ students []models.Student }

func (s rosterStudentsStub) FindByID(_ context.Context, _ string) (*models.Student, error) {
	return nil, repository.ErrNotFound
}

func (s rosterStudentsStub) ListByHostel(_ context.Context, _ primitive.ObjectID) ([]models.Student, error) {
	return s.students, nil
}

type punchLogStub struct{ docs []bson.M }

func (s punchLogStub) FindPunches(_ context.Context, _ string, filter bson.M, _ int64) ([]bson.M, error) {
	if filter == nil {
		return []bson.M{}, nil
	}
	return s.docs, nil
}

func (s punchLogStub) FindPunchesBetween(_ context.Context, _ string, _ bson.M, _, _ time.Time) ([]bson.M, error) {
	return s.docs, nil
}

// newWardenRouter wires the warden group the way the server does: the
// roster view admits staff, the rest of the group does not.
func newWardenRouter(t *testing.T, staff *models.Staff, hostel *models.Hostel) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	utils.InitJWT("warden-test-secret", time.Hour)

	scope := service.NewScopeResolver(staffRecordStub{staff: staff}, studentRecordStub{})
	attendance := service.NewAttendanceService(
		hostelRecordStub{hostel: hostel},
		rosterStudentsStub{students: []models.Student{{UserID: "1001"}}},
		punchLogStub{docs: []bson.M{{"user_id": "1001", "timestamp_utc": "2026-02-10 22:00:00", "punch": 0}}},
	)
	h := NewWardenHandler(attendance, nil, nil, scope)

	r := gin.New()
	warden := r.Group("/warden")
	warden.Use(middleware.RequireAuth())
	warden.GET("/attendance",
		middleware.RequireRoles(models.RoleStaff, models.RoleWarden, models.RoleHostelAdmin),
		h.Attendance)
	wardenOnly := warden.Group("")
	wardenOnly.Use(middleware.RequireRoles(models.RoleWarden, models.RoleHostelAdmin))
	wardenOnly.POST("/auto-send-toggle", h.SetAutoSend)
	return r
}

func wardenGet(r *gin.Engine, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRosterAttendanceAdmitsStaffRole(t *testing.T) {
	hostel := &models.Hostel{ID: primitive.NewObjectID(), Name: "Alpha Hall"}
	staff := &models.Staff{
		ID:       primitive.NewObjectID(),
		HostelID: hostel.ID,
		Name:     "Jay",
		Role:     models.RoleStaff,
		Email:    "jay@example.com",
	}
	r := newWardenRouter(t, staff, hostel)

	token, err := utils.SignToken(staff.ID.Hex(), staff.Email, models.RoleStaff)
	if err != nil {
		t.Fatal(err)
	}

	w := wardenGet(r, "/warden/attendance", token)
	if w.Code != http.StatusOK {
		t.Fatalf("staff roster view status = %d, want 200: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil || !resp.Success {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
}

func TestRosterAttendanceAdmitsWardenRole(t *testing.T) {
	hostel := &models.Hostel{ID: primitive.NewObjectID(), Name: "Alpha Hall"}
	warden := &models.Staff{
		ID:       primitive.NewObjectID(),
		HostelID: hostel.ID,
		Name:     "Kim",
		Role:     models.RoleWarden,
		Email:    "kim@example.com",
	}
	r := newWardenRouter(t, warden, hostel)

	token, err := utils.SignToken(warden.ID.Hex(), warden.Email, models.RoleWarden)
	if err != nil {
		t.Fatal(err)
	}
	if w := wardenGet(r, "/warden/attendance", token); w.Code != http.StatusOK {
		t.Fatalf("warden roster view status = %d, want 200: %s", w.Code, w.Body.String())
	}
}

// Staff may read the roster but not touch the alert configuration.
func TestAutoSendToggleRejectsStaffRole(t *testing.T) {
	hostel := &models.Hostel{ID: primitive.NewObjectID(), Name: "Alpha Hall"}
	staff := &models.Staff{
		ID:       primitive.NewObjectID(),
		HostelID: hostel.ID,
		Role:     models.RoleStaff,
		Email:    "jay@example.com",
	}
	r := newWardenRouter(t, staff, hostel)

	token, err := utils.SignToken(staff.ID.Hex(), staff.Email, models.RoleStaff)
	if err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodPost, "/warden/auto-send-toggle",
		strings.NewReader(`{"autoSendMode":"backend","autoSendEnabled":true}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", w.Code)
	}
}
