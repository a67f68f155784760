package handler

import (
	"net/http"

	"hostel-management-backend/internal/service"
	"hostel-management-backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// WardenHandler serves the warden surface: roster attendance, curfew alerts
// and the auto-send configuration.
type WardenHandler struct {
	attendanceService *service.AttendanceService
	alertService      *service.AlertService
	hostelService     *service.HostelService
	scope             *service.ScopeResolver
}

func NewWardenHandler(attendanceService *service.AttendanceService, alertService *service.AlertService, hostelService *service.HostelService, scope *service.ScopeResolver) *WardenHandler {
	return &WardenHandler{
		attendanceService: attendanceService,
		alertService:      alertService,
		hostelService:     hostelService,
		scope:             scope,
	}
}

// Attendance returns the tenant-wide punches, newest first.
func (h *WardenHandler) Attendance(c *gin.Context) {
	hostelID, ok := resolveScope(c, h.scope)
	if !ok {
		return
	}
	punches, err := h.attendanceService.ForRoster(c.Request.Context(), hostelID)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, punches)
}

type CurfewAlertRequest struct {
	Date string `json:"date" binding:"omitempty,datetime=2006-01-02"`
}

// SendCurfewAlerts evaluates the night's check-ins and messages guardians of
// late arrivals.
func (h *WardenHandler) SendCurfewAlerts(c *gin.Context) {
	hostelID, ok := resolveScope(c, h.scope)
	if !ok {
		return
	}
	var req CurfewAlertRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.ErrorResponse(c, http.StatusBadRequest, "date must be YYYY-MM-DD")
			return
		}
	}
	report, err := h.alertService.SendCurfewAlerts(c.Request.Context(), hostelID, req.Date)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, report)
}

// GetAutoSend returns the hostel's curfew auto-send configuration.
func (h *WardenHandler) GetAutoSend(c *gin.Context) {
	hostelID, ok := resolveScope(c, h.scope)
	if !ok {
		return
	}
	cfg, err := h.hostelService.GetAutoSend(c.Request.Context(), hostelID)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, cfg)
}

type AutoSendRequest struct {
	Mode    string `json:"autoSendMode" binding:"required,oneof=frontend backend disabled"`
	Enabled bool   `json:"autoSendEnabled"`
}

// SetAutoSend updates the hostel's curfew auto-send configuration.
func (h *WardenHandler) SetAutoSend(c *gin.Context) {
	hostelID, ok := resolveScope(c, h.scope)
	if !ok {
		return
	}
	var req AutoSendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	cfg, err := h.hostelService.SetAutoSend(c.Request.Context(), hostelID, service.AutoSendConfig{
		Mode:    req.Mode,
		Enabled: req.Enabled,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, cfg)
}
