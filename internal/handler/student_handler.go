package handler

import (
	"net/http"

	"hostel-management-backend/internal/middleware"
	"hostel-management-backend/internal/service"
	"hostel-management-backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// StudentHandler serves the student's self-scoped views.
type StudentHandler struct {
	studentService    *service.StudentService
	attendanceService *service.AttendanceService
}

func NewStudentHandler(studentService *service.StudentService, attendanceService *service.AttendanceService) *StudentHandler {
	return &StudentHandler{studentService: studentService, attendanceService: attendanceService}
}

// Profile returns the student's own record.
func (h *StudentHandler) Profile(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		utils.ErrorResponse(c, http.StatusUnauthorized, "Authentication required")
		return
	}
	student, err := h.studentService.Profile(c.Request.Context(), claims.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, student)
}

// Room returns the student's room, roommates and hostel.
func (h *StudentHandler) Room(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		utils.ErrorResponse(c, http.StatusUnauthorized, "Authentication required")
		return
	}
	view, err := h.studentService.Room(c.Request.Context(), claims.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, view)
}

// Attendance returns the student's own punches in chronological order.
func (h *StudentHandler) Attendance(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		utils.ErrorResponse(c, http.StatusUnauthorized, "Authentication required")
		return
	}
	punches, err := h.attendanceService.ForStudent(c.Request.Context(), claims.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, punches)
}

// ChangePassword rotates the student's own password.
func (h *StudentHandler) ChangePassword(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		utils.ErrorResponse(c, http.StatusUnauthorized, "Authentication required")
		return
	}
	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "New password must be at least 8 characters")
		return
	}
	if err := h.studentService.ChangePassword(c.Request.Context(), claims.ID, req.CurrentPassword, req.NewPassword); err != nil {
		respondError(c, err)
		return
	}
	utils.MessageResponse(c, "Password updated")
}
