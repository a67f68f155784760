package handler

import (
	"net/http"

	"hostel-management-backend/internal/middleware"
	"hostel-management-backend/internal/models"
	"hostel-management-backend/internal/service"
	"hostel-management-backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
)

// StaffHandler serves the staff/warden tenant surface: students, room
// lookups and self-service.
type StaffHandler struct {
	studentService *service.StudentService
	roomService    *service.RoomService
	staffService   *service.StaffService
	scope          *service.ScopeResolver
}

func NewStaffHandler(studentService *service.StudentService, roomService *service.RoomService, staffService *service.StaffService, scope *service.ScopeResolver) *StaffHandler {
	return &StaffHandler{
		studentService: studentService,
		roomService:    roomService,
		staffService:   staffService,
		scope:          scope,
	}
}

// ListStudents returns the tenant's students.
func (h *StaffHandler) ListStudents(c *gin.Context) {
	hostelID, ok := resolveScope(c, h.scope)
	if !ok {
		return
	}
	students, err := h.studentService.List(c.Request.Context(), hostelID)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, students)
}

// GetStudent returns one owned student.
func (h *StaffHandler) GetStudent(c *gin.Context) {
	hostelID, ok := resolveScope(c, h.scope)
	if !ok {
		return
	}
	student, err := h.studentService.Get(c.Request.Context(), c.Param("id"), hostelID)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, student)
}

type GuardianRequest struct {
	Name                   string `json:"name"`
	PrimaryPhone           string `json:"primaryPhone"`
	WhatsappPhone          string `json:"whatsappPhone"`
	Relationship           string `json:"relationship"`
	NotificationPreference string `json:"notificationPreference"`
}

type CreateStudentRequest struct {
	Name             string           `json:"name" binding:"required"`
	UserID           string           `json:"user_id"`
	StudentID        string           `json:"studentId"`
	Email            string           `json:"email" binding:"omitempty,email"`
	Phone            string           `json:"phone"`
	Course           string           `json:"course"`
	Year             string           `json:"year"`
	Department       string           `json:"department"`
	EmergencyContact string           `json:"emergencyContact"`
	Guardian         *GuardianRequest `json:"guardian"`
	RoomID           string           `json:"roomId"`
	BedNumber        string           `json:"bedNumber"`
}

// CreateStudent adds a student, optionally reserving a bed and mailing an
// invite.
func (h *StaffHandler) CreateStudent(c *gin.Context) {
	hostelID, ok := resolveScope(c, h.scope)
	if !ok {
		return
	}
	var req CreateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	student, err := h.studentService.Create(c.Request.Context(), hostelID, service.CreateStudentInput{
		Name:             req.Name,
		UserID:           req.UserID,
		StudentID:        req.StudentID,
		Email:            req.Email,
		Phone:            req.Phone,
		Course:           req.Course,
		Year:             req.Year,
		Department:       req.Department,
		EmergencyContact: req.EmergencyContact,
		Guardian:         guardianModel(req.Guardian),
		RoomID:           req.RoomID,
		BedNumber:        req.BedNumber,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	utils.CreatedResponse(c, student)
}

type UpdateStudentRequest struct {
	Name             *string          `json:"name"`
	UserID           *string          `json:"user_id"`
	StudentID        *string          `json:"studentId"`
	Email            *string          `json:"email" binding:"omitempty,email"`
	Phone            *string          `json:"phone"`
	Course           *string          `json:"course"`
	Year             *string          `json:"year"`
	Department       *string          `json:"department"`
	EmergencyContact *string          `json:"emergencyContact"`
	Guardian         *GuardianRequest `json:"guardian"`
	RoomID           *string          `json:"roomId"`
	BedNumber        *string          `json:"bedNumber"`
}

// UpdateStudent mutates an owned student, handling email rotation and room
// moves.
func (h *StaffHandler) UpdateStudent(c *gin.Context) {
	hostelID, ok := resolveScope(c, h.scope)
	if !ok {
		return
	}
	var req UpdateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	fields := bson.M{}
	if req.Name != nil {
		fields["name"] = *req.Name
	}
	if req.StudentID != nil {
		fields["studentId"] = *req.StudentID
	}
	if req.Phone != nil {
		fields["phone"] = *req.Phone
	}
	if req.Course != nil {
		fields["course"] = *req.Course
	}
	if req.Year != nil {
		fields["year"] = *req.Year
	}
	if req.Department != nil {
		fields["department"] = *req.Department
	}
	if req.EmergencyContact != nil {
		fields["emergencyContact"] = *req.EmergencyContact
	}
	if req.Guardian != nil {
		fields["guardian"] = guardianModel(req.Guardian)
	}

	student, err := h.studentService.Update(c.Request.Context(), c.Param("id"), hostelID, service.UpdateStudentInput{
		Fields:    fields,
		Email:     req.Email,
		UserID:    req.UserID,
		RoomID:    req.RoomID,
		BedNumber: req.BedNumber,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, student)
}

// DeleteStudent removes an owned student, freeing their bed.
func (h *StaffHandler) DeleteStudent(c *gin.Context) {
	hostelID, ok := resolveScope(c, h.scope)
	if !ok {
		return
	}
	if err := h.studentService.Delete(c.Request.Context(), c.Param("id"), hostelID); err != nil {
		respondError(c, err)
		return
	}
	utils.MessageResponse(c, "Student deleted")
}

type ResendStudentInvitationRequest struct {
	StudentID string `json:"studentId" binding:"required"`
}

// ResendStudentInvitation rotates and re-mails the student credentials; a
// delivery failure reverts the rotation.
func (h *StaffHandler) ResendStudentInvitation(c *gin.Context) {
	hostelID, ok := resolveScope(c, h.scope)
	if !ok {
		return
	}
	var req ResendStudentInvitationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.studentService.ResendInvitation(c.Request.Context(), req.StudentID, hostelID); err != nil {
		respondError(c, err)
		return
	}
	utils.MessageResponse(c, "Invitation sent")
}

// ListRooms returns the tenant's rooms.
func (h *StaffHandler) ListRooms(c *gin.Context) {
	hostelID, ok := resolveScope(c, h.scope)
	if !ok {
		return
	}
	rooms, err := h.roomService.List(c.Request.Context(), hostelID)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, rooms)
}

// VacantRooms returns rooms with at least one free bed.
func (h *StaffHandler) VacantRooms(c *gin.Context) {
	hostelID, ok := resolveScope(c, h.scope)
	if !ok {
		return
	}
	rooms, err := h.roomService.Vacant(c.Request.Context(), hostelID)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, rooms)
}

// AllocationHistory returns the tenant-wide recent allocation entries.
func (h *StaffHandler) AllocationHistory(c *gin.Context) {
	hostelID, ok := resolveScope(c, h.scope)
	if !ok {
		return
	}
	records, err := h.roomService.AllocationHistory(c.Request.Context(), hostelID)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, records)
}

// ChangePassword rotates the staff member's own password.
func (h *StaffHandler) ChangePassword(c *gin.Context) {
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
	if err := h.staffService.ChangePassword(c.Request.Context(), claims.ID, req.CurrentPassword, req.NewPassword); err != nil {
		respondError(c, err)
		return
	}
	utils.MessageResponse(c, "Password updated")
}

func guardianModel(g *GuardianRequest) *models.Guardian {
	if g == nil {
		return nil
	}
	return &models.Guardian{
		Name:                   g.Name,
		PrimaryPhone:           g.PrimaryPhone,
		WhatsappPhone:          g.WhatsappPhone,
		Relationship:           g.Relationship,
		NotificationPreference: g.NotificationPreference,
	}
}
