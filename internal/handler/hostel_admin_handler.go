package handler

import (
	"net/http"

	"hostel-management-backend/internal/models"
	"hostel-management-backend/internal/service"
	"hostel-management-backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
)

// HostelAdminHandler serves the hostel-admin tenant surface: hostel profile,
// rooms, staff and attendance devices.
type HostelAdminHandler struct {
	hostelService *service.HostelService
	roomService   *service.RoomService
	staffService  *service.StaffService
	deviceService *service.DeviceService
	scope         *service.ScopeResolver
}

func NewHostelAdminHandler(hostelService *service.HostelService, roomService *service.RoomService, staffService *service.StaffService, deviceService *service.DeviceService, scope *service.ScopeResolver) *HostelAdminHandler {
	return &HostelAdminHandler{
		hostelService: hostelService,
		roomService:   roomService,
		staffService:  staffService,
		deviceService: deviceService,
		scope:         scope,
	}
}

// GetHostel returns the admin's own hostel profile.
func (h *HostelAdminHandler) GetHostel(c *gin.Context) {
	hostelID, ok := resolveScope(c, h.scope)
	if !ok {
		return
	}
	hostel, err := h.hostelService.Get(c.Request.Context(), hostelID.Hex())
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, hostel)
}

type UpdateNightInTimeRequest struct {
	NightInTime string `json:"nightInTime" binding:"required,hhmm"`
}

// UpdateHostel mutates the curfew time, the only self-editable hostel field.
func (h *HostelAdminHandler) UpdateHostel(c *gin.Context) {
	hostelID, ok := resolveScope(c, h.scope)
	if !ok {
		return
	}
	var req UpdateNightInTimeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "nightInTime must be a valid HH:MM time")
		return
	}
	hostel, err := h.hostelService.UpdateNightInTime(c.Request.Context(), hostelID, req.NightInTime)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, hostel)
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword" binding:"required,min=8"`
}

// ChangePassword rotates the hostel-admin login password.
func (h *HostelAdminHandler) ChangePassword(c *gin.Context) {
	hostelID, ok := resolveScope(c, h.scope)
	if !ok {
		return
	}
	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "New password must be at least 8 characters")
		return
	}
	if err := h.hostelService.ChangePassword(c.Request.Context(), hostelID, req.CurrentPassword, req.NewPassword); err != nil {
		respondError(c, err)
		return
	}
	utils.MessageResponse(c, "Password updated")
}

// ListRooms returns the hostel's rooms.
func (h *HostelAdminHandler) ListRooms(c *gin.Context) {
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

type CreateRoomRequest struct {
	Number   string       `json:"number" binding:"required"`
	Name     string       `json:"name"`
	Capacity int          `json:"capacity" binding:"required_without=Beds,omitempty,min=1"`
	Beds     []models.Bed `json:"beds" binding:"omitempty,dive"`
}

// CreateRoom adds a room to the hostel.
func (h *HostelAdminHandler) CreateRoom(c *gin.Context) {
	hostelID, ok := resolveScope(c, h.scope)
	if !ok {
		return
	}
	var req CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	room, err := h.roomService.Create(c.Request.Context(), hostelID, service.CreateRoomInput{
		Number:   req.Number,
		Name:     req.Name,
		Capacity: req.Capacity,
		Beds:     req.Beds,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	utils.CreatedResponse(c, room)
}

type UpdateRoomRequest struct {
	Number *string      `json:"number"`
	Name   *string      `json:"name"`
	Beds   []models.Bed `json:"beds" binding:"omitempty,dive"`
}

// UpdateRoom mutates an owned room; a supplied bed list drives the occupancy
// recount.
func (h *HostelAdminHandler) UpdateRoom(c *gin.Context) {
	hostelID, ok := resolveScope(c, h.scope)
	if !ok {
		return
	}
	var req UpdateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	fields := bson.M{}
	if req.Number != nil {
		fields["number"] = *req.Number
	}
	if req.Name != nil {
		fields["name"] = *req.Name
	}
	room, err := h.roomService.Update(c.Request.Context(), c.Param("id"), hostelID, fields, req.Beds)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, room)
}

// DeleteRoom removes an owned, unoccupied room.
func (h *HostelAdminHandler) DeleteRoom(c *gin.Context) {
	hostelID, ok := resolveScope(c, h.scope)
	if !ok {
		return
	}
	if err := h.roomService.Delete(c.Request.Context(), c.Param("id"), hostelID); err != nil {
		respondError(c, err)
		return
	}
	utils.MessageResponse(c, "Room deleted")
}

// ListStaff returns the hostel's staff.
func (h *HostelAdminHandler) ListStaff(c *gin.Context) {
	hostelID, ok := resolveScope(c, h.scope)
	if !ok {
		return
	}
	staff, err := h.staffService.List(c.Request.Context(), hostelID)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, staff)
}

type CreateStaffRequest struct {
	Name  string `json:"name" binding:"required"`
	Role  string `json:"role" binding:"required,oneof=staff warden"`
	Email string `json:"email" binding:"omitempty,email"`
	Phone string `json:"phone"`
}

// CreateStaff adds a staff member and mails an invite when an email is set.
func (h *HostelAdminHandler) CreateStaff(c *gin.Context) {
	hostelID, ok := resolveScope(c, h.scope)
	if !ok {
		return
	}
	var req CreateStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	staff, err := h.staffService.Create(c.Request.Context(), hostelID, service.CreateStaffInput{
		Name:  req.Name,
		Role:  req.Role,
		Email: req.Email,
		Phone: req.Phone,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	utils.CreatedResponse(c, staff)
}

type UpdateStaffRequest struct {
	Name  *string `json:"name"`
	Role  *string `json:"role" binding:"omitempty,oneof=staff warden"`
	Email *string `json:"email" binding:"omitempty,email"`
	Phone *string `json:"phone"`
}

// UpdateStaff mutates an owned staff member; an email change rotates the
// temporary password and re-invites.
func (h *HostelAdminHandler) UpdateStaff(c *gin.Context) {
	hostelID, ok := resolveScope(c, h.scope)
	if !ok {
		return
	}
	var req UpdateStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	fields := bson.M{}
	if req.Name != nil {
		fields["name"] = *req.Name
	}
	if req.Role != nil {
		fields["role"] = *req.Role
	}
	if req.Email != nil {
		fields["email"] = *req.Email
	}
	if req.Phone != nil {
		fields["phone"] = *req.Phone
	}
	if len(fields) == 0 {
		utils.ErrorResponse(c, http.StatusBadRequest, "No fields to update")
		return
	}
	staff, err := h.staffService.Update(c.Request.Context(), c.Param("id"), hostelID, fields)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, staff)
}

// DeleteStaff removes an owned staff member.
func (h *HostelAdminHandler) DeleteStaff(c *gin.Context) {
	hostelID, ok := resolveScope(c, h.scope)
	if !ok {
		return
	}
	if err := h.staffService.Delete(c.Request.Context(), c.Param("id"), hostelID); err != nil {
		respondError(c, err)
		return
	}
	utils.MessageResponse(c, "Staff deleted")
}

type ResendStaffInvitationRequest struct {
	StaffID string `json:"staffId" binding:"required"`
}

// ResendStaffInvitation rotates and re-mails the staff credentials.
func (h *HostelAdminHandler) ResendStaffInvitation(c *gin.Context) {
	hostelID, ok := resolveScope(c, h.scope)
	if !ok {
		return
	}
	var req ResendStaffInvitationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.staffService.ResendInvitation(c.Request.Context(), req.StaffID, hostelID); err != nil {
		respondError(c, err)
		return
	}
	utils.MessageResponse(c, "Invitation sent")
}

// ListDevices returns the hostel's attendance devices.
func (h *HostelAdminHandler) ListDevices(c *gin.Context) {
	hostelID, ok := resolveScope(c, h.scope)
	if !ok {
		return
	}
	devices, err := h.deviceService.List(c.Request.Context(), hostelID)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, devices)
}

type CreateDeviceRequest struct {
	Name    string `json:"name" binding:"required"`
	IP      string `json:"ip" binding:"required,ip"`
	Port    int    `json:"port" binding:"omitempty,min=1,max=65535"`
	CommKey int    `json:"commKey"`
	Enabled bool   `json:"enabled"`
}

// CreateDevice registers an attendance device.
func (h *HostelAdminHandler) CreateDevice(c *gin.Context) {
	hostelID, ok := resolveScope(c, h.scope)
	if !ok {
		return
	}
	var req CreateDeviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	device, err := h.deviceService.Create(c.Request.Context(), hostelID, service.CreateDeviceInput{
		Name:    req.Name,
		IP:      req.IP,
		Port:    req.Port,
		CommKey: req.CommKey,
		Enabled: req.Enabled,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	utils.CreatedResponse(c, device)
}

// UpdateDeviceRequest takes the target id in the body, matching the device
// dashboard's call convention.
type UpdateDeviceRequest struct {
	ID      string  `json:"id" binding:"required"`
	Name    *string `json:"name"`
	IP      *string `json:"ip" binding:"omitempty,ip"`
	Port    *int    `json:"port" binding:"omitempty,min=1,max=65535"`
	CommKey *int    `json:"commKey"`
	Enabled *bool   `json:"enabled"`
}

// UpdateDevice mutates an owned device.
func (h *HostelAdminHandler) UpdateDevice(c *gin.Context) {
	hostelID, ok := resolveScope(c, h.scope)
	if !ok {
		return
	}
	var req UpdateDeviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	fields := bson.M{}
	if req.Name != nil {
		fields["name"] = *req.Name
	}
	if req.IP != nil {
		fields["ip"] = *req.IP
	}
	if req.Port != nil {
		fields["port"] = *req.Port
	}
	if req.CommKey != nil {
		fields["commKey"] = *req.CommKey
	}
	if req.Enabled != nil {
		fields["enabled"] = *req.Enabled
	}
	if len(fields) == 0 {
		utils.ErrorResponse(c, http.StatusBadRequest, "No fields to update")
		return
	}
	device, err := h.deviceService.Update(c.Request.Context(), req.ID, hostelID, fields)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, device)
}

type DeleteDeviceRequest struct {
	ID string `json:"id" binding:"required"`
}

// DeleteDevice removes an owned device; the id travels in the body.
func (h *HostelAdminHandler) DeleteDevice(c *gin.Context) {
	hostelID, ok := resolveScope(c, h.scope)
	if !ok {
		return
	}
	var req DeleteDeviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.deviceService.Delete(c.Request.Context(), req.ID, hostelID); err != nil {
		respondError(c, err)
		return
	}
	utils.MessageResponse(c, "Device deleted")
}

type TestConnectionRequest struct {
	IP   string `json:"ip" binding:"required,ip"`
	Port int    `json:"port" binding:"omitempty,min=1,max=65535"`
}

// TestConnection probes a device address over TCP and reports the classified
// outcome.
func (h *HostelAdminHandler) TestConnection(c *gin.Context) {
	if _, ok := resolveScope(c, h.scope); !ok {
		return
	}
	var req TestConnectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	result := h.deviceService.TestConnection(c.Request.Context(), req.IP, req.Port)
	utils.SuccessResponse(c, result)
}
