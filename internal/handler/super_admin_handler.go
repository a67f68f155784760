package handler

import (
	"net/http"

	"hostel-management-backend/internal/service"
	"hostel-management-backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
)

// SuperAdminHandler serves the cross-tenant administration surface.
type SuperAdminHandler struct {
	hostelService    *service.HostelService
	dashboardService *service.DashboardService
}

func NewSuperAdminHandler(hostelService *service.HostelService, dashboardService *service.DashboardService) *SuperAdminHandler {
	return &SuperAdminHandler{hostelService: hostelService, dashboardService: dashboardService}
}

// Dashboard returns the cross-tenant overview.
func (h *SuperAdminHandler) Dashboard(c *gin.Context) {
	dash, err := h.dashboardService.Overview(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, dash)
}

// Reports returns per-hostel bed and staffing summaries.
func (h *SuperAdminHandler) Reports(c *gin.Context) {
	reports, err := h.dashboardService.Reports(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, reports)
}

// ListHostels returns every hostel.
func (h *SuperAdminHandler) ListHostels(c *gin.Context) {
	hostels, err := h.hostelService.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, hostels)
}

type CreateHostelRequest struct {
	Name              string `json:"name" binding:"required"`
	Code              string `json:"code"`
	Address           string `json:"address"`
	AdminName         string `json:"adminName" binding:"required"`
	ContactEmail      string `json:"contactEmail" binding:"required,email"`
	ContactPhone      string `json:"contactPhone"`
	LicenseExpiry     string `json:"licenseExpiry"`
	NightInTime       string `json:"nightInTime" binding:"omitempty,hhmm"`
	RoomsUnlimited    bool   `json:"roomsUnlimited"`
	TotalRooms        int    `json:"totalRooms" binding:"omitempty,min=0"`
	CapacityUnlimited bool   `json:"capacityUnlimited"`
	Capacity          int    `json:"capacity" binding:"omitempty,min=0"`
}

// CreateHostel provisions a hostel and mails the admin credentials.
func (h *SuperAdminHandler) CreateHostel(c *gin.Context) {
	var req CreateHostelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	hostel, err := h.hostelService.Create(c.Request.Context(), service.CreateHostelInput{
		Name:              req.Name,
		Code:              req.Code,
		Address:           req.Address,
		AdminName:         req.AdminName,
		ContactEmail:      req.ContactEmail,
		ContactPhone:      req.ContactPhone,
		LicenseExpiry:     req.LicenseExpiry,
		NightInTime:       req.NightInTime,
		RoomsUnlimited:    req.RoomsUnlimited,
		TotalRooms:        req.TotalRooms,
		CapacityUnlimited: req.CapacityUnlimited,
		Capacity:          req.Capacity,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	utils.CreatedResponse(c, hostel)
}

// GetHostel returns one hostel by id.
func (h *SuperAdminHandler) GetHostel(c *gin.Context) {
	hostel, err := h.hostelService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, hostel)
}

type UpdateHostelRequest struct {
	Name              *string `json:"name"`
	Code              *string `json:"code"`
	Address           *string `json:"address"`
	AdminName         *string `json:"adminName"`
	ContactEmail      *string `json:"contactEmail" binding:"omitempty,email"`
	ContactPhone      *string `json:"contactPhone"`
	LicenseExpiry     *string `json:"licenseExpiry"`
	NightInTime       *string `json:"nightInTime" binding:"omitempty,hhmm"`
	RoomsUnlimited    *bool   `json:"roomsUnlimited"`
	TotalRooms        *int    `json:"totalRooms" binding:"omitempty,min=0"`
	CapacityUnlimited *bool   `json:"capacityUnlimited"`
	Capacity          *int    `json:"capacity" binding:"omitempty,min=0"`
}

func (r *UpdateHostelRequest) fields() bson.M {
	set := bson.M{}
	if r.Name != nil {
		set["name"] = *r.Name
	}
	if r.Code != nil {
		set["code"] = *r.Code
	}
	if r.Address != nil {
		set["address"] = *r.Address
	}
	if r.AdminName != nil {
		set["adminName"] = *r.AdminName
	}
	if r.ContactEmail != nil {
		set["contactEmail"] = *r.ContactEmail
	}
	if r.ContactPhone != nil {
		set["contactPhone"] = *r.ContactPhone
	}
	if r.LicenseExpiry != nil {
		set["licenseExpiry"] = *r.LicenseExpiry
	}
	if r.NightInTime != nil {
		set["nightInTime"] = *r.NightInTime
	}
	if r.RoomsUnlimited != nil {
		set["roomsUnlimited"] = *r.RoomsUnlimited
	}
	if r.TotalRooms != nil {
		set["totalRooms"] = *r.TotalRooms
	}
	if r.CapacityUnlimited != nil {
		set["capacityUnlimited"] = *r.CapacityUnlimited
	}
	if r.Capacity != nil {
		set["capacity"] = *r.Capacity
	}
	return set
}

// UpdateHostel applies a partial update; a name change also renames the
// tenant's attendance collection.
func (h *SuperAdminHandler) UpdateHostel(c *gin.Context) {
	var req UpdateHostelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	set := req.fields()
	if len(set) == 0 {
		utils.ErrorResponse(c, http.StatusBadRequest, "No fields to update")
		return
	}

	hostel, err := h.hostelService.Update(c.Request.Context(), c.Param("id"), set)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, hostel)
}

// DeleteHostel removes a hostel.
func (h *SuperAdminHandler) DeleteHostel(c *gin.Context) {
	if err := h.hostelService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	utils.MessageResponse(c, "Hostel deleted")
}

type ResendHostelInvitationRequest struct {
	HostelID string `json:"hostelId" binding:"required"`
}

// ResendInvitation rotates and re-mails the hostel-admin credentials.
func (h *SuperAdminHandler) ResendInvitation(c *gin.Context) {
	var req ResendHostelInvitationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.hostelService.ResendInvitation(c.Request.Context(), req.HostelID); err != nil {
		respondError(c, err)
		return
	}
	utils.MessageResponse(c, "Invitation sent")
}
