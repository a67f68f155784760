package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Guardian is the guardian sub-record embedded in a Student document.
type Guardian struct {
	Name                   string `bson:"name,omitempty" json:"name,omitempty"`
	PrimaryPhone           string `bson:"primaryPhone,omitempty" json:"primaryPhone,omitempty"`
	WhatsappPhone          string `bson:"whatsappPhone,omitempty" json:"whatsappPhone,omitempty"`
	Relationship           string `bson:"relationship,omitempty" json:"relationship,omitempty"`
	NotificationPreference string `bson:"notificationPreference,omitempty" json:"notificationPreference,omitempty"`
}

// AllocationEntry is one room/bed assignment in a student's history. At most
// one entry per student may have DeallocatedAt unset.
type AllocationEntry struct {
	Room          primitive.ObjectID `bson:"room" json:"room"`
	RoomNumber    string             `bson:"roomNumber,omitempty" json:"roomNumber,omitempty"`
	BedNumber     string             `bson:"bedNumber,omitempty" json:"bedNumber,omitempty"`
	AllocatedAt   time.Time          `bson:"allocatedAt" json:"allocatedAt"`
	DeallocatedAt *time.Time         `bson:"deallocatedAt,omitempty" json:"deallocatedAt,omitempty"`
}

// WhatsAppHistoryEntry records one guardian notification attempt.
type WhatsAppHistoryEntry struct {
	Timestamp    time.Time `bson:"timestamp" json:"timestamp"`
	Status       string    `bson:"status" json:"status"` // success|failure|skipped
	TemplateName string    `bson:"templateName,omitempty" json:"templateName,omitempty"`
	Date         string    `bson:"date,omitempty" json:"date,omitempty"`
	Details      string    `bson:"details,omitempty" json:"details,omitempty"`
}

// Student is a resident account owned by exactly one hostel. UserID holds the
// device-reported biometric identifier and is globally unique when present.
type Student struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	HostelID  primitive.ObjectID `bson:"hostelId" json:"hostelId"`
	Name      string             `bson:"name" json:"name"`
	UserID    string             `bson:"user_id,omitempty" json:"user_id,omitempty"`
	StudentID string             `bson:"studentId,omitempty" json:"studentId,omitempty"`
	Email     string             `bson:"email,omitempty" json:"email,omitempty"`
	Phone     string             `bson:"phone,omitempty" json:"phone,omitempty"`

	Course           string `bson:"course,omitempty" json:"course,omitempty"`
	Year             string `bson:"year,omitempty" json:"year,omitempty"`
	Department       string `bson:"department,omitempty" json:"department,omitempty"`
	EmergencyContact string `bson:"emergencyContact,omitempty" json:"emergencyContact,omitempty"`
	PhotoURL         string `bson:"photoUrl,omitempty" json:"photoUrl,omitempty"`
	GovIDType        string `bson:"govIdType,omitempty" json:"govIdType,omitempty"`
	GovIDValue       string `bson:"govIdValue,omitempty" json:"govIdValue,omitempty"`

	Guardian        *Guardian              `bson:"guardian,omitempty" json:"guardian,omitempty"`
	WhatsappHistory []WhatsAppHistoryEntry `bson:"whatsappHistory,omitempty" json:"whatsappHistory,omitempty"`

	Room              *primitive.ObjectID `bson:"room,omitempty" json:"room,omitempty"`
	BedNumber         string              `bson:"bedNumber,omitempty" json:"bedNumber,omitempty"`
	AllocationHistory []AllocationEntry   `bson:"allocationHistory,omitempty" json:"allocationHistory,omitempty"`

	PasswordHash  string     `bson:"passwordHash,omitempty" json:"-"`
	PasswordSetAt *time.Time `bson:"passwordSetAt,omitempty" json:"-"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// CollectionName specifies the collection for Student documents.
func (Student) CollectionName() string {
	return "students"
}
