package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Auto-send modes for curfew attendance alerts.
const (
	AutoSendFrontend = "frontend"
	AutoSendBackend  = "backend"
	AutoSendDisabled = "disabled"
)

// Hostel is the tenant root document. Its contactEmail doubles as the
// hostel-admin login identifier and is stored lowercase.
type Hostel struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name          string             `bson:"name" json:"name"`
	Code          string             `bson:"code,omitempty" json:"code,omitempty"`
	Address       string             `bson:"address,omitempty" json:"address,omitempty"`
	AdminName     string             `bson:"adminName,omitempty" json:"adminName,omitempty"`
	ContactEmail  string             `bson:"contactEmail,omitempty" json:"contactEmail,omitempty"`
	ContactPhone  string             `bson:"contactPhone,omitempty" json:"contactPhone,omitempty"`
	LicenseExpiry string             `bson:"licenseExpiry,omitempty" json:"licenseExpiry,omitempty"`

	// Curfew time stored as HH:MM (24h) string, e.g. "22:00".
	NightInTime string `bson:"nightInTime,omitempty" json:"nightInTime,omitempty"`

	RoomsUnlimited    bool `bson:"roomsUnlimited" json:"roomsUnlimited"`
	TotalRooms        int  `bson:"totalRooms" json:"totalRooms"`
	CapacityUnlimited bool `bson:"capacityUnlimited" json:"capacityUnlimited"`
	Capacity          int  `bson:"capacity" json:"capacity"`
	Occupied          int  `bson:"occupied" json:"occupied"`

	AutoSendMode      string     `bson:"autoSendMode,omitempty" json:"autoSendMode,omitempty"`
	AutoSendEnabled   bool       `bson:"autoSendEnabled" json:"autoSendEnabled"`
	LastAutoSendCheck *time.Time `bson:"lastAutoSendCheck,omitempty" json:"lastAutoSendCheck,omitempty"`

	// Hashed temporary password for hostel-admin login. Never serialized to
	// API responses.
	PasswordHash  string     `bson:"passwordHash,omitempty" json:"-"`
	PasswordSetAt *time.Time `bson:"passwordSetAt,omitempty" json:"-"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// CollectionName specifies the collection for Hostel documents.
func (Hostel) CollectionName() string {
	return "hostels"
}
