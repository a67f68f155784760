package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DefaultDevicePort is the usual listening port of biometric attendance devices.
const DefaultDevicePort = 4370

// Device is a biometric attendance device registered for one hostel.
type Device struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	HostelID primitive.ObjectID `bson:"hostelId" json:"hostelId"`
	Name     string             `bson:"name" json:"name"`
	IP       string             `bson:"ip" json:"ip"`
	Port     int                `bson:"port" json:"port"`
	CommKey  int                `bson:"commKey" json:"commKey"`
	Enabled  bool               `bson:"enabled" json:"enabled"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// CollectionName specifies the collection for Device documents.
func (Device) CollectionName() string {
	return "devices"
}
