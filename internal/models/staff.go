package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Staff is a staff or warden account owned by exactly one hostel. Email is
// optional; staff without an email cannot receive invites or self-service
// password resets.
type Staff struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	HostelID primitive.ObjectID `bson:"hostelId" json:"hostelId"`
	Name     string             `bson:"name" json:"name"`
	Role     string             `bson:"role,omitempty" json:"role,omitempty"`
	Email    string             `bson:"email,omitempty" json:"email,omitempty"`
	Phone    string             `bson:"phone,omitempty" json:"phone,omitempty"`

	PasswordHash  string     `bson:"passwordHash,omitempty" json:"-"`
	PasswordSetAt *time.Time `bson:"passwordSetAt,omitempty" json:"-"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// CollectionName specifies the collection for Staff documents.
func (Staff) CollectionName() string {
	return "staffs"
}
