package models

import (
	"strconv"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Bed statuses.
const (
	BedVacant   = "vacant"
	BedOccupied = "occupied"
)

// Bed is one bed slot in a room.
type Bed struct {
	Number string `bson:"number" json:"number"`
	Status string `bson:"status" json:"status"`
}

// Room is a room owned by exactly one hostel. Occupied is derived from the
// bed list and recomputed on every bed-state mutation; it is never trusted as
// client input.
type Room struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	HostelID primitive.ObjectID `bson:"hostelId" json:"hostelId"`
	Number   string             `bson:"number" json:"number"`
	Name     string             `bson:"name,omitempty" json:"name,omitempty"`
	Capacity int                `bson:"capacity" json:"capacity"`
	Beds     []Bed              `bson:"beds" json:"beds"`
	Occupied int                `bson:"occupied" json:"occupied"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// CollectionName specifies the collection for Room documents.
func (Room) CollectionName() string {
	return "rooms"
}

// CountOccupied returns the number of beds currently marked occupied.
func CountOccupied(beds []Bed) int {
	n := 0
	for _, b := range beds {
		if b.Status == BedOccupied {
			n++
		}
	}
	return n
}

// VacantBedNumbers returns the bed numbers currently vacant, in bed order.
func VacantBedNumbers(beds []Bed) []string {
	var out []string
	for _, b := range beds {
		if b.Status == BedVacant {
			out = append(out, b.Number)
		}
	}
	return out
}

// DefaultBeds builds capacity vacant beds numbered from 1, used when a room is
// created without an explicit bed list.
func DefaultBeds(capacity int) []Bed {
	if capacity < 1 {
		capacity = 1
	}
	beds := make([]Bed, capacity)
	for i := range beds {
		beds[i] = Bed{Number: strconv.Itoa(i + 1), Status: BedVacant}
	}
	return beds
}
