package service

import (
	"context"
	"sort"

	"hostel-management-backend/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type roomStore interface {
	FindOwned(ctx context.Context, id string, hostelID primitive.ObjectID) (*models.Room, error)
	ExistsByNumber(ctx context.Context, hostelID primitive.ObjectID, number string, excludeID primitive.ObjectID) (bool, error)
	ListByHostel(ctx context.Context, hostelID primitive.ObjectID) ([]models.Room, error)
	ListVacant(ctx context.Context, hostelID primitive.ObjectID) ([]models.Room, error)
	Create(ctx context.Context, room *models.Room) error
	ReplaceBeds(ctx context.Context, id primitive.ObjectID, hostelID primitive.ObjectID, beds []models.Bed) (*models.Room, error)
	UpdateFields(ctx context.Context, id string, hostelID primitive.ObjectID, fields bson.M) (*models.Room, error)
	Delete(ctx context.Context, id string, hostelID primitive.ObjectID) error
}

type roomOccupantsLister interface {
	ListByHostel(ctx context.Context, hostelID primitive.ObjectID) ([]models.Student, error)
	ListByRoom(ctx context.Context, roomID primitive.ObjectID) ([]models.Student, error)
}

// RoomService manages rooms and their derived occupancy within one tenant.
type RoomService struct {
	rooms    roomStore
	students roomOccupantsLister
}

func NewRoomService(rooms roomStore, students roomOccupantsLister) *RoomService {
	return &RoomService{rooms: rooms, students: students}
}

// CreateRoomInput is the validated payload for creating a room.
type CreateRoomInput struct {
	Number   string
	Name     string
	Capacity int
	Beds     []models.Bed
}

// List returns the rooms of the hostel ordered by number.
func (s *RoomService) List(ctx context.Context, hostelID primitive.ObjectID) ([]models.Room, error) {
	return s.rooms.ListByHostel(ctx, hostelID)
}

// Create adds a room. Without an explicit bed list, capacity vacant beds
// numbered from 1 are generated; occupied is always derived from the beds.
func (s *RoomService) Create(ctx context.Context, hostelID primitive.ObjectID, in CreateRoomInput) (*models.Room, error) {
	taken, err := s.rooms.ExistsByNumber(ctx, hostelID, in.Number, primitive.NilObjectID)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrConflict
	}

	beds := in.Beds
	if len(beds) == 0 {
		beds = models.DefaultBeds(in.Capacity)
	}
	room := &models.Room{
		HostelID: hostelID,
		Number:   in.Number,
		Name:     in.Name,
		Capacity: len(beds),
		Beds:     beds,
		Occupied: models.CountOccupied(beds),
	}
	if err := s.rooms.Create(ctx, room); err != nil {
		return nil, err
	}
	return room, nil
}

// Update applies a partial update. A supplied bed list replaces the stored
// one and occupied is recomputed from it; a client-supplied occupied value is
// never honored.
func (s *RoomService) Update(ctx context.Context, id string, hostelID primitive.ObjectID, fields bson.M, beds []models.Bed) (*models.Room, error) {
	room, err := s.rooms.FindOwned(ctx, id, hostelID)
	if err != nil {
		return nil, err
	}

	if number, ok := fields["number"].(string); ok && number != room.Number {
		taken, err := s.rooms.ExistsByNumber(ctx, hostelID, number, room.ID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, ErrConflict
		}
	}
	delete(fields, "occupied")

	if len(fields) > 0 {
		if room, err = s.rooms.UpdateFields(ctx, id, hostelID, fields); err != nil {
			return nil, err
		}
	}
	if beds != nil {
		if room, err = s.rooms.ReplaceBeds(ctx, room.ID, hostelID, beds); err != nil {
			return nil, err
		}
	}
	return room, nil
}

// Delete removes a room that has no allocated students.
func (s *RoomService) Delete(ctx context.Context, id string, hostelID primitive.ObjectID) error {
	room, err := s.rooms.FindOwned(ctx, id, hostelID)
	if err != nil {
		return err
	}
	occupants, err := s.students.ListByRoom(ctx, room.ID)
	if err != nil {
		return err
	}
	if len(occupants) > 0 {
		return ErrConflict
	}
	return s.rooms.Delete(ctx, id, hostelID)
}

// VacantRoom is a room summary with its free bed numbers.
type VacantRoom struct {
	ID         primitive.ObjectID `json:"_id"`
	Number     string             `json:"number"`
	Name       string             `json:"name,omitempty"`
	Capacity   int                `json:"capacity"`
	Occupied   int                `json:"occupied"`
	VacantBeds []string           `json:"vacantBeds"`
}

// Vacant returns rooms that still have at least one free bed.
func (s *RoomService) Vacant(ctx context.Context, hostelID primitive.ObjectID) ([]VacantRoom, error) {
	rooms, err := s.rooms.ListVacant(ctx, hostelID)
	if err != nil {
		return nil, err
	}
	out := make([]VacantRoom, 0, len(rooms))
	for _, r := range rooms {
		out = append(out, VacantRoom{
			ID:         r.ID,
			Number:     r.Number,
			Name:       r.Name,
			Capacity:   r.Capacity,
			Occupied:   r.Occupied,
			VacantBeds: models.VacantBedNumbers(r.Beds),
		})
	}
	return out, nil
}

// maxHistoryPerStudent caps how many allocation entries each student
// contributes to the roster view.
const maxHistoryPerStudent = 5

// AllocationRecord is one flattened allocation history row.
type AllocationRecord struct {
	StudentID   primitive.ObjectID     `json:"studentId"`
	StudentName string                 `json:"studentName"`
	Entry       models.AllocationEntry `json:"entry"`
}

// AllocationHistory returns every student's recent allocation entries,
// flattened and ordered most recent first.
func (s *RoomService) AllocationHistory(ctx context.Context, hostelID primitive.ObjectID) ([]AllocationRecord, error) {
	students, err := s.students.ListByHostel(ctx, hostelID)
	if err != nil {
		return nil, err
	}
	records := []AllocationRecord{}
	for _, st := range students {
		history := st.AllocationHistory
		if len(history) > maxHistoryPerStudent {
			history = history[len(history)-maxHistoryPerStudent:]
		}
		for _, entry := range history {
			records = append(records, AllocationRecord{
				StudentID:   st.ID,
				StudentName: st.Name,
				Entry:       entry,
			})
		}
	}
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Entry.AllocatedAt.After(records[j].Entry.AllocatedAt)
	})
	return records, nil
}
