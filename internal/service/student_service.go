package service

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"hostel-management-backend/internal/models"
	"hostel-management-backend/internal/notify"
	"hostel-management-backend/internal/repository"
	"hostel-management-backend/pkg/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type studentStore interface {
	FindByID(ctx context.Context, id string) (*models.Student, error)
	FindOwned(ctx context.Context, id string, hostelID primitive.ObjectID) (*models.Student, error)
	FindByEmail(ctx context.Context, email string) (*models.Student, error)
	ExistsByUserID(ctx context.Context, userID string, excludeID primitive.ObjectID) (bool, error)
	ListByHostel(ctx context.Context, hostelID primitive.ObjectID) ([]models.Student, error)
	ListByRoom(ctx context.Context, roomID primitive.ObjectID) ([]models.Student, error)
	Create(ctx context.Context, student *models.Student) error
	UpdateFields(ctx context.Context, id string, hostelID primitive.ObjectID, fields bson.M) (*models.Student, error)
	Allocate(ctx context.Context, id primitive.ObjectID, entry models.AllocationEntry) error
	Deallocate(ctx context.Context, id primitive.ObjectID) error
	SetPassword(ctx context.Context, id primitive.ObjectID, hash string) error
	ClearPassword(ctx context.Context, id primitive.ObjectID, previousHash string) error
	Delete(ctx context.Context, id string, hostelID primitive.ObjectID) error
}

type bedStore interface {
	FindOwned(ctx context.Context, id string, hostelID primitive.ObjectID) (*models.Room, error)
	FindByID(ctx context.Context, id string) (*models.Room, error)
	SetBedStatus(ctx context.Context, id primitive.ObjectID, bedNumber, fromStatus, toStatus string) (*models.Room, error)
}

type hostelByIDFinder interface {
	FindByID(ctx context.Context, id string) (*models.Hostel, error)
}

// StudentService manages resident accounts, their room allocation and their
// self-service views within one tenant.
type StudentService struct {
	students studentStore
	rooms    bedStore
	hostels  hostelByIDFinder
	mailer   inviteMailer
}

func NewStudentService(students studentStore, rooms bedStore, hostels hostelByIDFinder, mailer inviteMailer) *StudentService {
	return &StudentService{students: students, rooms: rooms, hostels: hostels, mailer: mailer}
}

// CreateStudentInput is the validated payload for creating a student.
type CreateStudentInput struct {
	Name             string
	UserID           string
	StudentID        string
	Email            string
	Phone            string
	Course           string
	Year             string
	Department       string
	EmergencyContact string
	Guardian         *models.Guardian
	RoomID           string
	BedNumber        string
}

// List returns the students of the hostel.
func (s *StudentService) List(ctx context.Context, hostelID primitive.ObjectID) ([]models.Student, error) {
	return s.students.ListByHostel(ctx, hostelID)
}

// Get returns one owned student.
func (s *StudentService) Get(ctx context.Context, id string, hostelID primitive.ObjectID) (*models.Student, error) {
	return s.students.FindOwned(ctx, id, hostelID)
}

// Create adds a student with a generated temporary password, optionally
// reserving a bed. The device identifier must be unused across all hostels.
func (s *StudentService) Create(ctx context.Context, hostelID primitive.ObjectID, in CreateStudentInput) (*models.Student, error) {
	userID := strings.TrimSpace(in.UserID)
	if userID != "" {
		taken, err := s.students.ExistsByUserID(ctx, userID, primitive.NilObjectID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, ErrConflict
		}
	}

	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email != "" {
		if _, err := s.students.FindByEmail(ctx, email); err == nil {
			return nil, ErrConflict
		} else if !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
	}

	plain, err := utils.GenerateTempPassword(tempPasswordLenStaff)
	if err != nil {
		return nil, err
	}
	hash, err := utils.HashPassword(plain)
	if err != nil {
		return nil, err
	}

	student := &models.Student{
		HostelID:         hostelID,
		Name:             in.Name,
		UserID:           userID,
		StudentID:        strings.TrimSpace(in.StudentID),
		Email:            email,
		Phone:            in.Phone,
		Course:           in.Course,
		Year:             in.Year,
		Department:       in.Department,
		EmergencyContact: in.EmergencyContact,
		Guardian:         in.Guardian,
		PasswordHash:     hash,
	}
	if err := s.students.Create(ctx, student); err != nil {
		return nil, err
	}

	if in.RoomID != "" && in.BedNumber != "" {
		if err := s.allocate(ctx, student, hostelID, in.RoomID, in.BedNumber); err != nil {
			log.Printf("student %s created but bed allocation failed: %v", student.ID.Hex(), err)
		}
	}

	if email != "" {
		if err := s.sendInvite(ctx, student, plain); err != nil {
			log.Printf("student %s created but invitation mail failed: %v", student.ID.Hex(), err)
		}
	}
	return s.students.FindByID(ctx, student.ID.Hex())
}

// UpdateStudentInput carries the mutable student fields. Pointer fields
// distinguish "absent" from "set to empty".
type UpdateStudentInput struct {
	Fields    bson.M
	Email     *string
	UserID    *string
	RoomID    *string
	BedNumber *string
}

// Update applies a partial update, handling email rotation and room moves.
// An email change rotates the temporary password and re-invites; the rotation
// is kept even when the mail fails.
func (s *StudentService) Update(ctx context.Context, id string, hostelID primitive.ObjectID, in UpdateStudentInput) (*models.Student, error) {
	current, err := s.students.FindOwned(ctx, id, hostelID)
	if err != nil {
		return nil, err
	}

	fields := in.Fields
	if fields == nil {
		fields = bson.M{}
	}

	if in.UserID != nil {
		userID := strings.TrimSpace(*in.UserID)
		if userID != "" && userID != current.UserID {
			taken, err := s.students.ExistsByUserID(ctx, userID, current.ID)
			if err != nil {
				return nil, err
			}
			if taken {
				return nil, ErrConflict
			}
		}
		fields["user_id"] = userID
	}

	var plain string
	if in.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*in.Email))
		fields["email"] = email
		if email != "" && email != current.Email {
			if _, err := s.students.FindByEmail(ctx, email); err == nil {
				return nil, ErrConflict
			} else if !errors.Is(err, repository.ErrNotFound) {
				return nil, err
			}
			plain, err = utils.GenerateTempPassword(tempPasswordLenStaff)
			if err != nil {
				return nil, err
			}
			hash, err := utils.HashPassword(plain)
			if err != nil {
				return nil, err
			}
			fields["passwordHash"] = hash
		}
	}

	if len(fields) > 0 {
		if _, err := s.students.UpdateFields(ctx, id, hostelID, fields); err != nil {
			return nil, err
		}
	}

	if in.RoomID != nil {
		if err := s.move(ctx, current, hostelID, *in.RoomID, stringValue(in.BedNumber)); err != nil {
			return nil, err
		}
	}

	updated, err := s.students.FindByID(ctx, current.ID.Hex())
	if err != nil {
		return nil, err
	}

	if plain != "" && updated.Email != "" {
		if err := s.sendInvite(ctx, updated, plain); err != nil {
			log.Printf("student %s email changed but invitation mail failed: %v", updated.ID.Hex(), err)
		}
	}
	return updated, nil
}

// Delete removes a student, freeing their bed first.
func (s *StudentService) Delete(ctx context.Context, id string, hostelID primitive.ObjectID) error {
	student, err := s.students.FindOwned(ctx, id, hostelID)
	if err != nil {
		return err
	}
	if student.Room != nil {
		if err := s.free(ctx, student); err != nil {
			log.Printf("student %s delete: freeing bed failed: %v", student.ID.Hex(), err)
		}
	}
	return s.students.Delete(ctx, id, hostelID)
}

// ResendInvitation rotates the student temporary password and mails it. A
// delivery failure reverts the rotation so the previously issued password
// keeps working.
func (s *StudentService) ResendInvitation(ctx context.Context, id string, hostelID primitive.ObjectID) error {
	student, err := s.students.FindOwned(ctx, id, hostelID)
	if err != nil {
		return err
	}
	if student.Email == "" {
		return ErrForbidden
	}
	previousHash := student.PasswordHash

	plain, err := utils.GenerateTempPassword(tempPasswordLenStaff)
	if err != nil {
		return err
	}
	hash, err := utils.HashPassword(plain)
	if err != nil {
		return err
	}
	if err := s.students.SetPassword(ctx, student.ID, hash); err != nil {
		return err
	}
	if err := s.sendInvite(ctx, student, plain); err != nil {
		if revertErr := s.students.ClearPassword(ctx, student.ID, previousHash); revertErr != nil {
			log.Printf("student %s invite revert failed: %v", student.ID.Hex(), revertErr)
		}
		return err
	}
	return nil
}

// ChangePassword rotates the student's own password per the bootstrap rule.
func (s *StudentService) ChangePassword(ctx context.Context, studentID, currentPassword, newPassword string) error {
	student, err := s.students.FindByID(ctx, studentID)
	if err != nil {
		return err
	}
	if err := checkPasswordChange(student.PasswordHash, currentPassword); err != nil {
		return err
	}
	hash, err := utils.HashPassword(newPassword)
	if err != nil {
		return err
	}
	return s.students.SetPassword(ctx, student.ID, hash)
}

// Profile returns the student's own full record.
func (s *StudentService) Profile(ctx context.Context, studentID string) (*models.Student, error) {
	return s.students.FindByID(ctx, studentID)
}

// RoomView is the student's own room summary.
type RoomView struct {
	Room      *models.Room     `json:"room"`
	Roommates []models.Student `json:"roommates"`
	Hostel    *models.Hostel   `json:"hostel"`
}

// Room returns the student's current room, roommates and hostel.
func (s *StudentService) Room(ctx context.Context, studentID string) (*RoomView, error) {
	student, err := s.students.FindByID(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if student.Room == nil {
		return nil, repository.ErrNotFound
	}
	room, err := s.rooms.FindByID(ctx, student.Room.Hex())
	if err != nil {
		return nil, err
	}
	mates, err := s.students.ListByRoom(ctx, room.ID)
	if err != nil {
		return nil, err
	}
	roommates := make([]models.Student, 0, len(mates))
	for _, m := range mates {
		if m.ID != student.ID {
			roommates = append(roommates, m)
		}
	}
	hostel, err := s.hostels.FindByID(ctx, student.HostelID.Hex())
	if err != nil {
		return nil, err
	}
	return &RoomView{Room: room, Roommates: roommates, Hostel: hostel}, nil
}

// allocate reserves a vacant bed and records the allocation entry.
func (s *StudentService) allocate(ctx context.Context, student *models.Student, hostelID primitive.ObjectID, roomID, bedNumber string) error {
	room, err := s.rooms.FindOwned(ctx, roomID, hostelID)
	if err != nil {
		return err
	}
	if _, err := s.rooms.SetBedStatus(ctx, room.ID, bedNumber, models.BedVacant, models.BedOccupied); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrConflict // bed missing or already taken
		}
		return err
	}
	return s.students.Allocate(ctx, student.ID, models.AllocationEntry{
		Room:        room.ID,
		RoomNumber:  room.Number,
		BedNumber:   bedNumber,
		AllocatedAt: time.Now().UTC(),
	})
}

// free releases the student's current bed and closes the open history entry.
func (s *StudentService) free(ctx context.Context, student *models.Student) error {
	if student.Room == nil {
		return nil
	}
	if _, err := s.rooms.SetBedStatus(ctx, *student.Room, student.BedNumber, models.BedOccupied, models.BedVacant); err != nil && !errors.Is(err, repository.ErrNotFound) {
		return err
	}
	return s.students.Deallocate(ctx, student.ID)
}

// move transfers the student between beds. An empty room id deallocates only.
func (s *StudentService) move(ctx context.Context, student *models.Student, hostelID primitive.ObjectID, roomID, bedNumber string) error {
	sameRoom := student.Room != nil && roomID != "" && student.Room.Hex() == roomID
	if sameRoom && student.BedNumber == bedNumber {
		return nil
	}
	if student.Room != nil {
		if err := s.free(ctx, student); err != nil {
			return err
		}
	}
	if roomID == "" || bedNumber == "" {
		return nil
	}
	return s.allocate(ctx, student, hostelID, roomID, bedNumber)
}

func (s *StudentService) sendInvite(ctx context.Context, student *models.Student, plain string) error {
	return s.mailer.SendInvite(ctx, notify.Invite{
		To:            student.Email,
		Name:          student.Name,
		Role:          models.RoleStudent,
		Email:         student.Email,
		PlainPassword: plain,
		LoginURL:      s.mailer.LoginURL(),
	})
}

func stringValue(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
