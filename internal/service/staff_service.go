package service

import (
	"context"
	"errors"
	"log"
	"strings"

	"hostel-management-backend/internal/models"
	"hostel-management-backend/internal/notify"
	"hostel-management-backend/internal/repository"
	"hostel-management-backend/pkg/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type staffStore interface {
	FindByID(ctx context.Context, id string) (*models.Staff, error)
	FindOwned(ctx context.Context, id string, hostelID primitive.ObjectID) (*models.Staff, error)
	FindByEmail(ctx context.Context, email string) (*models.Staff, error)
	ListByHostel(ctx context.Context, hostelID primitive.ObjectID) ([]models.Staff, error)
	Create(ctx context.Context, staff *models.Staff) error
	UpdateFields(ctx context.Context, id string, hostelID primitive.ObjectID, fields bson.M) (*models.Staff, error)
	SetPassword(ctx context.Context, id primitive.ObjectID, hash string) error
	Delete(ctx context.Context, id string, hostelID primitive.ObjectID) error
}

// StaffService manages staff lifecycle and credential issuance within one
// tenant.
type StaffService struct {
	staff  staffStore
	mailer inviteMailer
}

func NewStaffService(staff staffStore, mailer inviteMailer) *StaffService {
	return &StaffService{staff: staff, mailer: mailer}
}

// CreateStaffInput is the validated payload for creating a staff member.
type CreateStaffInput struct {
	Name  string
	Role  string
	Email string
	Phone string
}

// List returns the staff of the hostel.
func (s *StaffService) List(ctx context.Context, hostelID primitive.ObjectID) ([]models.Staff, error) {
	return s.staff.ListByHostel(ctx, hostelID)
}

// Create adds a staff member with a generated temporary password. Staff with
// an email receive an invite; a mail failure is logged and the stored hash is
// kept so the invitation can be resent.
func (s *StaffService) Create(ctx context.Context, hostelID primitive.ObjectID, in CreateStaffInput) (*models.Staff, error) {
	if !models.IsStaffRole(in.Role) {
		return nil, ErrForbidden
	}

	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email != "" {
		if _, err := s.staff.FindByEmail(ctx, email); err == nil {
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

	staff := &models.Staff{
		HostelID:     hostelID,
		Name:         in.Name,
		Role:         in.Role,
		Email:        email,
		Phone:        in.Phone,
		PasswordHash: hash,
	}
	if err := s.staff.Create(ctx, staff); err != nil {
		return nil, err
	}

	if email != "" {
		if err := s.sendInvite(ctx, staff, plain); err != nil {
			log.Printf("staff %s created but invitation mail failed: %v", staff.ID.Hex(), err)
		}
	}
	return staff, nil
}

// Update applies a partial update. Changing the email rotates the temporary
// password and dispatches a fresh invite; the rotation is kept even when the
// mail fails.
func (s *StaffService) Update(ctx context.Context, id string, hostelID primitive.ObjectID, fields bson.M) (*models.Staff, error) {
	current, err := s.staff.FindOwned(ctx, id, hostelID)
	if err != nil {
		return nil, err
	}

	var plain string
	if raw, ok := fields["email"].(string); ok {
		email := strings.ToLower(strings.TrimSpace(raw))
		fields["email"] = email
		if email != "" && email != current.Email {
			if _, err := s.staff.FindByEmail(ctx, email); err == nil {
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
	if role, ok := fields["role"].(string); ok && !models.IsStaffRole(role) {
		return nil, ErrForbidden
	}

	updated, err := s.staff.UpdateFields(ctx, id, hostelID, fields)
	if err != nil {
		return nil, err
	}

	if plain != "" && updated.Email != "" {
		if err := s.sendInvite(ctx, updated, plain); err != nil {
			log.Printf("staff %s email changed but invitation mail failed: %v", updated.ID.Hex(), err)
		}
	}
	return updated, nil
}

// Delete removes a staff member of the hostel.
func (s *StaffService) Delete(ctx context.Context, id string, hostelID primitive.ObjectID) error {
	return s.staff.Delete(ctx, id, hostelID)
}

// ResendInvitation rotates the staff temporary password and mails it again.
// The rotated hash is kept even when delivery fails.
func (s *StaffService) ResendInvitation(ctx context.Context, id string, hostelID primitive.ObjectID) error {
	staff, err := s.staff.FindOwned(ctx, id, hostelID)
	if err != nil {
		return err
	}
	if staff.Email == "" {
		return ErrForbidden
	}
	plain, err := utils.GenerateTempPassword(tempPasswordLenStaff)
	if err != nil {
		return err
	}
	hash, err := utils.HashPassword(plain)
	if err != nil {
		return err
	}
	if err := s.staff.SetPassword(ctx, staff.ID, hash); err != nil {
		return err
	}
	return s.sendInvite(ctx, staff, plain)
}

// ChangePassword rotates the staff member's own password per the bootstrap
// rule.
func (s *StaffService) ChangePassword(ctx context.Context, staffID, currentPassword, newPassword string) error {
	staff, err := s.staff.FindByID(ctx, staffID)
	if err != nil {
		return err
	}
	if err := checkPasswordChange(staff.PasswordHash, currentPassword); err != nil {
		return err
	}
	hash, err := utils.HashPassword(newPassword)
	if err != nil {
		return err
	}
	return s.staff.SetPassword(ctx, staff.ID, hash)
}

func (s *StaffService) sendInvite(ctx context.Context, staff *models.Staff, plain string) error {
	return s.mailer.SendInvite(ctx, notify.Invite{
		To:            staff.Email,
		Name:          staff.Name,
		Role:          staff.Role,
		Email:         staff.Email,
		PlainPassword: plain,
		LoginURL:      s.mailer.LoginURL(),
	})
}
