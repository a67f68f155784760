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

type hostelStore interface {
	FindByID(ctx context.Context, id string) (*models.Hostel, error)
	FindByContactEmail(ctx context.Context, email string) (*models.Hostel, error)
	ExistsByCode(ctx context.Context, code string) (bool, error)
	List(ctx context.Context) ([]models.Hostel, error)
	Create(ctx context.Context, hostel *models.Hostel) error
	UpdateFields(ctx context.Context, id string, set bson.M) (*models.Hostel, error)
	SetPassword(ctx context.Context, id, hash string, at time.Time) error
	Delete(ctx context.Context, id string) error
}

type collectionRenamer interface {
	Rename(ctx context.Context, oldCollection, newCollection string) error
}

type inviteMailer interface {
	LoginURL() string
	SendInvite(ctx context.Context, inv notify.Invite) error
	SendHostelCreated(ctx context.Context, hc notify.HostelCreated) error
}

// HostelService covers super-admin hostel administration and the
// hostel-admin's self-service operations.
type HostelService struct {
	hostels    hostelStore
	attendance collectionRenamer
	mailer     inviteMailer
}

func NewHostelService(hostels hostelStore, attendance collectionRenamer, mailer inviteMailer) *HostelService {
	return &HostelService{hostels: hostels, attendance: attendance, mailer: mailer}
}

// CreateHostelInput is the validated payload for provisioning a hostel.
type CreateHostelInput struct {
	Name              string
	Code              string
	Address           string
	AdminName         string
	ContactEmail      string
	ContactPhone      string
	LicenseExpiry     string
	NightInTime       string
	RoomsUnlimited    bool
	TotalRooms        int
	CapacityUnlimited bool
	Capacity          int
}

// List returns all hostels, newest first.
func (s *HostelService) List(ctx context.Context) ([]models.Hostel, error) {
	return s.hostels.List(ctx)
}

// Get returns one hostel by id.
func (s *HostelService) Get(ctx context.Context, id string) (*models.Hostel, error) {
	return s.hostels.FindByID(ctx, id)
}

// Create provisions a hostel: generates a temporary admin password, stores
// its hash and mails the credentials to the contact address. A mail failure
// is logged but never rolls the hostel back; the admin can be re-invited.
func (s *HostelService) Create(ctx context.Context, in CreateHostelInput) (*models.Hostel, error) {
	email := strings.ToLower(strings.TrimSpace(in.ContactEmail))

	if _, err := s.hostels.FindByContactEmail(ctx, email); err == nil {
		return nil, ErrConflict
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	if in.Code != "" {
		taken, err := s.hostels.ExistsByCode(ctx, in.Code)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, ErrConflict
		}
	}

	plain, err := utils.GenerateTempPassword(tempPasswordLenHostel)
	if err != nil {
		return nil, err
	}
	hash, err := utils.HashPassword(plain)
	if err != nil {
		return nil, err
	}

	setAt := time.Now().UTC()
	hostel := &models.Hostel{
		Name:              in.Name,
		Code:              in.Code,
		Address:           in.Address,
		AdminName:         in.AdminName,
		ContactEmail:      email,
		ContactPhone:      in.ContactPhone,
		LicenseExpiry:     in.LicenseExpiry,
		NightInTime:       in.NightInTime,
		RoomsUnlimited:    in.RoomsUnlimited,
		TotalRooms:        in.TotalRooms,
		CapacityUnlimited: in.CapacityUnlimited,
		Capacity:          in.Capacity,
		AutoSendMode:      models.AutoSendDisabled,
		PasswordHash:      hash,
		PasswordSetAt:     &setAt,
	}
	if err := s.hostels.Create(ctx, hostel); err != nil {
		return nil, err
	}

	if err := s.mailer.SendHostelCreated(ctx, notify.HostelCreated{
		To:            email,
		HostelName:    hostel.Name,
		AdminName:     hostel.AdminName,
		LicenseExpiry: hostel.LicenseExpiry,
		Email:         email,
		PlainPassword: plain,
		LoginURL:      s.mailer.LoginURL(),
	}); err != nil {
		log.Printf("hostel %s created but invitation mail failed: %v", hostel.ID.Hex(), err)
	}
	return hostel, nil
}

// Update applies a partial update. When the display name changes, the
// hostel's attendance collection is renamed to match the new derived name;
// a rename failure is logged and the update still succeeds.
func (s *HostelService) Update(ctx context.Context, id string, set bson.M) (*models.Hostel, error) {
	current, err := s.hostels.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if email, ok := set["contactEmail"].(string); ok {
		set["contactEmail"] = strings.ToLower(strings.TrimSpace(email))
	}

	updated, err := s.hostels.UpdateFields(ctx, id, set)
	if err != nil {
		return nil, err
	}

	if updated.Name != current.Name {
		oldColl := repository.AttendanceCollectionName(current.Name)
		newColl := repository.AttendanceCollectionName(updated.Name)
		if oldColl != newColl {
			if err := s.attendance.Rename(ctx, oldColl, newColl); err != nil {
				log.Printf("attendance collection rename %s -> %s failed: %v", oldColl, newColl, err)
			}
		}
	}
	return updated, nil
}

// Delete removes a hostel document. Child records and the attendance
// collection are left behind for offline archival.
func (s *HostelService) Delete(ctx context.Context, id string) error {
	return s.hostels.Delete(ctx, id)
}

// ResendInvitation rotates the hostel-admin temporary password and mails it
// again. The rotated hash is kept even when the mail fails, matching the
// provisioning path; the caller sees the delivery error.
func (s *HostelService) ResendInvitation(ctx context.Context, id string) error {
	hostel, err := s.hostels.FindByID(ctx, id)
	if err != nil {
		return err
	}
	plain, err := utils.GenerateTempPassword(tempPasswordLenHostel)
	if err != nil {
		return err
	}
	hash, err := utils.HashPassword(plain)
	if err != nil {
		return err
	}
	if err := s.hostels.SetPassword(ctx, id, hash, time.Now().UTC()); err != nil {
		return err
	}
	return s.mailer.SendInvite(ctx, notify.Invite{
		To:            hostel.ContactEmail,
		Name:          hostel.AdminName,
		Role:          models.RoleHostelAdmin,
		Email:         hostel.ContactEmail,
		PlainPassword: plain,
		LoginURL:      s.mailer.LoginURL(),
	})
}

// UpdateNightInTime is the hostel-admin's only self-profile mutation.
func (s *HostelService) UpdateNightInTime(ctx context.Context, hostelID primitive.ObjectID, nightInTime string) (*models.Hostel, error) {
	return s.hostels.UpdateFields(ctx, hostelID.Hex(), bson.M{"nightInTime": nightInTime})
}

// ChangePassword rotates the hostel-admin login password per the bootstrap
// rule: the current password is only required once a hash exists.
func (s *HostelService) ChangePassword(ctx context.Context, hostelID primitive.ObjectID, currentPassword, newPassword string) error {
	hostel, err := s.hostels.FindByID(ctx, hostelID.Hex())
	if err != nil {
		return err
	}
	if err := checkPasswordChange(hostel.PasswordHash, currentPassword); err != nil {
		return err
	}
	hash, err := utils.HashPassword(newPassword)
	if err != nil {
		return err
	}
	return s.hostels.SetPassword(ctx, hostelID.Hex(), hash, time.Now().UTC())
}

// AutoSendConfig is the warden-facing curfew alert configuration.
type AutoSendConfig struct {
	Mode    string `json:"autoSendMode"`
	Enabled bool   `json:"autoSendEnabled"`
}

// GetAutoSend returns the hostel's curfew auto-send configuration.
func (s *HostelService) GetAutoSend(ctx context.Context, hostelID primitive.ObjectID) (*AutoSendConfig, error) {
	hostel, err := s.hostels.FindByID(ctx, hostelID.Hex())
	if err != nil {
		return nil, err
	}
	mode := hostel.AutoSendMode
	if mode == "" {
		mode = models.AutoSendDisabled
	}
	return &AutoSendConfig{Mode: mode, Enabled: hostel.AutoSendEnabled}, nil
}

// SetAutoSend updates the hostel's curfew auto-send configuration.
func (s *HostelService) SetAutoSend(ctx context.Context, hostelID primitive.ObjectID, cfg AutoSendConfig) (*AutoSendConfig, error) {
	updated, err := s.hostels.UpdateFields(ctx, hostelID.Hex(), bson.M{
		"autoSendMode":    cfg.Mode,
		"autoSendEnabled": cfg.Enabled,
	})
	if err != nil {
		return nil, err
	}
	return &AutoSendConfig{Mode: updated.AutoSendMode, Enabled: updated.AutoSendEnabled}, nil
}
