package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"hostel-management-backend/internal/models"
	"hostel-management-backend/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeHostelStore struct {
	hostel models.Hostel
}

func (f *fakeHostelStore) FindByID(_ context.Context, id string) (*models.Hostel, error) {
	if f.hostel.ID.Hex() == id {
		h := f.hostel
		return &h, nil
	}
	return nil, repository.ErrNotFound
}

func (f *fakeHostelStore) FindByContactEmail(_ context.Context, email string) (*models.Hostel, error) {
	if f.hostel.ContactEmail == email {
		h := f.hostel
		return &h, nil
	}
	return nil, repository.ErrNotFound
}

func (f *fakeHostelStore) ExistsByCode(_ context.Context, code string) (bool, error) {
	return code == f.hostel.Code, nil
}

func (f *fakeHostelStore) List(_ context.Context) ([]models.Hostel, error) {
	return []models.Hostel{f.hostel}, nil
}

func (f *fakeHostelStore) Create(_ context.Context, hostel *models.Hostel) error {
	hostel.ID = primitive.NewObjectID()
	f.hostel = *hostel
	return nil
}

func (f *fakeHostelStore) UpdateFields(_ context.Context, _ string, set bson.M) (*models.Hostel, error) {
	if name, ok := set["name"].(string); ok {
		f.hostel.Name = name
	}
	if addr, ok := set["address"].(string); ok {
		f.hostel.Address = addr
	}
	h := f.hostel
	return &h, nil
}

func (f *fakeHostelStore) SetPassword(_ context.Context, _ string, hash string, _ time.Time) error {
	f.hostel.PasswordHash = hash
	return nil
}

func (f *fakeHostelStore) Delete(_ context.Context, _ string) error { return nil }

type fakeRenamer struct {
	fail bool

	calls [][2]string
}

func (f *fakeRenamer) Rename(_ context.Context, oldCollection, newCollection string) error {
	f.calls = append(f.calls, [2]string{oldCollection, newCollection})
	if f.fail {
		return errors.New("target namespace exists")
	}
	return nil
}

func newHostelFixture(renamer *fakeRenamer, mailer *fakeMailer) (*HostelService, *fakeHostelStore) {
	store := &fakeHostelStore{hostel: models.Hostel{
		ID:           primitive.NewObjectID(),
		Name:         "Alpha Hall",
		ContactEmail: "admin@alpha.example.com",
		AdminName:    "Priya",
	}}
	return NewHostelService(store, renamer, mailer), store
}

// Renaming a hostel moves its attendance log collection to the new derived
// name.
func TestHostelRenameMovesAttendanceCollection(t *testing.T) {
	renamer := &fakeRenamer{}
	svc, store := newHostelFixture(renamer, &fakeMailer{})

	updated, err := svc.Update(context.Background(), store.hostel.ID.Hex(), bson.M{"name": "Alpha Hall 2"})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Name != "Alpha Hall 2" {
		t.Errorf("name = %q, want Alpha Hall 2", updated.Name)
	}
	if len(renamer.calls) != 1 {
		t.Fatalf("got %d rename calls, want 1", len(renamer.calls))
	}
	if got := renamer.calls[0]; got[0] != "Alpha_Hall_attendance_logs" || got[1] != "Alpha_Hall_2_attendance_logs" {
		t.Errorf("rename %q -> %q, want Alpha_Hall_attendance_logs -> Alpha_Hall_2_attendance_logs", got[0], got[1])
	}
}

func TestHostelUpdateWithoutNameChangeSkipsRename(t *testing.T) {
	renamer := &fakeRenamer{}
	svc, store := newHostelFixture(renamer, &fakeMailer{})

	if _, err := svc.Update(context.Background(), store.hostel.ID.Hex(), bson.M{"address": "12 New Road"}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	// Re-submitting the current name is also not a rename.
	if _, err := svc.Update(context.Background(), store.hostel.ID.Hex(), bson.M{"name": "Alpha Hall"}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if len(renamer.calls) != 0 {
		t.Errorf("got %d rename calls, want 0", len(renamer.calls))
	}
}

// The collection rename is best effort; a failure is logged, never surfaced.
func TestHostelRenameFailureDoesNotFailUpdate(t *testing.T) {
	renamer := &fakeRenamer{fail: true}
	svc, store := newHostelFixture(renamer, &fakeMailer{})

	updated, err := svc.Update(context.Background(), store.hostel.ID.Hex(), bson.M{"name": "Alpha Hall 2"})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Name != "Alpha Hall 2" {
		t.Errorf("name = %q, want the update applied despite the rename failure", updated.Name)
	}
	if len(renamer.calls) != 1 {
		t.Errorf("got %d rename calls, want 1", len(renamer.calls))
	}
}

func TestHostelResendInvitationKeepsHashOnMailFailure(t *testing.T) {
	svc, store := newHostelFixture(&fakeRenamer{}, &fakeMailer{fail: true})
	store.hostel.PasswordHash = "previous-hash"

	err := svc.ResendInvitation(context.Background(), store.hostel.ID.Hex())
	if err == nil {
		t.Fatal("expected mail error")
	}
	if store.hostel.PasswordHash == "previous-hash" {
		t.Error("rotated hash was not kept")
	}
}
