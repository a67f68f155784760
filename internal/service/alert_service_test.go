package service

import (
	"context"
	"errors"
	"testing"

	"hostel-management-backend/internal/models"
	"hostel-management-backend/internal/notify"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeAlertStudents struct {
	students []models.Student
	history  map[string][]models.WhatsAppHistoryEntry
}

func (f *fakeAlertStudents) ListByHostel(_ context.Context, _ primitive.ObjectID) ([]models.Student, error) {
	return f.students, nil
}

func (f *fakeAlertStudents) AppendWhatsAppHistory(_ context.Context, id primitive.ObjectID, entry models.WhatsAppHistoryEntry) error {
	if f.history == nil {
		f.history = map[string][]models.WhatsAppHistoryEntry{}
	}
	f.history[id.Hex()] = append(f.history[id.Hex()], entry)
	return nil
}

type fakeCurfewSender struct {
	fail bool
	sent []notify.CurfewAlert
}

func (f *fakeCurfewSender) SendCurfewAlert(_ context.Context, alert notify.CurfewAlert) error {
	if f.fail {
		return errors.New("gateway timeout")
	}
	f.sent = append(f.sent, alert)
	return nil
}

func newAlertFixture(sender *fakeCurfewSender) (*AlertService, *models.Hostel, *fakeAlertStudents, *fakePunchStore) {
	hostel := &models.Hostel{
		ID:          primitive.NewObjectID(),
		Name:        "Alpha Hall",
		NightInTime: "21:00",
	}
	students := &fakeAlertStudents{students: []models.Student{
		{
			ID:       primitive.NewObjectID(),
			HostelID: hostel.ID,
			Name:     "Late Larry",
			UserID:   "1001",
			Guardian: &models.Guardian{WhatsappPhone: "9876543210"},
		},
		{
			ID:       primitive.NewObjectID(),
			HostelID: hostel.ID,
			Name:     "Punctual Pat",
			UserID:   "1002",
			Guardian: &models.Guardian{WhatsappPhone: "9876500000"},
		},
		{
			ID:       primitive.NewObjectID(),
			HostelID: hostel.ID,
			Name:     "Orphan Ollie",
			UserID:   "1003",
		},
	}}
	punches := &fakePunchStore{docs: []bson.M{
		{"user_id": "1001", "timestamp_utc": "2026-02-10 20:30:00", "punch": 0},
		{"user_id": "1001", "timestamp_utc": "2026-02-10 22:15:00", "punch": 0},
		{"user_id": "1002", "timestamp_utc": "2026-02-10 20:45:00", "punch": 0},
		{"user_id": "1003", "timestamp_utc": "2026-02-10 23:05:00", "punch": 0},
		// Check-outs never count against the curfew.
		{"user_id": "1002", "timestamp_utc": "2026-02-10 23:30:00", "punch": 1},
	}}
	svc := NewAlertService(fakeHostelByID{hostel: hostel}, students, punches, sender)
	return svc, hostel, students, punches
}

func TestCurfewAlertsLateStudentNotified(t *testing.T) {
	sender := &fakeCurfewSender{}
	svc, hostel, students, _ := newAlertFixture(sender)

	report, err := svc.SendCurfewAlerts(context.Background(), hostel.ID, "2026-02-10")
	if err != nil {
		t.Fatalf("SendCurfewAlerts: %v", err)
	}
	if report.Sent != 1 || report.Skipped != 1 || report.Failed != 0 {
		t.Fatalf("sent/skipped/failed = %d/%d/%d, want 1/1/0", report.Sent, report.Skipped, report.Failed)
	}
	if len(sender.sent) != 1 {
		t.Fatalf("delivered %d alerts, want 1", len(sender.sent))
	}
	alert := sender.sent[0]
	if alert.StudentName != "Late Larry" {
		t.Errorf("alerted %q, want Late Larry", alert.StudentName)
	}
	if alert.Phone != "919876543210" {
		t.Errorf("phone = %q, want 919876543210", alert.Phone)
	}
	if alert.CheckInTime != "22:15" {
		t.Errorf("checkInTime = %q, want 22:15 (the latest check-in)", alert.CheckInTime)
	}
	larry := students.students[0]
	if entries := students.history[larry.ID.Hex()]; len(entries) != 1 || entries[0].Status != "success" {
		t.Errorf("history for Larry = %+v, want one success entry", entries)
	}
}

func TestCurfewAlertsNoGuardianPhoneSkipped(t *testing.T) {
	sender := &fakeCurfewSender{}
	svc, hostel, students, _ := newAlertFixture(sender)

	report, err := svc.SendCurfewAlerts(context.Background(), hostel.ID, "2026-02-10")
	if err != nil {
		t.Fatalf("SendCurfewAlerts: %v", err)
	}

	var ollie *CurfewDetail
	for i := range report.Details {
		if report.Details[i].StudentName == "Orphan Ollie" {
			ollie = &report.Details[i]
		}
	}
	if ollie == nil {
		t.Fatal("late student without guardian missing from details")
	}
	if ollie.Status != "skipped" {
		t.Errorf("status = %q, want skipped", ollie.Status)
	}
	id := students.students[2].ID.Hex()
	if entries := students.history[id]; len(entries) != 1 || entries[0].Status != "skipped" {
		t.Errorf("history = %+v, want one skipped entry", entries)
	}
}

func TestCurfewAlertsDeliveryFailureRecorded(t *testing.T) {
	sender := &fakeCurfewSender{fail: true}
	svc, hostel, students, _ := newAlertFixture(sender)

	report, err := svc.SendCurfewAlerts(context.Background(), hostel.ID, "2026-02-10")
	if err != nil {
		t.Fatalf("SendCurfewAlerts: %v", err)
	}
	if report.Failed != 1 {
		t.Errorf("failed = %d, want 1", report.Failed)
	}
	larry := students.students[0]
	if entries := students.history[larry.ID.Hex()]; len(entries) != 1 || entries[0].Status != "failure" {
		t.Errorf("history = %+v, want one failure entry", entries)
	}
}

func TestCurfewAlertsNoCurfewConfigured(t *testing.T) {
	hostel := &models.Hostel{ID: primitive.NewObjectID(), Name: "Beta Hall"}
	svc := NewAlertService(fakeHostelByID{hostel: hostel}, &fakeAlertStudents{}, &fakePunchStore{}, &fakeCurfewSender{})

	if _, err := svc.SendCurfewAlerts(context.Background(), hostel.ID, "2026-02-10"); err == nil {
		t.Fatal("expected error when nightInTime is unset")
	}
}
