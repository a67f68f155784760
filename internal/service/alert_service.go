package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"hostel-management-backend/internal/models"
	"hostel-management-backend/internal/notify"
	"hostel-management-backend/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type curfewSender interface {
	SendCurfewAlert(ctx context.Context, alert notify.CurfewAlert) error
}

type alertStudentSource interface {
	ListByHostel(ctx context.Context, hostelID primitive.ObjectID) ([]models.Student, error)
	AppendWhatsAppHistory(ctx context.Context, id primitive.ObjectID, entry models.WhatsAppHistoryEntry) error
}

// AlertService evaluates a night's check-ins against the hostel curfew and
// notifies guardians of late arrivals over WhatsApp.
type AlertService struct {
	hostels  hostelByIDFinder
	students alertStudentSource
	punches  punchStore
	whatsapp curfewSender
}

func NewAlertService(hostels hostelByIDFinder, students alertStudentSource, punches punchStore, whatsapp curfewSender) *AlertService {
	return &AlertService{hostels: hostels, students: students, punches: punches, whatsapp: whatsapp}
}

// CurfewDetail is the per-student outcome of one alert run.
type CurfewDetail struct {
	StudentID   primitive.ObjectID `json:"studentId"`
	StudentName string             `json:"studentName"`
	Status      string             `json:"status"` // sent|skipped|failed
	CheckInTime string             `json:"checkInTime,omitempty"`
	Reason      string             `json:"reason,omitempty"`
}

// CurfewReport summarizes one alert run.
type CurfewReport struct {
	Date    string         `json:"date"`
	Curfew  string         `json:"curfew"`
	Sent    int            `json:"sent"`
	Skipped int            `json:"skipped"`
	Failed  int            `json:"failed"`
	Details []CurfewDetail `json:"details"`
}

// SendCurfewAlerts inspects each student's latest check-in on the given date
// (default today) and messages the guardian when it falls after the hostel's
// nightInTime. Students without a guardian phone are skipped, never failed.
func (s *AlertService) SendCurfewAlerts(ctx context.Context, hostelID primitive.ObjectID, date string) (*CurfewReport, error) {
	hostel, err := s.hostels.FindByID(ctx, hostelID.Hex())
	if err != nil {
		return nil, err
	}
	if hostel.NightInTime == "" {
		return nil, fmt.Errorf("hostel has no curfew time configured")
	}
	curfew, err := time.Parse("15:04", hostel.NightInTime)
	if err != nil {
		return nil, fmt.Errorf("invalid curfew time %q: %w", hostel.NightInTime, err)
	}

	if date == "" {
		date = time.Now().UTC().Format("2006-01-02")
	}
	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", date, err)
	}

	students, err := s.students.ListByHostel(ctx, hostelID)
	if err != nil {
		return nil, err
	}

	var ids []string
	for _, st := range students {
		ids = append(ids, st.UserID, st.StudentID)
	}
	collection := repository.AttendanceCollectionName(hostel.Name)
	filter := repository.BuildIdentifierFilter(CandidateIDs(ids...))
	docs, err := s.punches.FindPunchesBetween(ctx, collection, filter, day, day.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}

	// Latest check-in per device identifier; docs arrive oldest first so a
	// plain overwrite keeps the last one.
	latestCheckIn := map[string]time.Time{}
	for _, doc := range docs {
		punch := models.NormalizePunch(doc)
		if punch.Punch != models.PunchCheckIn {
			continue
		}
		ts, ok := PunchTime(punch.Timestamp)
		if !ok {
			continue
		}
		latestCheckIn[strings.TrimSpace(punch.UserID)] = ts
	}

	curfewAt := time.Date(day.Year(), day.Month(), day.Day(), curfew.Hour(), curfew.Minute(), 0, 0, time.UTC)

	report := &CurfewReport{Date: date, Curfew: hostel.NightInTime, Details: []CurfewDetail{}}
	for _, st := range students {
		detail := s.evaluateStudent(ctx, hostel, st, latestCheckIn, curfewAt, date)
		if detail == nil {
			continue
		}
		switch detail.Status {
		case "sent":
			report.Sent++
		case "failed":
			report.Failed++
		default:
			report.Skipped++
		}
		report.Details = append(report.Details, *detail)
	}
	return report, nil
}

func (s *AlertService) evaluateStudent(ctx context.Context, hostel *models.Hostel, st models.Student, latestCheckIn map[string]time.Time, curfewAt time.Time, date string) *CurfewDetail {
	var checkIn time.Time
	var found bool
	for _, id := range CandidateIDs(st.UserID, st.StudentID) {
		if ts, ok := latestCheckIn[id]; ok && ts.After(checkIn) {
			checkIn = ts
			found = true
		}
	}
	if !found || !checkIn.After(curfewAt) {
		// On time or no punches: nothing to report for this student.
		return nil
	}

	detail := &CurfewDetail{
		StudentID:   st.ID,
		StudentName: st.Name,
		CheckInTime: checkIn.Format("15:04"),
	}

	phone := guardianPhone(st.Guardian)
	if phone == "" {
		detail.Status = "skipped"
		detail.Reason = "no guardian phone on record"
		s.recordHistory(ctx, st.ID, "skipped", date, detail.Reason)
		return detail
	}

	err := s.whatsapp.SendCurfewAlert(ctx, notify.CurfewAlert{
		Phone:       notify.NormalizePhone(phone),
		Template:    notify.CurfewTemplate,
		StudentName: st.Name,
		HostelName:  hostel.Name,
		Date:        date,
		CheckInTime: detail.CheckInTime,
	})
	if err != nil {
		detail.Status = "failed"
		detail.Reason = "message delivery failed"
		log.Printf("curfew alert for student %s failed: %v", st.ID.Hex(), err)
		s.recordHistory(ctx, st.ID, "failure", date, err.Error())
		return detail
	}

	detail.Status = "sent"
	s.recordHistory(ctx, st.ID, "success", date, "")
	return detail
}

func (s *AlertService) recordHistory(ctx context.Context, studentID primitive.ObjectID, status, date, details string) {
	entry := models.WhatsAppHistoryEntry{
		Timestamp:    time.Now().UTC(),
		Status:       status,
		TemplateName: notify.CurfewTemplate,
		Date:         date,
		Details:      details,
	}
	if err := s.students.AppendWhatsAppHistory(ctx, studentID, entry); err != nil {
		log.Printf("recording whatsapp history for student %s failed: %v", studentID.Hex(), err)
	}
}

func guardianPhone(g *models.Guardian) string {
	if g == nil {
		return ""
	}
	if g.WhatsappPhone != "" {
		return g.WhatsappPhone
	}
	return g.PrimaryPhone
}
