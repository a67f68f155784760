package service

import (
	"context"
	"strings"
	"time"

	"hostel-management-backend/internal/models"
	"hostel-management-backend/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Result caps for the unbounded per-tenant punch collections.
const (
	studentPunchLimit = 5000
	rosterPunchLimit  = 2000
)

type punchStore interface {
	FindPunches(ctx context.Context, collection string, filter bson.M, limit int64) ([]bson.M, error)
	FindPunchesBetween(ctx context.Context, collection string, filter bson.M, from, to time.Time) ([]bson.M, error)
}

type attendanceStudentSource interface {
	FindByID(ctx context.Context, id string) (*models.Student, error)
	ListByHostel(ctx context.Context, hostelID primitive.ObjectID) ([]models.Student, error)
}

// AttendanceService resolves callers to their tenant's dynamically named
// punch collection and queries it with identifier fuzzy matching.
type AttendanceService struct {
	hostels  hostelByIDFinder
	students attendanceStudentSource
	punches  punchStore
}

func NewAttendanceService(hostels hostelByIDFinder, students attendanceStudentSource, punches punchStore) *AttendanceService {
	return &AttendanceService{hostels: hostels, students: students, punches: punches}
}

// ForStudent returns one student's punches in chronological order, capped at
// the single-student limit. A student with no device identifiers gets an
// empty result, not an error.
func (s *AttendanceService) ForStudent(ctx context.Context, studentID string) ([]models.Punch, error) {
	student, err := s.students.FindByID(ctx, studentID)
	if err != nil {
		return nil, err
	}
	hostel, err := s.hostels.FindByID(ctx, student.HostelID.Hex())
	if err != nil {
		return nil, err
	}

	candidates := CandidateIDs(student.UserID, student.StudentID)
	collection := repository.AttendanceCollectionName(hostel.Name)
	docs, err := s.punches.FindPunches(ctx, collection, repository.BuildIdentifierFilter(candidates), studentPunchLimit)
	if err != nil {
		return nil, err
	}

	punches := normalizeAll(docs)
	// The timeline view renders oldest first; the query returned newest first.
	for i, j := 0, len(punches)-1; i < j; i, j = i+1, j-1 {
		punches[i], punches[j] = punches[j], punches[i]
	}
	return punches, nil
}

// ForRoster returns the hostel-wide punches, newest first, capped at the
// roster limit. Candidates are the device identifiers of every student in the
// tenant.
func (s *AttendanceService) ForRoster(ctx context.Context, hostelID primitive.ObjectID) ([]models.Punch, error) {
	hostel, err := s.hostels.FindByID(ctx, hostelID.Hex())
	if err != nil {
		return nil, err
	}
	students, err := s.students.ListByHostel(ctx, hostelID)
	if err != nil {
		return nil, err
	}

	var ids []string
	for _, st := range students {
		ids = append(ids, st.UserID)
	}
	candidates := CandidateIDs(ids...)
	collection := repository.AttendanceCollectionName(hostel.Name)
	docs, err := s.punches.FindPunches(ctx, collection, repository.BuildIdentifierFilter(candidates), rosterPunchLimit)
	if err != nil {
		return nil, err
	}
	return normalizeAll(docs), nil
}

// CandidateIDs trims, deduplicates and drops empty device identifiers.
func CandidateIDs(ids ...string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := []string{}
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func normalizeAll(docs []bson.M) []models.Punch {
	punches := make([]models.Punch, 0, len(docs))
	for _, doc := range docs {
		punches = append(punches, models.NormalizePunch(doc))
	}
	return punches
}

// PunchTime extracts a comparable wall-clock time from a normalized punch
// timestamp, which may decode as a BSON datetime, a Go time or a string.
func PunchTime(v interface{}) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case primitive.DateTime:
		return t.Time(), true
	case string:
		for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02T15:04:05"} {
			if parsed, err := time.Parse(layout, strings.TrimSpace(t)); err == nil {
				return parsed, true
			}
		}
	}
	return time.Time{}, false
}
