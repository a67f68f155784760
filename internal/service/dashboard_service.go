package service

import (
	"context"
	"sync"
	"time"

	"hostel-management-backend/internal/models"
	"hostel-management-backend/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type hostelAggregateSource interface {
	List(ctx context.Context) ([]models.Hostel, error)
	Count(ctx context.Context) (int64, error)
	PingRoundtrip(ctx context.Context) error
}

type studentAggregateSource interface {
	Count(ctx context.Context) (int64, error)
	Distribution(ctx context.Context, hostelID primitive.ObjectID) ([]repository.RoomDistribution, error)
	CountByHostel(ctx context.Context, hostelID primitive.ObjectID) (int64, error)
	CountAllocated(ctx context.Context, hostelID primitive.ObjectID) (int64, error)
}

type punchCounter interface {
	CountPunches(ctx context.Context, collection string, filter bson.M) (int64, error)
}

type deviceCounter interface {
	Count(ctx context.Context) (int64, error)
}

type roomLister interface {
	ListByHostel(ctx context.Context, hostelID primitive.ObjectID) ([]models.Room, error)
}

type staffLister interface {
	ListByHostel(ctx context.Context, hostelID primitive.ObjectID) ([]models.Staff, error)
}

// DashboardService produces the cross-tenant super-admin summaries.
type DashboardService struct {
	hostels  hostelAggregateSource
	students studentAggregateSource
	devices  deviceCounter
	rooms    roomLister
	staff    staffLister
	punches  punchCounter
}

func NewDashboardService(hostels hostelAggregateSource, students studentAggregateSource, devices deviceCounter, rooms roomLister, staff staffLister, punches punchCounter) *DashboardService {
	return &DashboardService{hostels: hostels, students: students, devices: devices, rooms: rooms, staff: staff, punches: punches}
}

// HostelStudentCount is one row of the students-per-hostel distribution.
type HostelStudentCount struct {
	HostelID   primitive.ObjectID `json:"hostelId"`
	HostelName string             `json:"hostelName"`
	Students   int64              `json:"students"`
}

// Dashboard is the super-admin overview payload.
type Dashboard struct {
	TotalHostels  int64                `json:"totalHostels"`
	TotalStudents int64                `json:"totalStudents"`
	TotalDevices  int64                `json:"totalDevices"`
	DBRoundtripMs int64                `json:"dbRoundtripMs"`
	PerHostel     []HostelStudentCount `json:"perHostel"`
}

// Overview fetches the independent aggregate counts concurrently; they share
// no state and the dashboard is read-only.
func (s *DashboardService) Overview(ctx context.Context) (*Dashboard, error) {
	dash := &Dashboard{PerHostel: []HostelStudentCount{}}

	var wg sync.WaitGroup
	errs := make(chan error, 4)

	wg.Add(4)
	go func() {
		defer wg.Done()
		n, err := s.hostels.Count(ctx)
		if err != nil {
			errs <- err
			return
		}
		dash.TotalHostels = n
	}()
	go func() {
		defer wg.Done()
		n, err := s.students.Count(ctx)
		if err != nil {
			errs <- err
			return
		}
		dash.TotalStudents = n
	}()
	go func() {
		defer wg.Done()
		n, err := s.devices.Count(ctx)
		if err != nil {
			errs <- err
			return
		}
		dash.TotalDevices = n
	}()
	go func() {
		defer wg.Done()
		start := time.Now()
		if err := s.hostels.PingRoundtrip(ctx); err != nil {
			errs <- err
			return
		}
		dash.DBRoundtripMs = time.Since(start).Milliseconds()
	}()
	wg.Wait()
	close(errs)
	if err := <-errs; err != nil {
		return nil, err
	}

	hostels, err := s.hostels.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, h := range hostels {
		n, err := s.students.CountByHostel(ctx, h.ID)
		if err != nil {
			return nil, err
		}
		dash.PerHostel = append(dash.PerHostel, HostelStudentCount{
			HostelID:   h.ID,
			HostelName: h.Name,
			Students:   n,
		})
	}
	return dash, nil
}

// HostelReport is the per-hostel bed-level summary.
type HostelReport struct {
	HostelID          primitive.ObjectID            `json:"hostelId"`
	HostelName        string                        `json:"hostelName"`
	TotalRooms        int                           `json:"totalRooms"`
	TotalBeds         int                           `json:"totalBeds"`
	OccupiedBeds      int                           `json:"occupiedBeds"`
	AvailableBeds     int                           `json:"availableBeds"`
	AllocatedStudents int64                         `json:"allocatedStudents"`
	AttendanceRecords int64                         `json:"attendanceRecords"`
	StaffByRole       map[string]int                `json:"staffByRole"`
	Distribution      []repository.RoomDistribution `json:"distribution"`
}

// Reports builds bed and staffing summaries for every hostel.
func (s *DashboardService) Reports(ctx context.Context) ([]HostelReport, error) {
	hostels, err := s.hostels.List(ctx)
	if err != nil {
		return nil, err
	}

	reports := make([]HostelReport, 0, len(hostels))
	for _, h := range hostels {
		report := HostelReport{
			HostelID:    h.ID,
			HostelName:  h.Name,
			StaffByRole: map[string]int{},
		}

		rooms, err := s.rooms.ListByHostel(ctx, h.ID)
		if err != nil {
			return nil, err
		}
		report.TotalRooms = len(rooms)
		for _, room := range rooms {
			report.TotalBeds += len(room.Beds)
			report.OccupiedBeds += models.CountOccupied(room.Beds)
		}
		report.AvailableBeds = report.TotalBeds - report.OccupiedBeds

		allocated, err := s.students.CountAllocated(ctx, h.ID)
		if err != nil {
			return nil, err
		}
		report.AllocatedStudents = allocated

		// An absent log collection counts as zero records.
		logs, err := s.punches.CountPunches(ctx, repository.AttendanceCollectionName(h.Name), bson.M{})
		if err != nil {
			return nil, err
		}
		report.AttendanceRecords = logs

		staff, err := s.staff.ListByHostel(ctx, h.ID)
		if err != nil {
			return nil, err
		}
		for _, member := range staff {
			report.StaffByRole[member.Role]++
		}

		dist, err := s.students.Distribution(ctx, h.ID)
		if err != nil {
			return nil, err
		}
		report.Distribution = dist

		reports = append(reports, report)
	}
	return reports, nil
}
