package service

import (
	"context"
	"errors"
	"net"
	"strconv"
	"syscall"
	"time"

	"hostel-management-backend/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type deviceStore interface {
	FindOwned(ctx context.Context, id string, hostelID primitive.ObjectID) (*models.Device, error)
	ListByHostel(ctx context.Context, hostelID primitive.ObjectID) ([]models.Device, error)
	Create(ctx context.Context, device *models.Device) error
	UpdateFields(ctx context.Context, id string, hostelID primitive.ObjectID, fields bson.M) (*models.Device, error)
	Delete(ctx context.Context, id string, hostelID primitive.ObjectID) error
}

// probeTimeout bounds the device reachability test; the probe must resolve to
// a definite outcome instead of hanging.
const probeTimeout = 5 * time.Second

// DeviceService manages attendance devices and their connectivity checks
// within one tenant.
type DeviceService struct {
	devices deviceStore
}

func NewDeviceService(devices deviceStore) *DeviceService {
	return &DeviceService{devices: devices}
}

// CreateDeviceInput is the validated payload for registering a device.
type CreateDeviceInput struct {
	Name    string
	IP      string
	Port    int
	CommKey int
	Enabled bool
}

// List returns the devices of the hostel.
func (s *DeviceService) List(ctx context.Context, hostelID primitive.ObjectID) ([]models.Device, error) {
	return s.devices.ListByHostel(ctx, hostelID)
}

// Create registers a device, defaulting the port when unset.
func (s *DeviceService) Create(ctx context.Context, hostelID primitive.ObjectID, in CreateDeviceInput) (*models.Device, error) {
	port := in.Port
	if port == 0 {
		port = models.DefaultDevicePort
	}
	device := &models.Device{
		HostelID: hostelID,
		Name:     in.Name,
		IP:       in.IP,
		Port:     port,
		CommKey:  in.CommKey,
		Enabled:  in.Enabled,
	}
	if err := s.devices.Create(ctx, device); err != nil {
		return nil, err
	}
	return device, nil
}

// Update applies a partial update to an owned device.
func (s *DeviceService) Update(ctx context.Context, id string, hostelID primitive.ObjectID, fields bson.M) (*models.Device, error) {
	return s.devices.UpdateFields(ctx, id, hostelID, fields)
}

// Delete removes an owned device.
func (s *DeviceService) Delete(ctx context.Context, id string, hostelID primitive.ObjectID) error {
	return s.devices.Delete(ctx, id, hostelID)
}

// ProbeResult is the outcome of a device reachability test. Unlike other
// dependency failures, the classified network reason is part of the product
// contract and is surfaced to the caller.
type ProbeResult struct {
	Reachable bool   `json:"reachable"`
	LatencyMs int64  `json:"latencyMs"`
	Message   string `json:"message"`
}

// TestConnection dials the device once with a fixed timeout and classifies
// the failure, if any.
func (s *DeviceService) TestConnection(ctx context.Context, ip string, port int) ProbeResult {
	if port == 0 {
		port = models.DefaultDevicePort
	}
	addr := net.JoinHostPort(ip, strconv.Itoa(port))

	start := time.Now()
	dialer := net.Dialer{Timeout: probeTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	latency := time.Since(start).Milliseconds()
	if err != nil {
		return ProbeResult{Reachable: false, LatencyMs: latency, Message: ClassifyDialError(err)}
	}
	conn.Close()
	return ProbeResult{Reachable: true, LatencyMs: latency, Message: "device reachable"}
}

// ClassifyDialError maps a dial failure to a user-facing reason.
func ClassifyDialError(err error) string {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "connection timed out after 5 seconds"
	}
	switch {
	case errors.Is(err, syscall.ECONNREFUSED):
		return "connection refused by device"
	case errors.Is(err, syscall.EHOSTUNREACH):
		return "host unreachable"
	case errors.Is(err, syscall.ENETUNREACH):
		return "network unreachable"
	}
	return "device not reachable"
}
