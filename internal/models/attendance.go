package models

import (
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Punch directions.
const (
	PunchCheckIn  = 0
	PunchCheckOut = 1
)

// Punch is a normalized attendance event read from a per-hostel attendance
// collection. The source documents carry no enforced schema; the device
// identifier may live in user_id, uid or deviceUserId, and the direction in a
// numeric punch field or an event_type string.
type Punch struct {
	ID        string      `json:"_id"`
	Timestamp interface{} `json:"timestamp"`
	Type      string      `json:"type"` // checkin|checkout
	Punch     int         `json:"punch"`
	DeviceIP  string      `json:"device_ip,omitempty"`
	UserID    string      `json:"user_id,omitempty"`
	EventType string      `json:"event_type,omitempty"`
	Raw       bson.M      `json:"raw,omitempty"`
}

// NormalizePunch converts a raw attendance document into a Punch. An explicit
// numeric punch field takes precedence; otherwise the direction is inferred
// from an event_type string containing "out".
func NormalizePunch(doc bson.M) Punch {
	p := Punch{
		Punch:     PunchDirection(doc),
		DeviceIP:  stringField(doc, "device_ip"),
		EventType: stringField(doc, "event_type"),
	}
	if p.Punch == PunchCheckOut {
		p.Type = "checkout"
	} else {
		p.Type = "checkin"
	}

	if oid, ok := doc["_id"].(primitive.ObjectID); ok {
		p.ID = oid.Hex()
	} else if s := stringField(doc, "_id"); s != "" {
		p.ID = s
	}

	for _, k := range []string{"user_id", "uid", "deviceUserId"} {
		if s := stringField(doc, k); s != "" {
			p.UserID = s
			break
		}
	}

	if raw, ok := doc["raw"].(bson.M); ok {
		p.Raw = raw
		if ts, ok := raw["timestamp"]; ok && ts != nil {
			p.Timestamp = ts
		}
	}
	if p.Timestamp == nil {
		if ts, ok := doc["timestamp_utc"]; ok && ts != nil {
			p.Timestamp = ts
		} else if ts, ok := doc["timestamp"]; ok && ts != nil {
			p.Timestamp = ts
		}
	}
	return p
}

// PunchDirection extracts the punch direction from a raw attendance document.
func PunchDirection(doc bson.M) int {
	switch v := doc["punch"].(type) {
	case int:
		return clampPunch(v)
	case int32:
		return clampPunch(int(v))
	case int64:
		return clampPunch(int(v))
	case float64:
		return clampPunch(int(v))
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return clampPunch(n)
		}
	}
	if strings.Contains(strings.ToLower(stringField(doc, "event_type")), "out") {
		return PunchCheckOut
	}
	return PunchCheckIn
}

func clampPunch(n int) int {
	if n == PunchCheckOut {
		return PunchCheckOut
	}
	return PunchCheckIn
}

func stringField(doc bson.M, key string) string {
	if v, ok := doc[key]; ok {
		switch s := v.(type) {
		case string:
			return s
		case int:
			return strconv.Itoa(s)
		case int32:
			return strconv.Itoa(int(s))
		case int64:
			return strconv.FormatInt(s, 10)
		case float64:
			return strconv.FormatFloat(s, 'f', -1, 64)
		}
	}
	return ""
}
