package repository

import (
	"regexp"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestAttendanceCollectionName(t *testing.T) {
	cases := []struct {
		displayName string
		want        string
	}{
		{"Alpha Hall", "Alpha_Hall_attendance_logs"},
		{"Alpha Hall 2", "Alpha_Hall_2_attendance_logs"},
		{"Sunrise", "Sunrise_attendance_logs"},
		{"St. Mary's - Block B", "St__Mary_s___Block_B_attendance_logs"},
		{"hostel#1 (new)", "hostel_1__new__attendance_logs"},
		{"", "_attendance_logs"},
	}
	for _, tc := range cases {
		if got := AttendanceCollectionName(tc.displayName); got != tc.want {
			t.Errorf("AttendanceCollectionName(%q) = %q, want %q", tc.displayName, got, tc.want)
		}
	}
}

func TestBuildIdentifierFilterEmpty(t *testing.T) {
	if got := BuildIdentifierFilter(nil); got != nil {
		t.Errorf("nil candidates: got %v, want nil", got)
	}
	if got := BuildIdentifierFilter([]string{}); got != nil {
		t.Errorf("empty candidates: got %v, want nil", got)
	}
}

func TestBuildIdentifierFilterShape(t *testing.T) {
	filter := BuildIdentifierFilter([]string{"12345", "S-9"})
	clauses, ok := filter["$or"].([]bson.M)
	if !ok {
		t.Fatalf("missing $or clause list: %v", filter)
	}
	// Two candidates across three field names.
	if len(clauses) != 6 {
		t.Fatalf("clause count = %d, want 6", len(clauses))
	}

	fields := map[string]bool{}
	for _, clause := range clauses {
		for field := range clause {
			fields[field] = true
		}
	}
	for _, want := range []string{"user_id", "uid", "deviceUserId"} {
		if !fields[want] {
			t.Errorf("no clause for field %q", want)
		}
	}
}

// Whitespace-padded device identifiers must still match their student.
func TestBuildIdentifierFilterWhitespaceTolerance(t *testing.T) {
	filter := BuildIdentifierFilter([]string{"12345"})
	clauses := filter["$or"].([]bson.M)

	pattern := clauses[0]["user_id"].(primitive.Regex).Pattern
	re := regexp.MustCompile(pattern)

	for _, stored := range []string{"12345", " 12345 ", " 12345 \n", "\t12345"} {
		if !re.MatchString(stored) {
			t.Errorf("pattern %q did not match %q", pattern, stored)
		}
	}
	for _, stored := range []string{"123456", "x12345", "12 345", ""} {
		if re.MatchString(stored) {
			t.Errorf("pattern %q matched %q", pattern, stored)
		}
	}
}

func TestBuildIdentifierFilterQuotesMetaChars(t *testing.T) {
	filter := BuildIdentifierFilter([]string{"a.b+c"})
	clauses := filter["$or"].([]bson.M)
	pattern := clauses[0]["user_id"].(primitive.Regex).Pattern
	re := regexp.MustCompile(pattern)

	if !re.MatchString("a.b+c") {
		t.Error("literal identifier did not match")
	}
	if re.MatchString("aXbbc") {
		t.Error("metacharacters were not escaped")
	}
}
