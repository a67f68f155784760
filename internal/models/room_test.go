package models

import (
	"reflect"
	"testing"
)

func TestCountOccupied(t *testing.T) {
	beds := []Bed{
		{Number: "A1", Status: BedOccupied},
		{Number: "A2", Status: BedVacant},
		{Number: "A3", Status: BedOccupied},
	}
	if got := CountOccupied(beds); got != 2 {
		t.Errorf("CountOccupied = %d, want 2", got)
	}
	if got := CountOccupied(nil); got != 0 {
		t.Errorf("CountOccupied(nil) = %d, want 0", got)
	}
}

func TestDefaultBeds(t *testing.T) {
	beds := DefaultBeds(3)
	want := []Bed{
		{Number: "1", Status: BedVacant},
		{Number: "2", Status: BedVacant},
		{Number: "3", Status: BedVacant},
	}
	if !reflect.DeepEqual(beds, want) {
		t.Errorf("DefaultBeds(3) = %v, want %v", beds, want)
	}

	// A nonsensical capacity still yields one usable bed.
	if got := len(DefaultBeds(0)); got != 1 {
		t.Errorf("DefaultBeds(0) length = %d, want 1", got)
	}
}

func TestVacantBedNumbers(t *testing.T) {
	beds := []Bed{
		{Number: "1", Status: BedOccupied},
		{Number: "2", Status: BedVacant},
		{Number: "3", Status: BedVacant},
	}
	if got := VacantBedNumbers(beds); !reflect.DeepEqual(got, []string{"2", "3"}) {
		t.Errorf("VacantBedNumbers = %v, want [2 3]", got)
	}
}
