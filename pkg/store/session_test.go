package store

import (
	"testing"
	"time"
)

func TestSessionSnapshotRoundTrip(t *testing.T) {
	in := &SessionSnapshot{
		UserID:      "8f14e45f-ea3e-4c1d-9b3a-1c0b6d2f9e01",
		Email:       "john@example.com",
		FullName:    "John Doe",
		Phone:       "+1 555 123 4567",
		Nationality: "United States",
		Role:        "user",
		IsVerified:  true,
		LoggedInAt:  time.Date(2026, 2, 10, 10, 0, 0, 0, time.UTC),
	}

	raw, err := in.Marshal()
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	out, err := UnmarshalSessionSnapshot(raw)
	if err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	if *out != *in {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", out, in)
	}
}

func TestUnmarshalSessionSnapshotRejectsGarbage(t *testing.T) {
	if _, err := UnmarshalSessionSnapshot([]byte("{not json")); err == nil {
		t.Error("expected error for malformed payload")
	}
}
