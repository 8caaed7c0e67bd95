package record

import (
	"encoding/json"
	"testing"
	"time"
)

func TestDecode_TolerantFlags(t *testing.T) {
	tests := []struct {
		name       string
		value      string
		wantActive bool
	}{
		{"boolean true", `{"name":"sb1","status":"Available","isActive":true}`, true},
		{"string true", `{"name":"sb1","status":"Available","isActive":"true"}`, true},
		{"boolean false", `{"name":"sb1","status":"Expired","isActive":false}`, false},
		{"string false", `{"name":"sb1","status":"Expired","isActive":"false"}`, false},
		{"absent", `{"name":"sb1","status":"InProgress"}`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sb, err := Decode([]byte(tt.value))
			if err != nil {
				t.Fatalf("Decode failed: %v", err)
			}
			if bool(sb.IsActive) != tt.wantActive {
				t.Errorf("IsActive = %v, want %v", sb.IsActive, tt.wantActive)
			}
		})
	}
}

func TestDecode_TolerantMillis(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  int64
	}{
		{"number", `{"name":"sb1","status":"InUse","assignedAt":1700000000000}`, 1700000000000},
		{"numeric string", `{"name":"sb1","status":"InUse","assignedAt":"1700000000000"}`, 1700000000000},
		{"absent", `{"name":"sb1","status":"InUse"}`, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sb, err := Decode([]byte(tt.value))
			if err != nil {
				t.Fatalf("Decode failed: %v", err)
			}
			if int64(sb.AssignedAt) != tt.want {
				t.Errorf("AssignedAt = %d, want %d", sb.AssignedAt, tt.want)
			}
		})
	}
}

func TestDecode_CorruptValue(t *testing.T) {
	if _, err := Decode([]byte(`not json at all`)); err == nil {
		t.Error("Decode should fail on a corrupt value")
	}
	if _, err := Decode([]byte(`{"name":"sb1","assignedAt":"yesterday"}`)); err == nil {
		t.Error("Decode should fail on a non-numeric timestamp")
	}
}

func TestEncode_CanonicalForms(t *testing.T) {
	sb := &Sandbox{
		Name:       "sb1",
		Status:     StatusInUse,
		IsActive:   true,
		Issue:      "42",
		AssignedAt: 1700000000000,
	}

	data, err := sb.Encode()
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("Encode produced invalid JSON: %v", err)
	}
	if string(raw["isActive"]) != "true" {
		t.Errorf("isActive encoded as %s, want boolean true", raw["isActive"])
	}
	if string(raw["assignedAt"]) != "1700000000000" {
		t.Errorf("assignedAt encoded as %s, want a number", raw["assignedAt"])
	}
}

func TestEncodeDecode_RoundTrip(t *testing.T) {
	sb := &Sandbox{
		Name:       "839201123",
		Status:     StatusAssigned,
		IsActive:   true,
		Issue:      "77",
		CreatedAt:  Now(time.Now()),
		Requester:  "octocat",
		Email:      "octocat@example.com",
		ExpiryDays: 15,
		NeedsAdmin: true,
	}

	data, err := sb.Encode()
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	got, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if *got != *sb {
		t.Errorf("round trip mismatch: got %+v, want %+v", got, sb)
	}
}

func TestAgeBasis_Preference(t *testing.T) {
	entryCreated := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	assigned := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	created := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		sb   Sandbox
		want time.Time
	}{
		{"assignedAt wins", Sandbox{AssignedAt: Now(assigned), CreatedAt: Now(created)}, assigned},
		{"createdAt next", Sandbox{CreatedAt: Now(created)}, created},
		{"entry creation last", Sandbox{}, entryCreated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.sb.AgeBasis(entryCreated); !got.Equal(tt.want) {
				t.Errorf("AgeBasis = %v, want %v", got, tt.want)
			}
		})
	}
}
