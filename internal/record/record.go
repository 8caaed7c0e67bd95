package record

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// Status is the lifecycle state of a sandbox record.
type Status string

const (
	StatusInProgress Status = "InProgress"
	StatusAvailable  Status = "Available"
	StatusInUse      Status = "InUse"
	StatusAssigned   Status = "Assigned"
	StatusExpired    Status = "Expired"
)

// Kind determines the side effects a sandbox receives on provisioning
// completion and release.
type Kind string

const (
	// KindCIPool is an interchangeable sandbox in a branch-scoped pool,
	// claimed by CI jobs one at a time.
	KindCIPool Kind = "ci-pool"

	// KindDeveloper is a dedicated sandbox provisioned for a single
	// human requester.
	KindDeveloper Kind = "developer"
)

// Flag is a boolean that tolerates the string forms "true" and "false"
// on decode. It always encodes as a JSON boolean.
type Flag bool

func (f Flag) MarshalJSON() ([]byte, error) {
	return json.Marshal(bool(f))
}

func (f *Flag) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch string(data) {
	case "true", `"true"`:
		*f = true
	case "false", `"false"`, "null":
		*f = false
	default:
		return fmt.Errorf("invalid flag value %s", data)
	}
	return nil
}

// Millis is an instant in epoch milliseconds. It tolerates numeric
// strings on decode and encodes as a JSON number. The zero value means
// "not set".
type Millis int64

// Now converts a time to Millis.
func Now(t time.Time) Millis {
	return Millis(t.UnixMilli())
}

// Time returns the instant as a time.Time.
func (m Millis) Time() time.Time {
	return time.UnixMilli(int64(m))
}

// IsZero reports whether the instant is unset.
func (m Millis) IsZero() bool {
	return m == 0
}

func (m Millis) MarshalJSON() ([]byte, error) {
	return json.Marshal(int64(m))
}

func (m *Millis) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if string(data) == "null" {
		*m = 0
		return nil
	}
	s := string(data)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	if s == "" {
		*m = 0
		return nil
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid millisecond timestamp %s: %w", data, err)
	}
	*m = Millis(v)
	return nil
}

// Sandbox is the stored state of one sandbox slot.
type Sandbox struct {
	// Name is the opaque sandbox identifier. Identity = name; it never
	// changes across the record's lifetime.
	Name string `json:"name"`

	Status   Status `json:"status"`
	IsActive Flag   `json:"isActive"`

	// Issue is the requester or ticket the sandbox is currently bound
	// to. Empty when unclaimed.
	Issue string `json:"issue,omitempty"`

	CreatedAt  Millis `json:"createdAt,omitempty"`
	AssignedAt Millis `json:"assignedAt,omitempty"`

	// Policy flags exempting the record from normal expiry.
	IsExtended Flag `json:"isExtended,omitempty"`
	IsImmortal Flag `json:"isImmortal,omitempty"`

	// Developer-kind fields.
	Requester  string `json:"requester,omitempty"`
	Email      string `json:"email,omitempty"`
	ExpiryDays int    `json:"expiry,omitempty"`

	// NeedsAdmin records a partially failed user setup so the requester
	// can be told to contact an administrator.
	NeedsAdmin Flag `json:"needsAdmin,omitempty"`
}

// Decode parses a stored record value.
func Decode(value []byte) (*Sandbox, error) {
	var sb Sandbox
	if err := json.Unmarshal(value, &sb); err != nil {
		return nil, err
	}
	return &sb, nil
}

// Encode serializes a record for storage.
func (s *Sandbox) Encode() ([]byte, error) {
	return json.Marshal(s)
}

// AgeBasis returns the instant age is measured from: assignment time if
// set, else creation time, else the store entry's own creation instant.
func (s *Sandbox) AgeBasis(entryCreated time.Time) time.Time {
	if !s.AssignedAt.IsZero() {
		return s.AssignedAt.Time()
	}
	if !s.CreatedAt.IsZero() {
		return s.CreatedAt.Time()
	}
	return entryCreated
}
