package store

import (
	"encoding/json"
	"time"
)

// SessionSnapshot is the serialized "who is logged in" record kept in the
// session slot. It survives process restarts and is cleared on logout.
// It mirrors the token claims plus the profile fields the dashboard shows
// without a DB round trip.
type SessionSnapshot struct {
	UserID      string    `json:"user_id"`
	Email       string    `json:"email"`
	FullName    string    `json:"full_name"`
	Phone       string    `json:"phone"`
	Nationality string    `json:"nationality"`
	Role        string    `json:"role"`
	IsVerified  bool      `json:"is_verified"`
	LoggedInAt  time.Time `json:"logged_in_at"`
}

func (s *SessionSnapshot) Marshal() ([]byte, error) {
	return json.Marshal(s)
}

func UnmarshalSessionSnapshot(data []byte) (*SessionSnapshot, error) {
	var s SessionSnapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	return &s, nil
}
