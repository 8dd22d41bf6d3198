package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Status is the account state stored as a small integer code.
type Status int

const (
	StatusActive    Status = 1
	StatusSuspended Status = 2
	StatusBanned    Status = 3
)

var statusNames = map[Status]string{
	StatusActive:    "ACTIVE",
	StatusSuspended: "SUSPENDED",
	StatusBanned:    "BANNED",
}

// StatusFromCode converts a stored code into a Status
func StatusFromCode(code int) (Status, error) {
	s := Status(code)
	if _, ok := statusNames[s]; !ok {
		return 0, fmt.Errorf("%w: invalid status code %d", ErrInvalidArgument, code)
	}
	return s, nil
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

func (s Status) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *Status) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	for code, n := range statusNames {
		if strings.EqualFold(n, name) {
			*s = code
			return nil
		}
	}
	return fmt.Errorf("%w: invalid status %q", ErrInvalidArgument, name)
}

// User is a profile record. ID is assigned by the identity provider, never generated here.
type User struct {
	ID                 int64
	Name               string
	Surname            string
	Email              string
	Phone              string
	Address            string
	City               string
	ZipCode            string
	Country            string
	Birthday           time.Time
	Status             Status
	Verified           bool
	StartTime          *TimeOfDay // daily working hours, optional
	EndTime            *TimeOfDay
	ProfilePicturePath string // storage key; empty means no picture
	CreatedAt          time.Time
}

// HasProfilePicture reports whether a storage key is set
func (u *User) HasProfilePicture() bool {
	return strings.TrimSpace(u.ProfilePicturePath) != ""
}
