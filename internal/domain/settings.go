package domain

import (
	"fmt"
	"strings"
	"time"
	_ "time/tzdata" // settings accept IANA names on hosts without a zoneinfo database

	"github.com/google/uuid"
)

// Default settings, matching what a new user sees before saving anything.
const (
	DefaultMinDaysAhead = 1
	DefaultMaxDaysAhead = 4
	DefaultEarliestHour = 8
	DefaultLatestHour   = 23
	DefaultTimezone     = "UTC"

	// MaxDaysAheadLimit bounds how far out a due date may be scheduled.
	MaxDaysAheadLimit = 30
)

// Validation errors for Settings
var (
	ErrEmptySettingsUserID = fmt.Errorf("%w: settings user ID cannot be empty", ErrValidation)
	ErrDaysOutOfRange      = fmt.Errorf("%w: days ahead must be between 1 and %d", ErrValidation, MaxDaysAheadLimit)
	ErrDaysRangeInverted   = fmt.Errorf("%w: minimum days ahead cannot be greater than maximum days ahead", ErrValidation)
	ErrHourOutOfRange      = fmt.Errorf("%w: hours must be between 0 and 23", ErrValidation)
	ErrHourRangeInverted   = fmt.Errorf("%w: earliest hour cannot be greater than latest hour", ErrValidation)
	ErrInvalidTimezone     = fmt.Errorf("%w: unknown timezone", ErrValidation)
)

// Settings bound the random due-date generator for one user.
type Settings struct {
	UserID       uuid.UUID `json:"user_id"`
	MinDaysAhead int       `json:"min_days_ahead"`
	MaxDaysAhead int       `json:"max_days_ahead"`
	EarliestHour int       `json:"earliest_hour"`
	LatestHour   int       `json:"latest_hour"`
	Timezone     string    `json:"timezone"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// DefaultSettings returns the defaults for userID.
func DefaultSettings(userID uuid.UUID) Settings {
	return Settings{
		UserID:       userID,
		MinDaysAhead: DefaultMinDaysAhead,
		MaxDaysAhead: DefaultMaxDaysAhead,
		EarliestHour: DefaultEarliestHour,
		LatestHour:   DefaultLatestHour,
		Timezone:     DefaultTimezone,
	}
}

// Validate enforces the settings invariants. The generator tolerates invalid
// settings, but nothing invalid should be persisted.
func (s *Settings) Validate() error {
	if s.UserID == uuid.Nil {
		return ErrEmptySettingsUserID
	}
	if s.MinDaysAhead < 1 || s.MinDaysAhead > MaxDaysAheadLimit ||
		s.MaxDaysAhead < 1 || s.MaxDaysAhead > MaxDaysAheadLimit {
		return ErrDaysOutOfRange
	}
	if s.MinDaysAhead > s.MaxDaysAhead {
		return ErrDaysRangeInverted
	}
	if s.EarliestHour < 0 || s.EarliestHour > 23 || s.LatestHour < 0 || s.LatestHour > 23 {
		return ErrHourOutOfRange
	}
	if s.EarliestHour > s.LatestHour {
		return ErrHourRangeInverted
	}
	if _, err := loadLocation(s.timezone()); err != nil {
		return ErrInvalidTimezone
	}
	return nil
}

// Location returns the settings' time zone, falling back to UTC when the name
// is empty or unknown.
func (s Settings) Location() *time.Location {
	loc, err := loadLocation(s.timezone())
	if err != nil {
		return time.UTC
	}
	return loc
}

func (s Settings) timezone() string {
	if s.Timezone == "" {
		return DefaultTimezone
	}
	return s.Timezone
}

// loadLocation resolves an IANA zone name. "Local" names the server's zone,
// not the user's, and is rejected.
func loadLocation(name string) (*time.Location, error) {
	if strings.EqualFold(name, "local") {
		return nil, ErrInvalidTimezone
	}
	return time.LoadLocation(name)
}
