package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestDefaultSettings(t *testing.T) {
	t.Parallel()
	userID := uuid.New()
	s := DefaultSettings(userID)

	assert.Equal(t, userID, s.UserID)
	assert.Equal(t, 1, s.MinDaysAhead)
	assert.Equal(t, 4, s.MaxDaysAhead)
	assert.Equal(t, 8, s.EarliestHour)
	assert.Equal(t, 23, s.LatestHour)
	assert.NoError(t, s.Validate())
}

func TestSettingsValidate(t *testing.T) {
	t.Parallel()
	base := DefaultSettings(uuid.New())

	tests := []struct {
		name    string
		mutate  func(*Settings)
		wantErr error
	}{
		{"single day range", func(s *Settings) { s.MinDaysAhead, s.MaxDaysAhead = 3, 3 }, nil},
		{"full day", func(s *Settings) { s.EarliestHour, s.LatestHour = 0, 23 }, nil},
		{"named zone", func(s *Settings) { s.Timezone = "Europe/Madrid" }, nil},
		{"empty zone means UTC", func(s *Settings) { s.Timezone = "" }, nil},
		{"missing user", func(s *Settings) { s.UserID = uuid.Nil }, ErrEmptySettingsUserID},
		{"zero min days", func(s *Settings) { s.MinDaysAhead = 0 }, ErrDaysOutOfRange},
		{"max days beyond limit", func(s *Settings) { s.MaxDaysAhead = MaxDaysAheadLimit + 1 }, ErrDaysOutOfRange},
		{"inverted days", func(s *Settings) { s.MinDaysAhead, s.MaxDaysAhead = 5, 2 }, ErrDaysRangeInverted},
		{"negative hour", func(s *Settings) { s.EarliestHour = -1 }, ErrHourOutOfRange},
		{"hour 24", func(s *Settings) { s.LatestHour = 24 }, ErrHourOutOfRange},
		{"inverted hours", func(s *Settings) { s.EarliestHour, s.LatestHour = 20, 9 }, ErrHourRangeInverted},
		{"unknown zone", func(s *Settings) { s.Timezone = "Mars/Olympus" }, ErrInvalidTimezone},
		{"server local zone", func(s *Settings) { s.Timezone = "Local" }, ErrInvalidTimezone},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := base
			tc.mutate(&s)
			err := s.Validate()
			if tc.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tc.wantErr)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestSettingsLocation(t *testing.T) {
	t.Parallel()
	assert.Equal(t, time.UTC, Settings{}.Location())
	assert.Equal(t, time.UTC, Settings{Timezone: "Nowhere/Special"}.Location())
	assert.Equal(t, time.UTC, Settings{Timezone: "Local"}.Location())
	assert.Equal(t, "America/New_York", Settings{Timezone: "America/New_York"}.Location().String())
}
