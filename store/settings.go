package store

import (
	"fmt"
	"sync"
	"time"

	"github.com/hakeemmukif/distraction-shop-v2/schedule"
)

// Settings holds the live shop configuration that admins can change at
// runtime: the weekly schedule, its timezone, and the contact address.
// In-memory only; a restart reloads the values from config.
type Settings struct {
	mu           sync.RWMutex
	week         schedule.WeeklySchedule
	location     *time.Location
	timezone     string
	contactEmail string
}

func NewSettings(week schedule.WeeklySchedule, timezone, contactEmail string) (*Settings, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid shop timezone %q: %w", timezone, err)
	}
	return &Settings{
		week:         week,
		location:     loc,
		timezone:     timezone,
		contactEmail: contactEmail,
	}, nil
}

// Schedule returns the current weekly schedule and its location together so
// a status evaluation never mixes a new schedule with an old timezone.
func (s *Settings) Schedule() (schedule.WeeklySchedule, *time.Location) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.week, s.location
}

func (s *Settings) Timezone() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.timezone
}

func (s *Settings) ContactEmail() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.contactEmail
}

// UpdateSchedule swaps in a new schedule, and a new timezone when one is
// given. The caller validates the schedule via schedule.FromConfig first;
// this only fails on an unknown timezone.
func (s *Settings) UpdateSchedule(week schedule.WeeklySchedule, timezone string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if timezone != "" && timezone != s.timezone {
		loc, err := time.LoadLocation(timezone)
		if err != nil {
			return fmt.Errorf("invalid shop timezone %q: %w", timezone, err)
		}
		s.location = loc
		s.timezone = timezone
	}
	s.week = week
	return nil
}
