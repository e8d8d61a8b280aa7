package timezone

import (
	"hotel/config"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

var (
	once     sync.Once
	location = time.UTC
	clock    = time.Now
	clockMu  sync.RWMutex
)

func load() {
	once.Do(func() {
		name := config.Get().App.Timezone
		if name == "" {
			log.Warn().Msg("No timezone configured, using UTC")

			return
		}

		loc, err := time.LoadLocation(name)
		if err != nil {
			log.Error().Err(err).Str("timezone", name).Msg("Failed to load timezone, falling back to UTC")

			return
		}

		location = loc

		log.Info().Str("timezone", loc.String()).Msg("Application timezone initialized")
	})
}

// Location is the hotel's local timezone, loaded from APP_TIMEZONE on first use.
func Location() *time.Location {
	load()

	return location
}

// Now is the current time at the hotel. Stays are priced against it, so tests may pin it with SetClock.
func Now() time.Time {
	clockMu.RLock()
	now := clock
	clockMu.RUnlock()

	return now().In(Location())
}

// SetClock replaces the time source and returns a func that restores the previous one.
func SetClock(now func() time.Time) (restore func()) {
	clockMu.Lock()
	previous := clock
	clock = now
	clockMu.Unlock()

	return func() {
		clockMu.Lock()
		clock = previous
		clockMu.Unlock()
	}
}

func ToAppTime(t time.Time) time.Time {
	return t.In(Location())
}

func Format(t time.Time, layout string) string {
	return ToAppTime(t).Format(layout)
}
