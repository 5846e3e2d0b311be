package timezone

import (
	"jumuia/config"
	"time"
	_ "time/tzdata" // zone database for hosts without /usr/share/zoneinfo

	"github.com/rs/zerolog/log"
)

// DefaultTimezone is the resorts' local time. Gateway timestamps are always rendered in it.
const DefaultTimezone = "Africa/Nairobi"

var (
	appLocation     = time.UTC
	gatewayLocation = load(DefaultTimezone)
)

func load(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		log.Error().
			Err(err).
			Str("timezone", name).
			Msg("Failed to load timezone, falling back to UTC. Use an IANA name such as 'Africa/Nairobi'")

		return time.UTC
	}

	return loc
}

func init() {
	name := config.Get().App.Timezone
	if name == "" {
		name = DefaultTimezone
	}

	appLocation = load(name)

	log.Info().Str("timezone", appLocation.String()).Msg("Application timezone initialized")
}

// Now is the current time in the application timezone.
func Now() time.Time {
	return time.Now().In(appLocation)
}

func ToAppTime(t time.Time) time.Time {
	return t.In(appLocation)
}

func GetLocation() *time.Location {
	return appLocation
}

// Parse reads value as wall-clock time in the application timezone.
func Parse(layout, value string) (time.Time, error) {
	return time.ParseInLocation(layout, value, appLocation) //nolint:wrapcheck
}

func Format(t time.Time, layout string) string {
	return ToAppTime(t).Format(layout)
}

// Gateway is the Africa/Nairobi location used for M-Pesa timestamps, whatever APP_TIMEZONE says.
func Gateway() *time.Location {
	return gatewayLocation
}

// StartOfDay truncates t to midnight in the application timezone.
func StartOfDay(t time.Time) time.Time {
	year, month, day := ToAppTime(t).Date()

	return time.Date(year, month, day, 0, 0, 0, 0, appLocation)
}
