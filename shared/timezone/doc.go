// Package timezone keeps every wall-clock computation in one location.
//
// The application timezone comes from APP_TIMEZONE (Africa/Nairobi when unset) and is loaded
// when the package is imported. Booking dates are calendar dates and are parsed as UTC
// midnights by their DTOs; this package covers instants such as "today" for the calendar
// counters, metadata rendering and M-Pesa timestamps:
//
//	today := timezone.StartOfDay(timezone.Now())
//	stamp := timezone.Now().In(timezone.Gateway()).Format(constant.DarajaTimeFmt)
package timezone
