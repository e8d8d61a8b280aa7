// Package timezone keeps every timestamp the service produces in the hotel's local time.
//
// The zone comes from APP_TIMEZONE (an IANA name such as "Asia/Jakarta") and falls back to UTC.
// Check-in and check-out values keep the offset the client sent; responses and events are
// rendered in the hotel zone with Format.
package timezone
