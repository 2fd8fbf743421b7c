// Package session provides the session model and the date/time parsing used to turn
// WordCamp schedule text into precise instants.
//
// Schedule pages carry a day heading ("Wednesday, June 4, 2025") per block and a free-text
// time range ("10:00 - 10:45 CEST") per session. Session pages carry an ISO-8601 datetime
// attribute plus an optional human-readable range. All parsing failures are returned as
// wrapped sentinel errors so callers can skip the offending block or session and continue.
package session
