// Package gcal builds Google Calendar "render" template URLs for sessions and inserts the
// "Add to Google Calendar" button into a page.
//
// A link carries the time pair in one of two encodings: two UTC instants
// ("20250604T080000Z/20250604T084500Z") or two wall-clock times plus a ctz zone parameter
// ("20250826T100000/20250826T104500" with ctz=America/Los_Angeles). Both describe the same
// instants; which one a page uses is a property of its site profile.
package gcal
