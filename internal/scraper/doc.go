// Package scraper loads WordCamp pages and runs the extraction pipelines over them.
//
// A page is fetched over HTTP, rendered through headless Chrome, or read from a saved
// file, and parsed into a goquery document. Process then runs the pipeline named by the
// page's site profile:
//
//   - the schedule pipeline walks every day block, parses its date heading, and links each
//     session row using its free-text time range;
//   - the session pipeline reads the datetime attribute of a single session page and links
//     the date container.
//
// Processing mutates the document in place and returns a Report of every link produced and
// every block or session skipped. Nothing in a page makes Process fail: a malformed block or
// session is logged, recorded in Report.Skipped, and processing continues with the next one.
package scraper
