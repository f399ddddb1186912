// Package sanitizer normalizes user supplied strings before validation and storage.
//
// Every function is idempotent and never fails: invalid input collapses to an
// empty string (or is dropped from a slice) and validation decides what to do.
//
// Normalization includes:
//   - Strings: collapse inner whitespace, trim leading/trailing spaces
//   - Emails: trimmed and lower-cased, matching the unique index
//   - Slugs: lower-case ASCII letters and digits joined by single hyphens
//   - Amenities and tags: trimmed, lower-cased, de-duplicated
//   - URLs: scheme enforced, host lower-cased, tracking parameters removed
package sanitizer
