// Package store provides a read-only, filesystem-backed source of calendar
// and job definitions.
//
// A definitions directory holds two subdirectories, calendars/ and jobs/,
// each containing JSON or YAML documents. A document's key is its path
// relative to the subdirectory with the extension stripped and path
// separators turned into dots: calendars/kinesin/holidays.yaml is the
// calendar "kinesin.holidays".
//
// Load parses the whole directory into an immutable Snapshot; the Manager
// swaps snapshots atomically and can watch the directory for changes. A
// snapshot handed to the engine stays consistent for the lifetime of one
// resolution regardless of concurrent reloads, and a reload that fails to
// parse never replaces a good snapshot.
//
// Write-side persistence (creating and updating definitions) is out of
// scope; that belongs to an external service.
package store
