// Package calendar implements flexcal's calendar resolution engine.
//
// # Overview
//
// A calendar is a weekly mask of ordinarily-valid days (dow_list) plus an
// ordered list of exclusion rules (exact dates, recurring month/day holidays,
// "Nth weekday of month" holidays). Holidays carry an observance policy that
// shifts the actually-excluded day onto a working day. Calendars can inherit
// other calendars; the excluded-date set of a calendar is the union of its own
// exclusions and those of every transitively inherited calendar.
//
// Resolution turns those symbolic rules into a concrete excluded-date set for
// an explicit year range (Resolve). Queries against the resolved form
// (Contains, DatesBetween) are pure lookups.
//
// # Purity
//
// Everything in this package is a pure function over immutable inputs. The
// definition snapshot is passed in explicitly; nothing here performs I/O,
// logs, or keeps state between calls, so concurrent use needs no
// synchronization.
package calendar
