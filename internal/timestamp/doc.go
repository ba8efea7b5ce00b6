// Package timestamp holds timezone-aware instants with a single fixed-width
// text form, 2006-01-02T15:04:05.000000Z, so that lexical order matches
// chronological order in JSON, query strings and TEXT columns alike.
package timestamp
