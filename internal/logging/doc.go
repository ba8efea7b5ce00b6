// Package logging builds the slog loggers vidctl writes through.
//
// Console output is a compact single line per record with indented fields;
// JSON output uses short keys for ingestion. Credentials are redacted in both.
// WithContext tags records with the request correlation id.
package logging
