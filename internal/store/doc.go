// Package store caches API records in SQLite.
//
// Every entity gets its own table with one column per field. Enumerations
// are written as their storage tokens rather than their wire strings,
// identifiers as canonical text, and instants in the fixed-width form from
// package timestamp so that text comparison orders them. Rows are rebuilt
// through the model factories, so a record read back is always valid.
//
// Schema changes bump schemaVersion; users delete the database to adopt the
// new schema.
package store
