// Package ident provides the 128-bit resource identifiers exchanged with the
// orchestration API.
//
// Identifiers are backed by github.com/google/uuid but parsing is stricter
// than uuid.Parse: only the canonical 36-character lowercase hyphenated form
// is accepted, so every identifier has exactly one text rendering on the wire,
// in query strings and in the store.
package ident
