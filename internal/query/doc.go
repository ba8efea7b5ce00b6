// Package query flattens parameter structs into URL query strings and back.
//
// The escaping table is fixed and owned here rather than borrowed from
// net/url: the bytes A-Z, a-z, 0-9 and the four marks * - . _ are written
// as-is, a space becomes '+', and every other byte becomes %XX with upper-case
// hex digits. A rational such as 30/1 therefore travels as 30%2F1. This
// matches application/x-www-form-urlencoded serialization as the remote API
// emits it; url.QueryEscape differs on '*' and '~'.
//
// Only scalar fields can be flattened. Collections, maps and nested structs
// are rejected when a value is marshaled, with an error naming the field.
package query
