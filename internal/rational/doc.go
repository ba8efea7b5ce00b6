// Package rational implements the exact-fraction values used for frame rates
// and other ratios that must never pass through floating point.
//
// A Rational is always held in lowest terms with a positive denominator, so
// 2/4 and 1/2 are the same value and compare equal with ==. The text form is
// "<numerator>/<denominator>" and is used unchanged by JSON bodies, query
// parameters (where the slash is percent-encoded by the query package) and
// the SQLite store.
package rational
