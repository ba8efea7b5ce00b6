// Package nonempty provides an ordered sequence that always holds at least
// one element.
//
// The first element is stored apart from the rest, so even the zero value of
// Slice is a one-element sequence and First never needs an error check. No
// operation removes elements; building from a possibly-empty source goes
// through FromSlice, which is the only place ErrEmptyCollection can arise.
package nonempty
