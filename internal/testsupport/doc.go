// Package testsupport provides shared helpers for vidctl tests: isolated
// configuration, an opened temp-dir store, and valid entity fixtures.
package testsupport
