// Package enum maps closed sets of Go constants to their external text forms.
//
// Every registry keeps two independent tables: the wire string used in JSON
// bodies and query strings, and the storage token written to database
// columns. The tables are declared together but never derived from one
// another, and neither is case-folded on lookup. Registries are built once at
// package init and are read-only afterwards, so lookups need no locking.
package enum
