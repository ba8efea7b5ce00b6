// Package model defines the records exchanged with the orchestration API:
// pipelines and their node definitions, deployments, gateways, streams and
// files, plus the parameter sets sent as query strings.
//
// Each record is built only through its New<Record> factory, which checks
// every field and reports the first failure as an apierr.ValidationError
// scoped to the offending field. Decoding JSON goes through the same
// factory, so a record value in hand is always valid. Records are immutable;
// With returns a modified copy after validating it again.
//
// Enumerations carry two independent text forms: the wire string used in
// JSON bodies and query strings, and a storage token used by persistence.
package model
