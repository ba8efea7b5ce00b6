// Package main implements the vidctl command-line client.
//
// vidctl validates and encodes the entities of the video-pipeline API
// (pipelines, deployments, gateways, streams and files), builds and decodes
// list query strings, talks to the API with the configured token, and
// inspects the local SQLite mirror. Entity files may be written as JSON with
// comments. Output is a table on a terminal and JSON otherwise; --output
// selects table, json or yaml explicitly.
package main
