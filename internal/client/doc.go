// Package client is a thin HTTP client for the orchestration API.
//
// It owns nothing about the wire format beyond moving bytes: request bodies
// come from the model types' JSON encoders, query strings from package
// query, and responses are decoded back through the model factories. Every
// failure is returned as a *RequestError carrying the method, path, and
// status of the call, and is passed to the optional OnError callback first.
package client
