// Package config reads vidctl settings from TOML and the environment.
//
// Load looks for an explicit path, then the user config directory, then
// vidctl.toml in the working directory. VIDCTL_API_TOKEN and VIDCTL_BASE_URL
// fill in values the file leaves unset. Paths come back absolute with ~
// expanded, and Validate rejects malformed URLs, ids and log settings before
// any command runs.
package config
