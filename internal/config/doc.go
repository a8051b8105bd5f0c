// Package config loads the teamscribe configuration from the environment.
//
// All settings carry a TEAMSCRIBE_ prefix. The backend origin, the ordered
// analyze candidate list, and the analysis flags (test mode and timeouts)
// live here so that commands and the MCP server share a single source of
// truth; CLI flags may override individual values after Load.
package config
