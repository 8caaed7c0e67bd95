// Package logging provides logging utilities for sandpool-ctl.
//
// This package provides two categories of output:
//   - Debug logging: Structured logs for debugging (via slog)
//   - User output: Formatted messages for end users
//
// # Debug Logging
//
// Debug logs are written using slog and controlled by verbosity settings:
//
//	logging.Debug("claiming sandbox", "name", name, "issue", issue)
//	logging.Warn("store list retry", "pattern", pattern, "attempt", n)
//
// # User Output
//
// User-facing messages are formatted with status indicators:
//
//	logging.UserInfo("Pool: %s", pool)
//	logging.UserSuccess("Assigned sandbox %s to issue %s", name, issue)
//	logging.UserWarning("Sandbox %s has a corrupt record, skipping", name)
//	logging.UserError("Failed to reach the record store: %v", err)
//
// Output destinations:
//   - UserInfo, UserSuccess: stderr (stdout is reserved for machine output
//     such as the allocated sandbox name)
//   - UserWarning, UserError: stderr
//
// # Status Indicators
//
// User functions prepend status indicators:
//   - ℹ (info)
//   - ✓ (success)
//   - ⚠ (warning)
//   - ✗ (error)
package logging
