// Package output provides formatters for displaying request results.
//
// Supported output formats:
//   - Console: Human-readable colored terminal output
//   - JSON: Machine-readable JSON output, one document per exchange
//
// Both formatters render the three result shapes (success, response
// failure, network failure) so scripts and humans see the same distinction
// the client makes.
package output
