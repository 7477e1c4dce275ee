// Package client provides the fetchclient HTTP client.
//
// Every call is classified into exactly one of three outcomes:
//   - Success: a response was received with a 2xx status
//   - ResponseFailure: a response was received with any other status
//   - NetworkFailure: no response was received at all
//
// Outcomes are returned as a Result value instead of an error, so callers
// branch on Succeeded and ResponseReceived rather than inspecting errors.
// The error return of each method is reserved for invalid input such as an
// unsupported method or a relative URL.
package client
