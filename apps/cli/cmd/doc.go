// Package cmd implements the fetchclient CLI commands using Cobra.
//
// Available commands:
//   - get, post, put, delete: Issue one request and print the classified result
//   - csrf: Read the CSRF token from an application page
//   - init: Write a starter .fetchclient.yml
//   - version: Show fetchclient version information
//
// The exit code reflects the outcome: a response failure, a schema
// violation and a network failure each have their own code.
package cmd
