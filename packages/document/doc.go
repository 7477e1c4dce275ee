// Package document reads values embedded in HTML pages served by the
// application, such as the CSRF token rendered into a meta tag.
package document
