// Package schema validates decoded payloads against JSON Schema documents.
package schema
