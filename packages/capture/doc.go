// Package capture extracts values from decoded response payloads.
//
// Paths use gjson syntax ("user.id", "items.#", "items.0.name"), so nested
// fields of a success payload can be pulled out by name, e.g. to print a
// created resource's id or feed it into a follow-up request.
package capture
