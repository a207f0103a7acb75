// Package validator provides a small validation abstraction for request and
// domain structs.
//
// Business code depends on the Validator interface. The go-playground
// implementation reports failures keyed by the JSON field name.
package validator
