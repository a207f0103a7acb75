// Package clock provides a tiny time abstraction.
//
// Business logic depends on Clocker instead of calling time.Now directly, so
// OTP expiry and token lifetimes can be tested with a Fixed clock.
package clock
