// Package otp generates the one-time codes sent by email to confirm an
// account's address.
package otp
