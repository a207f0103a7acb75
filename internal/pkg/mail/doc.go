// Package mail sends email. SMTP talks to a real relay and Log writes the
// message to the structured log.
package mail
