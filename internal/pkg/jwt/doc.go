// Package jwt issues and verifies HMAC-signed access tokens and carries the
// verified claims through a request context.
package jwt
