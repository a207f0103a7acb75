// Package hash provides helpers for hashing and verifying secrets.
//
// Argon2id is used for passwords: store only the encoded hash, then verify user
// input against it. HMACSHA256 is a keyed digest for short-lived codes that
// must not sit in the database in plaintext.
package hash
