package hash

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
	"golang.org/x/sync/semaphore"
)

var errMalformedHash = errors.New("hash: malformed argon2id encoding")

// argonParams is the cost recorded in each encoded hash, so raising the cost
// keeps old hashes verifiable.
type argonParams struct {
	memory  uint32 // KiB
	time    uint32
	threads uint8
	keyLen  uint32
}

var defaultArgonParams = argonParams{memory: 32 * 1024, time: 3, threads: 2, keyLen: 32}

const argonSaltLen = 16

// Argon2id hashes passwords in the PHC string format
// $argon2id$v=19$m=<KiB>,t=<passes>,p=<threads>$<salt>$<key>.
type Argon2id struct {
	params argonParams
	pepper string
	// limit caps concurrent derivations. Nil means unlimited.
	limit *semaphore.Weighted
}

// NewArgon2id returns a hasher that appends pepper to every input. A positive
// maxConcurrent bounds how many derivations run at once in the process.
func NewArgon2id(pepper string, maxConcurrent int) *Argon2id {
	a := &Argon2id{params: defaultArgonParams, pepper: pepper}
	if maxConcurrent > 0 {
		a.limit = semaphore.NewWeighted(int64(maxConcurrent))
	}
	return a
}

// Hash waits for a derivation slot until ctx ends.
func (a *Argon2id) Hash(ctx context.Context, str string) ([]byte, error) {
	if len(str) > MaxInputBytes {
		return nil, ErrInputTooLong
	}

	salt := make([]byte, argonSaltLen)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("hash: read salt: %w", err)
	}

	key, err := a.derive(ctx, str, salt, a.params)
	if err != nil {
		return nil, err
	}
	return []byte(encodeArgon(a.params, salt, key)), nil
}

// Verify reports whether str matches hashed. Malformed encodings never match.
func (a *Argon2id) Verify(ctx context.Context, hashed, str string) (bool, error) {
	if hashed == "" || len(str) > MaxInputBytes {
		return false, nil
	}

	p, salt, want, err := decodeArgon(hashed)
	if err != nil {
		return false, nil
	}

	got, err := a.derive(ctx, str, salt, p)
	if err != nil {
		return false, err
	}
	return subtle.ConstantTimeCompare(want, got) == 1, nil
}

func (a *Argon2id) derive(ctx context.Context, str string, salt []byte, p argonParams) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("hash: %w", err)
	}
	if a.limit != nil {
		if err := a.limit.Acquire(ctx, 1); err != nil {
			return nil, fmt.Errorf("hash: wait for argon2id slot: %w", err)
		}
		defer a.limit.Release(1)
	}
	return argon2.IDKey([]byte(str+a.pepper), salt, p.time, p.memory, p.threads, p.keyLen), nil
}

func encodeArgon(p argonParams, salt, key []byte) string {
	b64 := base64.RawStdEncoding
	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, p.memory, p.time, p.threads, b64.EncodeToString(salt), b64.EncodeToString(key))
}

func decodeArgon(encoded string) (argonParams, []byte, []byte, error) {
	var p argonParams

	fields := strings.Split(encoded, "$")
	if len(fields) != 6 || fields[0] != "" || fields[1] != "argon2id" {
		return p, nil, nil, errMalformedHash
	}

	var version int
	if _, err := fmt.Sscanf(fields[2], "v=%d", &version); err != nil || version != argon2.Version {
		return p, nil, nil, errMalformedHash
	}
	if _, err := fmt.Sscanf(fields[3], "m=%d,t=%d,p=%d", &p.memory, &p.time, &p.threads); err != nil || p.time == 0 || p.threads == 0 {
		return p, nil, nil, errMalformedHash
	}

	salt, err := base64.RawStdEncoding.DecodeString(fields[4])
	if err != nil {
		return p, nil, nil, errMalformedHash
	}
	key, err := base64.RawStdEncoding.DecodeString(fields[5])
	if err != nil || len(key) == 0 {
		return p, nil, nil, errMalformedHash
	}
	p.keyLen = uint32(len(key)) //nolint:gosec // bounded by the encoded string

	return p, salt, key, nil
}
