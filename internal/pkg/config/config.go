// Package config reads layered service configuration: a file, overridden by
// QUICKCART_* environment variables.
package config

import (
	"io"
	"time"
)

// TimeConfig reads integers as durations in the named unit.
type TimeConfig interface {
	GetSecond(key string) time.Duration
	GetMinute(key string) time.Duration
	GetHour(key string) time.Duration
}

// Config is safe for concurrent use. Missing keys yield zero values; callers
// check what they cannot run without through Required.
type Config interface {
	io.Closer
	TimeConfig

	GetBool(key string) bool
	GetInt(key string) int
	GetInt32(key string) int32
	GetInt64(key string) int64
	GetFloat64(key string) float64
	GetString(key string) string
	GetBinary(key string) []byte
	GetArray(key string) []string
	GetMap(key string) map[string]string

	Required(keys ...string) error
}
