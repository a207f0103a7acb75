package config

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/samber/lo"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to environment overrides, e.g. QUICKCART_JWT_SECRET
// overrides jwt.secret.
const EnvPrefix = "QUICKCART"

// Viper is a Config backed by spf13/viper. File-backed instances reload on
// change; readers never observe a half-applied reload.
type Viper struct {
	mu sync.RWMutex
	v  *viper.Viper

	watcher *fsnotify.Watcher
	stopped chan struct{}
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// NewViper reads the file at path, its format taken from the extension,
// and watches it for changes until Close.
func NewViper(path string) (*Viper, error) {
	path = filepath.Clean(path)

	v := newViper()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	vc := &Viper{v: v}
	if err := vc.watch(path); err != nil {
		slog.Warn("config: hot reload disabled", "path", path, "error", err)
	}
	return vc, nil
}

// NewViperFromBytes reads configuration of configType ("yaml", "json", ...)
// from memory. It never reloads.
func NewViperFromBytes(configType string, data []byte) (*Viper, error) {
	if strings.TrimSpace(configType) == "" {
		return nil, errors.New("config: type is required")
	}

	v := newViper()
	v.SetConfigType(configType)
	if err := v.ReadConfig(bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", configType, err)
	}
	return &Viper{v: v}, nil
}

// watch follows the directory rather than the file so replacements by
// editors and Kubernetes ConfigMap symlink swaps are seen.
func (vc *Viper) watch(path string) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := w.Add(filepath.Dir(path)); err != nil {
		return errors.Join(err, w.Close())
	}

	vc.watcher = w
	vc.stopped = make(chan struct{})
	go vc.loop(path)
	return nil
}

func (vc *Viper) loop(path string) {
	defer close(vc.stopped)

	for {
		select {
		case ev, ok := <-vc.watcher.Events:
			if !ok {
				return
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			if filepath.Clean(ev.Name) != path && filepath.Base(ev.Name) != "..data" {
				continue
			}
			vc.reload(path)
		case err, ok := <-vc.watcher.Errors:
			if !ok {
				return
			}
			slog.Warn("config: watcher error", "path", path, "error", err)
		}
	}
}

func (vc *Viper) reload(path string) {
	vc.mu.Lock()
	defer vc.mu.Unlock()

	if err := vc.v.ReadInConfig(); err != nil {
		slog.Error("config: reload failed, keeping previous values", "path", path, "error", err)
		return
	}
	slog.Info("config: reloaded", "path", path)
}

func read[T any](vc *Viper, get func(*viper.Viper) T) T {
	vc.mu.RLock()
	defer vc.mu.RUnlock()
	return get(vc.v)
}

func (vc *Viper) GetBool(key string) bool {
	return read(vc, func(v *viper.Viper) bool { return v.GetBool(key) })
}

func (vc *Viper) GetInt(key string) int {
	return read(vc, func(v *viper.Viper) int { return v.GetInt(key) })
}

func (vc *Viper) GetInt32(key string) int32 {
	return read(vc, func(v *viper.Viper) int32 { return v.GetInt32(key) })
}

func (vc *Viper) GetInt64(key string) int64 {
	return read(vc, func(v *viper.Viper) int64 { return v.GetInt64(key) })
}

func (vc *Viper) GetFloat64(key string) float64 {
	return read(vc, func(v *viper.Viper) float64 { return v.GetFloat64(key) })
}

func (vc *Viper) GetString(key string) string {
	return read(vc, func(v *viper.Viper) string { return v.GetString(key) })
}

func (vc *Viper) GetSecond(key string) time.Duration { return time.Duration(vc.GetInt64(key)) * time.Second }
func (vc *Viper) GetMinute(key string) time.Duration { return time.Duration(vc.GetInt64(key)) * time.Minute }
func (vc *Viper) GetHour(key string) time.Duration   { return time.Duration(vc.GetInt64(key)) * time.Hour }

// GetBinary decodes a base64 value. Invalid input yields nil.
func (vc *Viper) GetBinary(key string) []byte {
	data, err := base64.StdEncoding.DecodeString(vc.GetString(key))
	if err != nil {
		return nil
	}
	return data
}

// GetArray accepts a YAML sequence or a comma-separated string. Items are
// trimmed and empty ones dropped.
func (vc *Viper) GetArray(key string) []string {
	raw := read(vc, func(v *viper.Viper) any { return v.Get(key) })

	var items []string
	switch val := raw.(type) {
	case []any:
		items = lo.Map(val, func(item any, _ int) string { return fmt.Sprint(item) })
	case []string:
		items = val
	case nil:
		return []string{}
	default:
		items = strings.Split(fmt.Sprint(val), ",")
	}

	return lo.Compact(lo.Map(items, func(item string, _ int) string { return strings.TrimSpace(item) }))
}

// GetMap accepts a YAML mapping or "k:v,k:v" pairs.
func (vc *Viper) GetMap(key string) map[string]string {
	if m := read(vc, func(v *viper.Viper) map[string]string {
		if _, ok := v.Get(key).(map[string]any); !ok {
			return nil
		}
		return v.GetStringMapString(key)
	}); m != nil {
		return m
	}

	m := make(map[string]string)
	for _, pair := range vc.GetArray(key) {
		if k, v, ok := strings.Cut(pair, ":"); ok {
			m[strings.TrimSpace(k)] = strings.TrimSpace(v)
		}
	}
	return m
}

// Required reports every key in keys that is unset or blank.
func (vc *Viper) Required(keys ...string) error {
	missing := lo.Filter(keys, func(k string, _ int) bool { return strings.TrimSpace(vc.GetString(k)) == "" })
	if len(missing) > 0 {
		return fmt.Errorf("config: missing required keys: %s", strings.Join(missing, ", "))
	}
	return nil
}

// Close stops the file watcher, if any.
func (vc *Viper) Close() error {
	if vc.watcher == nil {
		return nil
	}
	err := vc.watcher.Close()
	<-vc.stopped
	vc.watcher = nil
	return err
}
