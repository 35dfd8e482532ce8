// Package kv provides synchronous string key-value stores used to persist
// the task collection under a single key.
package kv

import (
	"errors"
	"fmt"

	"github.com/nibzard/studyplan/internal/utils"
)

// Store is a synchronous string key-value store.
//
// Get reports ok=false for a missing key; that is not an error.
type Store interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
	Delete(key string) error
	Close() error
}

// Backend names a Store implementation.
type Backend string

const (
	BackendFile   Backend = "file"
	BackendMemory Backend = "memory"
	BackendMySQL  Backend = "mysql"
)

var (
	ErrClosed         = errors.New("kv store is closed")
	ErrUnknownBackend = errors.New("unknown storage backend")
)

// ParseBackend parses a backend name. Blank means file.
func ParseBackend(s string) (Backend, error) {
	switch b := Backend(utils.NormalizeName(s)); b {
	case "":
		return BackendFile, nil
	case BackendFile, BackendMemory, BackendMySQL:
		return b, nil
	default:
		return "", fmt.Errorf("%w: %q (expected file|memory|mysql)", ErrUnknownBackend, s)
	}
}

// Options selects and configures a backend.
type Options struct {
	Backend Backend
	Dir     string // data directory for the file backend
	DSN     string // data source name for the mysql backend
}

// Open creates the store described by opts.
func Open(opts Options) (Store, error) {
	backend, err := ParseBackend(string(opts.Backend))
	if err != nil {
		return nil, err
	}
	switch backend {
	case BackendMemory:
		return NewMemoryStore(), nil
	case BackendMySQL:
		return NewMySQLStore(opts.DSN)
	default:
		return NewFileStore(opts.Dir)
	}
}
