package database

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Opener opens the tenant database at path
type Opener func(path string) (*TenantStore, error)

// RegistryOption customizes a Registry
type RegistryOption func(*Registry)

// WithOpener replaces the function used to open tenant files
func WithOpener(open Opener) RegistryOption {
	return func(r *Registry) { r.open = open }
}

// WithOpenHook registers a callback run with the cache size after each new handle
func WithOpenHook(fn func(cached int)) RegistryOption {
	return func(r *Registry) { r.onOpen = fn }
}

// Registry maps tenant database filenames to open stores. Handles are opened
// on first use and kept for the life of the process.
type Registry struct {
	dir          string
	defaultName  string
	defaultStore *TenantStore
	open         Opener
	onOpen       func(int)

	mu     sync.Mutex
	stores map[string]*TenantStore
}

// NewRegistry creates a registry rooted at dir. defaultStore answers for the
// empty name and for defaultName.
func NewRegistry(dir, defaultName string, defaultStore *TenantStore, opts ...RegistryOption) *Registry {
	r := &Registry{
		dir:          dir,
		defaultName:  defaultName,
		defaultStore: defaultStore,
		open:         OpenTenant,
		stores:       make(map[string]*TenantStore),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Default returns the boot handle
func (r *Registry) Default() *TenantStore {
	return r.defaultStore
}

// Dir returns the directory holding tenant files
func (r *Registry) Dir() string {
	return r.dir
}

// IsDefault reports whether dbName designates the boot handle
func (r *Registry) IsDefault(dbName string) bool {
	return dbName == "" || dbName == r.defaultName
}

// Resolve returns the store for dbName, opening it on first use.
// Failures leave the cache untouched.
func (r *Registry) Resolve(dbName string) (*TenantStore, error) {
	if r.IsDefault(dbName) {
		return r.defaultStore, nil
	}
	if err := ValidateDBName(dbName); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.stores[dbName]; ok {
		return s, nil
	}

	path := filepath.Join(r.dir, dbName)
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrTenantNotFound, dbName)
		}
		return nil, fmt.Errorf("failed to stat tenant database %s: %w", dbName, err)
	}

	s, err := r.open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open tenant database %s: %w", dbName, err)
	}
	s.name = dbName
	r.stores[dbName] = s
	if r.onOpen != nil {
		r.onOpen(len(r.stores))
	}
	return s, nil
}

// Cached reports whether a handle for dbName is open
func (r *Registry) Cached(dbName string) bool {
	if r.IsDefault(dbName) {
		return true
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.stores[dbName]
	return ok
}

// Len returns the number of lazily opened handles
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.stores)
}

// Close closes every cached handle and the boot handle, best effort
func (r *Registry) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var errs []error
	for name, s := range r.stores {
		if err := s.Close(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
	}
	if r.defaultStore != nil {
		if err := r.defaultStore.Close(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", r.defaultName, err))
		}
	}
	return errors.Join(errs...)
}

// ValidateDBName accepts bare filenames only
func ValidateDBName(dbName string) error {
	if dbName == "" || dbName == "." || dbName == ".." ||
		strings.ContainsAny(dbName, `/\`) || strings.Contains(dbName, "..") ||
		filepath.Base(dbName) != dbName {
		return fmt.Errorf("%w: database name %q", ErrInvalidArgument, dbName)
	}
	return nil
}
