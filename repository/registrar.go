package repository

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"nosql-repository-backend/dal"
	"nosql-repository-backend/entity"
)

var (
	// ErrRegistrationConflict is returned when two repositories claim the same name
	ErrRegistrationConflict = errors.New("repository already registered")
	// ErrRepositoryNotFound is returned when no repository of the requested type is registered under a name
	ErrRepositoryNotFound = errors.New("repository not found")
)

// Entry binds an entity name to a constructor for its repository
type Entry struct {
	EntityName string
	build      func(f *Factory) any
}

// Bind declares T under entityName
func Bind[T dal.TableEntity](entityName string) Entry {
	return Entry{
		EntityName: entityName,
		build: func(f *Factory) any {
			return Build[T](f)
		},
	}
}

// RegisteredEntities lists every persisted entity type
func RegisteredEntities() []Entry {
	return []Entry{
		Bind[entity.MainTableEntity]("MainTableEntity"),
		Bind[entity.EventTableEntity]("EventTableEntity"),
	}
}

// RepositoryName derives the published name of an entity's repository,
// e.g. MainTableEntity becomes mainTableRepository.
func RepositoryName(entityName string) string {
	base := strings.TrimSuffix(entityName, "Entity")
	r, size := utf8.DecodeRuneInString(base)
	if r == utf8.RuneError {
		return "repository"
	}
	return string(unicode.ToLower(r)) + base[size:] + "Repository"
}

// Registrar holds the repositories published at startup. It is safe for
// concurrent lookups.
type Registrar struct {
	mu    sync.RWMutex
	repos map[string]any
}

// NewRegistrar creates an empty registrar
func NewRegistrar() *Registrar {
	return &Registrar{repos: make(map[string]any)}
}

// Register publishes repo under name
func (r *Registrar) Register(name string, repo any) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.repos[name]; exists {
		return fmt.Errorf("%w: %s", ErrRegistrationConflict, name)
	}
	r.repos[name] = repo
	return nil
}

// RegisterAll builds and publishes one repository per entry
func (r *Registrar) RegisterAll(f *Factory, entries []Entry) error {
	for _, e := range entries {
		name := RepositoryName(e.EntityName)
		if err := r.Register(name, e.build(f)); err != nil {
			return err
		}
		f.logger.Infof("Registered %s", name)
	}
	return nil
}

// Names returns the registered names in sorted order
func (r *Registrar) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.repos))
	for name := range r.repos {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup returns the repository of T published under name
func Lookup[T dal.TableEntity](r *Registrar, name string) (NoSQLRepository[T], error) {
	r.mu.RLock()
	repo, ok := r.repos[name]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrRepositoryNotFound, name)
	}
	typed, ok := repo.(NoSQLRepository[T])
	if !ok {
		var zero T
		return nil, fmt.Errorf("%w: %s does not serve %T", ErrRepositoryNotFound, name, zero)
	}
	return typed, nil
}
