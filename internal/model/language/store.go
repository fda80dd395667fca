package language

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownLanguage is returned for codes outside the catalog.
var ErrUnknownLanguage = errors.New("unknown language code")

// Store exposes catalog lookups for handlers and the orchestrator.
type Store interface {
	List() []Language
	FindByCode(code string) (Language, bool)
	Resolve(code string) (Language, error)
	Counterpart(code string) (Language, bool)
}

// MemoryStore implements Store with a fixed slice loaded at startup.
type MemoryStore struct {
	items []Language
}

// NewMemoryStore returns a MemoryStore preloaded with the supplied languages.
// Codes must be unique.
func NewMemoryStore(items []Language) (*MemoryStore, error) {
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		if strings.TrimSpace(item.Code) == "" {
			return nil, fmt.Errorf("language %q has an empty code", item.Name)
		}
		key := strings.ToLower(item.Code)
		if _, dup := seen[key]; dup {
			return nil, fmt.Errorf("duplicate language code %q", item.Code)
		}
		seen[key] = struct{}{}
	}
	return &MemoryStore{items: append([]Language(nil), items...)}, nil
}

// List returns the catalog in its configured order.
func (s *MemoryStore) List() []Language {
	return append([]Language(nil), s.items...)
}

// FindByCode looks up a language by code, ignoring case.
func (s *MemoryStore) FindByCode(code string) (Language, bool) {
	code = strings.TrimSpace(code)
	for _, item := range s.items {
		if strings.EqualFold(item.Code, code) {
			return item, true
		}
	}
	return Language{}, false
}

// Resolve is FindByCode with an error suitable for returning to callers.
func (s *MemoryStore) Resolve(code string) (Language, error) {
	lang, ok := s.FindByCode(code)
	if !ok {
		return Language{}, fmt.Errorf("%w: %q", ErrUnknownLanguage, code)
	}
	return lang, nil
}

// Counterpart picks the first catalog language whose code differs from code.
func (s *MemoryStore) Counterpart(code string) (Language, bool) {
	for _, item := range s.items {
		if !strings.EqualFold(item.Code, strings.TrimSpace(code)) {
			return item, true
		}
	}
	return Language{}, false
}
