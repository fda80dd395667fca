package language

import (
	"errors"
	"testing"
)

func TestSeedCodesAreUnique(t *testing.T) {
	if _, err := NewMemoryStore(Seed()); err != nil {
		t.Fatalf("NewMemoryStore(Seed()) err: %v", err)
	}
}

func TestNewMemoryStoreRejectsDuplicates(t *testing.T) {
	_, err := NewMemoryStore([]Language{{Code: "en", Name: "English"}, {Code: "EN", Name: "Also English"}})
	if err == nil {
		t.Fatal("expected duplicate code error")
	}
}

func TestResolve(t *testing.T) {
	store, _ := NewMemoryStore(Seed())

	lang, err := store.Resolve("zh-cn")
	if err != nil {
		t.Fatalf("Resolve err: %v", err)
	}
	if lang.Code != "zh-CN" {
		t.Fatalf("unexpected code: %s", lang.Code)
	}

	if _, err := store.Resolve("xx"); !errors.Is(err, ErrUnknownLanguage) {
		t.Fatalf("expected ErrUnknownLanguage, got %v", err)
	}
}

func TestCounterpart(t *testing.T) {
	store, _ := NewMemoryStore(Seed())

	other, ok := store.Counterpart("en")
	if !ok || other.Code != "es" {
		t.Fatalf("expected es as counterpart of en, got %+v", other)
	}

	other, ok = store.Counterpart("fr")
	if !ok || other.Code != "en" {
		t.Fatalf("expected en as counterpart of fr, got %+v", other)
	}

	single, _ := NewMemoryStore([]Language{{Code: "en", Name: "English"}})
	if _, ok := single.Counterpart("en"); ok {
		t.Fatal("expected no counterpart in a one-language catalog")
	}
}

func TestListReturnsCopy(t *testing.T) {
	store, _ := NewMemoryStore(Seed())
	items := store.List()
	items[0].Code = "mutated"

	if _, ok := store.FindByCode("en"); !ok {
		t.Fatal("catalog mutated through List result")
	}
}
