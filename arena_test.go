package contestui

import (
	"errors"
	"regexp"
	"testing"
)

var handlePattern = regexp.MustCompile(`^component-[a-zA-Z0-9]{75}$`)

func TestRandomKeyFormat(t *testing.T) {
	for range 20 {
		if k := randomKey(); !handlePattern.MatchString(k) {
			t.Fatalf("randomKey() = %q, does not match %s", k, handlePattern)
		}
	}
}

func TestMountStampsID(t *testing.T) {
	a := NewArena()
	e := Wrap(a, NewNode("div").SetAttr("id", "old"))

	if e.Root().ID() != e.ID() {
		t.Errorf("root id = %q, want %q", e.Root().ID(), e.ID())
	}
	if !handlePattern.MatchString(e.ID()) {
		t.Errorf("handle %q has unexpected format", e.ID())
	}
	got, ok := a.Lookup(e.Handle())
	if !ok || got != Component(e) {
		t.Errorf("Lookup() = %v, %v; want the element", got, ok)
	}
}

func TestMountRetriesOnCollision(t *testing.T) {
	keys := []string{"component-a", "component-a", "component-a", "component-b"}
	calls := 0
	a := NewArena(WithKeyGenerator(func() string {
		k := keys[calls]
		calls++
		return k
	}))

	first := Wrap(a, NewNode("div"))
	second := Wrap(a, NewNode("div"))

	if first.ID() != "component-a" {
		t.Errorf("first = %q, want component-a", first.ID())
	}
	if second.ID() != "component-b" {
		t.Errorf("second = %q, want component-b", second.ID())
	}
	if calls != 4 {
		t.Errorf("generator called %d times, want 4", calls)
	}
}

func TestHandlesUnique(t *testing.T) {
	a := NewArena()
	seen := make(map[Handle]bool)
	for range 500 {
		h := Wrap(a, NewNode("span")).Handle()
		if seen[h] {
			t.Fatalf("duplicate handle %s", h)
		}
		seen[h] = true
	}
	if a.Len() != 500 {
		t.Errorf("Len() = %d, want 500", a.Len())
	}
}

func TestDestroy(t *testing.T) {
	a := NewArena()
	parent := NewNode("div")
	e := Wrap(a, NewNode("p"))
	e.AttachTo(parent)

	if err := e.Destroy(); err != nil {
		t.Fatalf("Destroy failed: %v", err)
	}
	if e.Attached() {
		t.Error("destroyed component still attached")
	}
	if _, ok := a.Lookup(e.Handle()); ok {
		t.Error("destroyed component still registered")
	}
	if err := a.Destroy(e.Handle()); !errors.Is(err, ErrUnknownHandle) {
		t.Errorf("second Destroy() = %v, want ErrUnknownHandle", err)
	}
}

func TestNilArenaUsesDefault(t *testing.T) {
	prev := DefaultArena()
	a := NewArena()
	SetDefault(a)
	defer SetDefault(prev)

	b := NewButton(nil, "ok")
	if b.Arena() != a {
		t.Error("nil arena did not resolve to the default")
	}
	if _, ok := a.Lookup(b.Handle()); !ok {
		t.Error("button not registered in the default arena")
	}
}
