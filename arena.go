package contestui

import (
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"
)

const (
	keyPrefix   = "component-"
	keyLength   = 75
	keyAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ1234567890"
)

// Handle is the opaque identity of a mounted component. It doubles as the
// id attribute of the component's root node.
type Handle string

// UpgradeHook is run on an interactive widget's root after it is attached,
// giving a client-side widget library a chance to enhance the element.
type UpgradeHook func(*Node)

// Arena owns the identities of live components.
//
// Every component is mounted into exactly one Arena, which hands out a
// unique Handle and keeps the component reachable through Lookup until it
// is destroyed. Detaching a component only removes it from the tree; call
// Destroy to release the handle as well.
type Arena struct {
	mu      sync.RWMutex
	items   map[Handle]Component
	newKey  func() string
	upgrade UpgradeHook
	logger  *slog.Logger
}

// Option configures an Arena.
type Option func(*Arena)

// WithKeyGenerator replaces the random key source. Generated keys are still
// checked for collisions against the live set.
func WithKeyGenerator(fn func() string) Option {
	return func(a *Arena) {
		a.newKey = fn
	}
}

// WithUpgradeHook sets the hook run after interactive widgets are attached.
func WithUpgradeHook(fn UpgradeHook) Option {
	return func(a *Arena) {
		a.upgrade = fn
	}
}

// WithLogger sets the logger used by components mounted in the arena.
func WithLogger(l *slog.Logger) Option {
	return func(a *Arena) {
		a.logger = l
	}
}

// NewArena creates an empty arena.
func NewArena(opts ...Option) *Arena {
	a := &Arena{
		items:  make(map[Handle]Component),
		newKey: randomKey,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

var (
	defaultMu    sync.RWMutex
	defaultArena = NewArena()
)

// SetDefault replaces the arena used by constructors given a nil arena.
func SetDefault(a *Arena) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultArena = a
}

// DefaultArena returns the process-wide arena.
func DefaultArena() *Arena {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultArena
}

func arenaOr(a *Arena) *Arena {
	if a != nil {
		return a
	}
	return DefaultArena()
}

// Mount registers owner under a fresh handle, stamps the handle onto root as
// its id, and returns the Base the owner should embed.
//
//	b := &Button{}
//	b.Base = arena.Mount(b, buildButton(label))
func (a *Arena) Mount(owner Component, root *Node) *Base {
	a.mu.Lock()
	defer a.mu.Unlock()

	key := Handle(a.newKey())
	for {
		if _, taken := a.items[key]; !taken {
			break
		}
		key = Handle(a.newKey())
	}
	a.items[key] = owner
	root.SetAttr("id", string(key))

	return &Base{arena: a, handle: key, root: root}
}

// Lookup returns the live component registered under h.
func (a *Arena) Lookup(h Handle) (Component, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	c, ok := a.items[h]
	return c, ok
}

// Len returns the number of live components.
func (a *Arena) Len() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.items)
}

// Destroy detaches the component registered under h and releases its handle.
func (a *Arena) Destroy(h Handle) error {
	a.mu.Lock()
	c, ok := a.items[h]
	delete(a.items, h)
	a.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownHandle, h)
	}
	c.Detach()
	return nil
}

// Logger returns the arena's logger, falling back to slog.Default.
func (a *Arena) Logger() *slog.Logger {
	if a.logger != nil {
		return a.logger
	}
	return slog.Default()
}

// Upgrade runs the upgrade hook on n, if one is configured.
func (a *Arena) Upgrade(n *Node) {
	if a.upgrade != nil {
		a.upgrade(n)
	}
}

func randomKey() string {
	b := make([]byte, keyLength)
	for i := range b {
		b[i] = keyAlphabet[rand.IntN(len(keyAlphabet))]
	}
	return keyPrefix + string(b)
}
