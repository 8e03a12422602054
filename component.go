package contestui

// Target is anything a component can be attached to: another component or
// a raw *Node.
type Target interface {
	Root() *Node
}

// Component is a renderable unit that owns exactly one root node.
//
// Concrete components embed *Base, which supplies identity and the default
// attach/detach behaviour. A component overrides AttachTo when it needs to
// do more than append its root, as interactive widgets do to run the
// arena's upgrade hook:
//
//	type Button struct {
//	    *contestui.Base
//	}
//
//	func (b *Button) AttachTo(t contestui.Target) {
//	    b.Base.AttachTo(t)
//	    b.Arena().Upgrade(b.Root())
//	}
type Component interface {
	Target
	Handle() Handle
	AttachTo(target Target)
	Detach()
}

// Base carries the identity and root node of a mounted component.
// Obtain one from Arena.Mount.
type Base struct {
	arena  *Arena
	handle Handle
	root   *Node
}

// Handle returns the component's identity.
func (b *Base) Handle() Handle { return b.handle }

// ID returns the handle as a string; it equals the root's id attribute.
func (b *Base) ID() string { return string(b.handle) }

// Root returns the component's root node.
func (b *Base) Root() *Node { return b.root }

// Arena returns the arena the component is mounted in.
func (b *Base) Arena() *Arena { return b.arena }

// AttachTo appends the root node as the last child of target's root.
// Attaching an already attached component moves it.
func (b *Base) AttachTo(target Target) {
	target.Root().AppendChild(b.root)
}

// Detach removes the root node from its parent. Calling it on a detached
// component does nothing.
func (b *Base) Detach() {
	b.root.Remove()
}

// Attached reports whether the root node currently has a parent.
func (b *Base) Attached() bool {
	return b.root.Parent() != nil
}

// Destroy detaches the component and releases its handle.
func (b *Base) Destroy() error {
	return b.arena.Destroy(b.handle)
}
