package contestui

import (
	"context"
	"io"
	"slices"
	"strings"

	"github.com/a-h/templ"
)

// Event is delivered to listeners registered with Node.On.
//
// Events do not bubble: only listeners registered on the dispatching node
// run, in registration order.
type Event struct {
	Type   string
	Target *Node
}

// Listener handles an Event.
type Listener func(Event)

// Event types dispatched by the framework.
const (
	EventClick  = "click"
	EventChange = "change"
	EventInput  = "input"
)

// boolAttrs render without a value when present.
var boolAttrs = map[string]bool{
	"checked":  true,
	"defer":    true,
	"disabled": true,
	"hidden":   true,
	"open":     true,
	"required": true,
	"selected": true,
}

var voidTags = map[string]bool{
	"br":    true,
	"hr":    true,
	"img":   true,
	"input": true,
}

// Node is an element (or text) in a renderable tree.
//
// A Node has at most one parent. Appending a node that already has a parent
// moves it, mirroring how a browser treats appendChild. Node implements
// templ.Component so any subtree can be rendered straight into a response:
//
//	root := contestui.NewNode("div")
//	table.AttachTo(root)
//	contestui.Render(w, r, root)
type Node struct {
	tag       string
	text      string
	attrs     map[string]string
	children  []*Node
	parent    *Node
	listeners map[string][]Listener
}

// NewNode creates an element node with the given tag.
func NewNode(tag string) *Node {
	return &Node{tag: tag}
}

// NewText creates a text node.
func NewText(text string) *Node {
	return &Node{text: text}
}

// Tag returns the element tag, or "" for text nodes.
func (n *Node) Tag() string { return n.tag }

// IsText reports whether n is a text node.
func (n *Node) IsText() bool { return n.tag == "" }

// Root returns n itself, which lets raw nodes act as attach targets.
func (n *Node) Root() *Node { return n }

// SetAttr sets an attribute and returns n for chaining.
func (n *Node) SetAttr(name, value string) *Node {
	if n.attrs == nil {
		n.attrs = make(map[string]string)
	}
	n.attrs[name] = value
	return n
}

// SetClass sets the class attribute.
func (n *Node) SetClass(class string) *Node {
	return n.SetAttr("class", class)
}

// SetBool adds or removes a boolean attribute such as "disabled".
func (n *Node) SetBool(name string, on bool) *Node {
	if on {
		return n.SetAttr(name, "")
	}
	n.RemoveAttr(name)
	return n
}

// Attr returns an attribute value and whether it is present.
func (n *Node) Attr(name string) (string, bool) {
	v, ok := n.attrs[name]
	return v, ok
}

// HasAttr reports whether the attribute is present.
func (n *Node) HasAttr(name string) bool {
	_, ok := n.attrs[name]
	return ok
}

// RemoveAttr deletes an attribute.
func (n *Node) RemoveAttr(name string) {
	delete(n.attrs, name)
}

// ID returns the id attribute.
func (n *Node) ID() string {
	return n.attrs["id"]
}

// Parent returns the node's parent, or nil when detached.
func (n *Node) Parent() *Node { return n.parent }

// Children returns a copy of the child list.
func (n *Node) Children() []*Node {
	return slices.Clone(n.children)
}

// ChildCount returns the number of children.
func (n *Node) ChildCount() int { return len(n.children) }

// LastChild returns the last child or nil.
func (n *Node) LastChild() *Node {
	if len(n.children) == 0 {
		return nil
	}
	return n.children[len(n.children)-1]
}

// AppendChild appends c as the last child of n, first unlinking c from any
// previous parent. It returns c.
func (n *Node) AppendChild(c *Node) *Node {
	if c == nil || c == n {
		return c
	}
	if c.parent != nil {
		c.parent.RemoveChild(c)
	}
	c.parent = n
	n.children = append(n.children, c)
	return c
}

// PrependChild inserts c as the first child of n, first unlinking c from
// any previous parent. It returns c.
func (n *Node) PrependChild(c *Node) *Node {
	if c == nil || c == n {
		return c
	}
	if c.parent != nil {
		c.parent.RemoveChild(c)
	}
	c.parent = n
	n.children = slices.Insert(n.children, 0, c)
	return c
}

// RemoveChild unlinks c from n. It reports false if c is not a child of n.
func (n *Node) RemoveChild(c *Node) bool {
	i := slices.Index(n.children, c)
	if i < 0 {
		return false
	}
	n.children = slices.Delete(n.children, i, i+1)
	c.parent = nil
	return true
}

// Remove unlinks n from its parent. It is a no-op on a detached node.
func (n *Node) Remove() bool {
	if n.parent == nil {
		return false
	}
	return n.parent.RemoveChild(n)
}

// SetText replaces the children of n with a single text node.
func (n *Node) SetText(text string) *Node {
	for _, c := range n.children {
		c.parent = nil
	}
	n.children = nil
	n.AppendChild(NewText(text))
	return n
}

// TextContent concatenates the text of n and all its descendants.
func (n *Node) TextContent() string {
	if n.IsText() {
		return n.text
	}
	var sb strings.Builder
	for _, c := range n.children {
		sb.WriteString(c.TextContent())
	}
	return sb.String()
}

// Find returns the first node in depth-first order (n included) that
// satisfies match.
func (n *Node) Find(match func(*Node) bool) *Node {
	if match(n) {
		return n
	}
	for _, c := range n.children {
		if found := c.Find(match); found != nil {
			return found
		}
	}
	return nil
}

// FindTag returns the first element with the given tag.
func (n *Node) FindTag(tag string) *Node {
	return n.Find(func(x *Node) bool { return x.tag == tag })
}

// FindID returns the element whose id attribute equals id.
func (n *Node) FindID(id string) *Node {
	return n.Find(func(x *Node) bool { return x.attrs["id"] == id })
}

// On registers a listener for an event type.
func (n *Node) On(eventType string, fn Listener) {
	if fn == nil {
		return
	}
	if n.listeners == nil {
		n.listeners = make(map[string][]Listener)
	}
	n.listeners[eventType] = append(n.listeners[eventType], fn)
}

// Dispatch runs the listeners registered for eventType.
func (n *Node) Dispatch(eventType string) {
	evt := Event{Type: eventType, Target: n}
	// Listeners may register further listeners; iterate over a snapshot.
	for _, fn := range slices.Clone(n.listeners[eventType]) {
		fn(evt)
	}
}

// Click simulates a user click. Disabled elements ignore clicks. Clicking a
// checkbox input toggles its checked state and then fires click followed by
// change, the order a browser uses. It reports whether the click happened.
func (n *Node) Click() bool {
	if n.HasAttr("disabled") {
		return false
	}
	if n.isCheckbox() {
		n.SetBool("checked", !n.HasAttr("checked"))
		n.Dispatch(EventClick)
		n.Dispatch(EventChange)
		return true
	}
	n.Dispatch(EventClick)
	return true
}

func (n *Node) isCheckbox() bool {
	return n.tag == "input" && n.attrs["type"] == "checkbox"
}

// Render writes n as HTML. It satisfies templ.Component.
func (n *Node) Render(ctx context.Context, w io.Writer) error {
	var sb strings.Builder
	n.writeHTML(&sb)
	_, err := io.WriteString(w, sb.String())
	return err
}

// HTML renders n to a string.
func (n *Node) HTML() string {
	var sb strings.Builder
	n.writeHTML(&sb)
	return sb.String()
}

func (n *Node) writeHTML(sb *strings.Builder) {
	if n.IsText() {
		sb.WriteString(templ.EscapeString(n.text))
		return
	}
	sb.WriteString("<")
	sb.WriteString(n.tag)

	names := make([]string, 0, len(n.attrs))
	for name := range n.attrs {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		sb.WriteString(" ")
		sb.WriteString(name)
		if boolAttrs[name] {
			continue
		}
		sb.WriteString(`="`)
		sb.WriteString(templ.EscapeString(n.attrs[name]))
		sb.WriteString(`"`)
	}
	sb.WriteString(">")

	if voidTags[n.tag] {
		return
	}
	for _, c := range n.children {
		c.writeHTML(sb)
	}
	sb.WriteString("</")
	sb.WriteString(n.tag)
	sb.WriteString(">")
}

var _ templ.Component = (*Node)(nil)
