package contestui

import (
	"errors"
	"strconv"
)

// widget is embedded by interactive widgets so that attaching one also runs
// the arena's upgrade hook.
type widget struct {
	*Base
}

func mountWidget(a *Arena, owner Component, root *Node) widget {
	return widget{arenaOr(a).Mount(owner, root)}
}

// AttachTo appends the widget and then upgrades it.
func (w widget) AttachTo(target Target) {
	w.Base.AttachTo(target)
	w.arena.Upgrade(w.root)
}

// Element wraps an externally built node as a component.
type Element struct {
	*Base
}

// Wrap mounts n as the root of a new Element. The node's id attribute is
// overwritten with the element's handle.
func Wrap(a *Arena, n *Node) *Element {
	e := &Element{}
	e.Base = arenaOr(a).Mount(e, n)
	return e
}

// Button is a raised accent button.
type Button struct {
	widget
}

// NewButton creates a button with the given label.
func NewButton(a *Arena, label string) *Button {
	root := NewNode("button").
		SetAttr("type", "button").
		SetClass("mdl-button mdl-js-button mdl-button--raised mdl-js-ripple-effect mdl-button--accent")
	root.SetText(label)

	b := &Button{}
	b.widget = mountWidget(a, b, root)
	return b
}

// Label returns the button text.
func (b *Button) Label() string { return b.root.TextContent() }

// OnClick registers a click listener.
func (b *Button) OnClick(fn Listener) { b.root.On(EventClick, fn) }

// Click simulates a user click; it does nothing while the button is disabled.
func (b *Button) Click() bool { return b.root.Click() }

// Enable makes the button clickable.
func (b *Button) Enable() { b.root.SetBool("disabled", false) }

// Disable makes the button ignore clicks.
func (b *Button) Disable() { b.root.SetBool("disabled", true) }

// Enabled reports whether the button accepts clicks.
func (b *Button) Enabled() bool { return !b.root.HasAttr("disabled") }

// Slider is a range input.
type Slider struct {
	widget
}

// NewSlider creates a slider over [min, max] starting at value.
func NewSlider(a *Arena, min, max, value int) *Slider {
	root := NewNode("input").
		SetClass("mdl-slider mdl-js-slider").
		SetAttr("type", "range").
		SetAttr("min", strconv.Itoa(min)).
		SetAttr("max", strconv.Itoa(max)).
		SetAttr("value", strconv.Itoa(value)).
		SetAttr("tabindex", "0")

	s := &Slider{}
	s.widget = mountWidget(a, s, root)
	return s
}

// Value returns the current position.
func (s *Slider) Value() int {
	v, _ := strconv.Atoi(s.root.attrs["value"])
	return v
}

// SetValue moves the slider without firing input listeners.
func (s *Slider) SetValue(v int) {
	s.root.SetAttr("value", strconv.Itoa(v))
}

// Input simulates the user dragging the slider to v.
func (s *Slider) Input(v int) {
	if s.root.HasAttr("disabled") {
		return
	}
	s.SetValue(v)
	s.root.Dispatch(EventInput)
}

// OnInput registers a listener for user input.
func (s *Slider) OnInput(fn Listener) { s.root.On(EventInput, fn) }

// Enable allows input.
func (s *Slider) Enable() { s.root.SetBool("disabled", false) }

// Disable blocks input.
func (s *Slider) Disable() { s.root.SetBool("disabled", true) }

// TextFieldOptions configures NewTextField.
type TextFieldOptions struct {
	Required  bool
	Pattern   string
	ErrorText string
}

// TextField is a labelled single-line input or, from NewTextArea, a
// multi-line one.
type TextField struct {
	widget
	input *Element
}

// NewTextField creates a labelled text input.
func NewTextField(a *Arena, label string, opts TextFieldOptions) *TextField {
	a = arenaOr(a)
	input := Wrap(a, NewNode("input").
		SetAttr("type", "text").
		SetClass("mdl-textfield__input"))
	if opts.Pattern != "" {
		input.root.SetAttr("pattern", opts.Pattern)
	}
	input.root.SetBool("required", opts.Required)

	root := textFieldShell(input, label)
	if opts.ErrorText != "" {
		root.AppendChild(NewNode("span").SetClass("mdl-textfield__error")).SetText(opts.ErrorText)
	}

	t := &TextField{input: input}
	t.widget = mountWidget(a, t, root)
	return t
}

// NewTextArea creates a labelled multi-line input with the given row count.
func NewTextArea(a *Arena, label string, rows int, required bool) *TextField {
	a = arenaOr(a)
	input := Wrap(a, NewNode("textarea").
		SetAttr("type", "text").
		SetAttr("rows", strconv.Itoa(rows)).
		SetClass("mdl-textfield__input"))
	input.root.SetBool("required", required)

	t := &TextField{input: input}
	t.widget = mountWidget(a, t, textFieldShell(input, label))
	return t
}

func textFieldShell(input *Element, label string) *Node {
	root := NewNode("span").SetClass("mdl-textfield mdl-js-textfield")
	input.AttachTo(root)
	root.AppendChild(NewNode("label").
		SetClass("mdl-textfield__label").
		SetAttr("for", input.ID())).
		SetText(label)
	return root
}

// Value returns the current text.
func (t *TextField) Value() string {
	if t.input.root.tag == "textarea" {
		return t.input.root.TextContent()
	}
	return t.input.root.attrs["value"]
}

// SetValue replaces the text without firing input listeners.
func (t *TextField) SetValue(v string) {
	if t.input.root.tag == "textarea" {
		t.input.root.SetText(v)
		return
	}
	t.input.root.SetAttr("value", v)
}

// Input simulates the user typing v.
func (t *TextField) Input(v string) {
	if t.input.root.HasAttr("disabled") {
		return
	}
	t.SetValue(v)
	t.input.root.Dispatch(EventInput)
}

// OnInput registers a listener for user input.
func (t *TextField) OnInput(fn Listener) { t.input.root.On(EventInput, fn) }

// Enable allows input.
func (t *TextField) Enable() { t.input.root.SetBool("disabled", false) }

// Disable blocks input.
func (t *TextField) Disable() { t.input.root.SetBool("disabled", true) }

// Checkbox is a labelled checkbox input.
type Checkbox struct {
	widget
	input *Element
}

// NewCheckbox creates an unchecked checkbox.
func NewCheckbox(a *Arena) *Checkbox {
	a = arenaOr(a)
	input := Wrap(a, NewNode("input").
		SetAttr("type", "checkbox").
		SetClass("mdl-checkbox__input"))

	root := NewNode("label").
		SetClass("mdl-checkbox mdl-js-checkbox mdl-js-ripple-effect mdl-data-table__select").
		SetAttr("for", input.ID())
	input.AttachTo(root)

	c := &Checkbox{input: input}
	c.widget = mountWidget(a, c, root)
	return c
}

// Checked reports the checked state.
func (c *Checkbox) Checked() bool { return c.input.root.HasAttr("checked") }

// SetChecked sets the state silently; no listeners fire.
func (c *Checkbox) SetChecked(v bool) { c.input.root.SetBool("checked", v) }

// Click simulates a user click: the state toggles and change listeners
// fire. Disabled checkboxes ignore clicks.
func (c *Checkbox) Click() bool { return c.input.root.Click() }

// OnChange registers a listener that receives the new checked state.
func (c *Checkbox) OnChange(fn func(checked bool)) {
	c.input.root.On(EventChange, func(Event) {
		fn(c.Checked())
	})
}

// Destroy releases the checkbox and its input.
func (c *Checkbox) Destroy() error {
	return errors.Join(c.input.Destroy(), c.Base.Destroy())
}

// Enable allows clicks.
func (c *Checkbox) Enable() { c.input.root.SetBool("disabled", false) }

// Disable blocks clicks.
func (c *Checkbox) Disable() { c.input.root.SetBool("disabled", true) }
