package contestui

// DialogButton describes one action in a Dialog.
type DialogButton struct {
	Label   string
	Color   string
	OnClick Listener
}

// Dialog is a modal dialog with a title, a body and a row of action buttons.
type Dialog struct {
	*Base
}

// NewDialog builds a closed dialog. body may be a string or a *Node;
// any other value renders as an empty paragraph.
func NewDialog(a *Arena, title string, body any, buttons []DialogButton) *Dialog {
	root := NewNode("dialog").SetClass("mdl-dialog delete-dia mdl-shadow--16dp")
	root.AppendChild(NewNode("h3").SetClass("mdl-dialog__title")).SetText(title)

	content := root.AppendChild(NewNode("div").SetClass("mdl-dialog__content"))
	switch b := body.(type) {
	case *Node:
		content.AppendChild(b)
	case string:
		content.AppendChild(NewNode("p")).SetText(b)
	default:
		content.AppendChild(NewNode("p"))
	}

	actions := root.AppendChild(NewNode("div").SetClass("mdl-dialog__actions"))
	for _, b := range buttons {
		label, color := b.Label, b.Color
		if label == "" {
			label = "Text"
		}
		if color == "" {
			color = "#000000"
		}
		btn := actions.AppendChild(NewNode("button").
			SetAttr("type", "button").
			SetClass("mdl-button").
			SetAttr("style", "color: "+color))
		btn.SetText(label)
		btn.On(EventClick, b.OnClick)
	}

	d := &Dialog{}
	d.Base = arenaOr(a).Mount(d, root)
	return d
}

// ShowModal opens the dialog.
func (d *Dialog) ShowModal() { d.root.SetBool("open", true) }

// Close hides the dialog.
func (d *Dialog) Close() { d.root.SetBool("open", false) }

// IsOpen reports whether the dialog is showing.
func (d *Dialog) IsOpen() bool { return d.root.HasAttr("open") }

// Button returns the i-th action button node, or nil.
func (d *Dialog) Button(i int) *Node {
	actions := d.root.Find(func(n *Node) bool { return n.attrs["class"] == "mdl-dialog__actions" })
	if actions == nil || i < 0 || i >= len(actions.children) {
		return nil
	}
	return actions.children[i]
}
