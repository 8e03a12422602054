package contestui

import "strconv"

// Flash levels for toast notifications.
const (
	FlashSuccess = "success"
	FlashError   = "error"
	FlashWarning = "warning"
	FlashInfo    = "info"
)

// FlashDismissAfter is the delay, in milliseconds, after which the page
// script removes a toast.
const FlashDismissAfter = 3000

// ToastContainerID is the id of the node toasts are appended to.
const ToastContainerID = "toasts"

// Flash is a one-time notification, for example "Entry removed".
type Flash struct {
	Level   string // success, error, warning, info
	Message string
}

// Node builds the toast element for f.
func (f Flash) Node() *Node {
	n := NewNode("div").
		SetClass("toast toast-"+f.Level).
		SetAttr("data-auto-dismiss", strconv.Itoa(FlashDismissAfter))
	n.SetText(f.Message)
	return n
}

// ToastContainer returns the container toasts are shown in, pre-filled with
// flashes. Pages place it near the end of the body.
func ToastContainer(flashes ...Flash) *Node {
	c := NewNode("div").SetAttr("id", ToastContainerID).SetClass("toast-container")
	for _, f := range flashes {
		c.AppendChild(f.Node())
	}
	return c
}

// PushFlash appends a toast to container. Pages call it after an action
// such as an optimistic row removal.
func PushFlash(container *Node, level, message string) *Node {
	return container.AppendChild(Flash{Level: level, Message: message}.Node())
}
