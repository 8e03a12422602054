package pages

import (
	"fmt"

	"github.com/kascribe/contestui"
)

// Khan Academy URLs entries and users link to.
const (
	programURL = "https://www.khanacademy.org/computer-programming/i/%d"
	thumbURL   = "https://www.khanacademy.org/computer-programming/i/%d/latest.png"
	profileURL = "https://www.khanacademy.org/profile/%s"
)

const (
	mdlCSS    = "https://code.getmdl.io/1.3.0/material.indigo-pink.min.css"
	mdlScript = "https://code.getmdl.io/1.3.0/material.min.js"
	iconsCSS  = "https://fonts.googleapis.com/icon?family=Material+Icons"
)

// Layout wraps content in the admin page chrome. The Users link is shown
// only to admins.
func Layout(title string, viewer contestui.User, content ...contestui.Target) *contestui.Node {
	html := contestui.NewNode("html").SetAttr("lang", "en")

	head := html.AppendChild(contestui.NewNode("head"))
	head.AppendChild(contestui.NewNode("meta").SetAttr("charset", "utf-8"))
	head.AppendChild(contestui.NewNode("title")).SetText(title + " | Contest admin")
	for _, href := range []string{iconsCSS, mdlCSS} {
		head.AppendChild(contestui.NewNode("link").SetAttr("rel", "stylesheet").SetAttr("href", href))
	}
	head.AppendChild(contestui.NewNode("script").SetBool("defer", true).SetAttr("src", mdlScript))

	body := html.AppendChild(contestui.NewNode("body"))
	shell := body.AppendChild(contestui.NewNode("div").SetClass("mdl-layout mdl-js-layout mdl-layout--fixed-header"))

	header := shell.AppendChild(contestui.NewNode("header").SetClass("mdl-layout__header"))
	row := header.AppendChild(contestui.NewNode("div").SetClass("mdl-layout__header-row"))
	row.AppendChild(contestui.NewNode("span").SetClass("mdl-layout-title")).SetText(title)
	row.AppendChild(contestui.NewNode("div").SetClass("mdl-layout-spacer"))
	nav := row.AppendChild(contestui.NewNode("nav").SetClass("mdl-navigation"))
	navLink(nav, "/contests", "Contests")
	if viewer.AtLeast(contestui.LevelAdmin) {
		navLink(nav, "/users", "Users")
	}

	main := shell.AppendChild(contestui.NewNode("main").SetClass("mdl-layout__content"))
	for _, c := range content {
		if comp, ok := c.(contestui.Component); ok {
			comp.AttachTo(main)
		} else {
			main.AppendChild(c.Root())
		}
	}
	return html
}

func navLink(nav *contestui.Node, href, label string) {
	nav.AppendChild(contestui.NewNode("a").
		SetClass("mdl-navigation__link").
		SetAttr("href", href)).
		SetText(label)
}

// errorContent is shown in place of a page whose data could not be loaded.
func errorContent(area *contestui.Node, message string) {
	area.AppendChild(contestui.NewNode("h2")).SetText("OOPS!")
	area.AppendChild(contestui.NewNode("p")).SetText(message)
}

func icon(name string) *contestui.Node {
	n := contestui.NewNode("i").SetClass("material-icons").SetAttr("style", "cursor: pointer")
	n.SetText(name)
	return n
}

func link(href, text string) *contestui.Node {
	a := contestui.NewNode("a").SetAttr("href", href).SetAttr("target", "_blank")
	a.SetText(text)
	return a
}

// markNextPage records on the load-more button which page count the next
// request should ask for, so a plain link can continue where the server
// left off.
func markNextPage(btn *contestui.Button, state contestui.LoadState, loaded int) {
	if state != contestui.LoadEnabled {
		return
	}
	btn.Root().SetAttr("data-href", fmt.Sprintf("?pages=%d", loaded+1))
}
