package gcal

import (
	"errors"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// MarkerAttr is set on every inserted anchor so reruns can detect earlier output
const MarkerAttr = "data-gcal-link"

var (
	ErrNoTarget      = errors.New("insertion target not found")
	ErrNoParent      = errors.New("insertion target has no parent")
	ErrAlreadyLinked = errors.New("calendar link already present")
)

const (
	buttonColor = "#4285F4"
	hoverColor  = "#357ae8"
)

// buttonStyle is applied inline so the button looks the same on any theme
var buttonStyle = []string{
	"display: block",
	"margin-top: 10px",
	"padding: 8px 15px",
	"background-color: " + buttonColor,
	"color: #ffffff",
	"text-decoration: none",
	"border-radius: 5px",
	"font-size: 0.9em",
	"text-align: center",
	"font-weight: bold",
	"transition: background-color 0.3s ease, transform 0.1s ease",
	"box-shadow: 0 2px 4px rgba(0,0,0,0.2)",
	"max-width: 250px",
	"margin-right: auto",
	"margin-left: auto",
}

// NewAnchor renders the "Add to Google Calendar" button for href
func NewAnchor(href, text string) *html.Node {
	a := &html.Node{
		Type:     html.ElementNode,
		Data:     "a",
		DataAtom: atom.A,
		Attr: []html.Attribute{
			{Key: "href", Val: href},
			{Key: "target", Val: "_blank"},
			{Key: "rel", Val: "noopener"},
			{Key: MarkerAttr, Val: "1"},
			{Key: "style", Val: strings.Join(buttonStyle, "; ") + ";"},
			{Key: "onmouseover", Val: "this.style.backgroundColor='" + hoverColor + "';this.style.transform='translateY(-1px)';"},
			{Key: "onmouseout", Val: "this.style.backgroundColor='" + buttonColor + "';this.style.transform='translateY(0)';"},
		},
	}
	a.AppendChild(&html.Node{Type: html.TextNode, Data: text})
	return a
}

// InsertAfter inserts anchor as the immediate next sibling of the first node in target.
// A target without a parent is left untouched and ErrNoParent is returned. With
// skipExisting, a target already followed by a calendar link returns ErrAlreadyLinked.
func InsertAfter(target *goquery.Selection, anchor *html.Node, skipExisting bool) error {
	if target == nil || target.Length() == 0 {
		return ErrNoTarget
	}
	target = target.First()
	if target.Get(0).Parent == nil {
		return ErrNoParent
	}
	if skipExisting && HasLink(target) {
		return ErrAlreadyLinked
	}

	target.AfterNodes(anchor)
	return nil
}

// HasLink reports whether the element after target is a previously inserted calendar link
func HasLink(target *goquery.Selection) bool {
	_, ok := target.First().Next().Attr(MarkerAttr)
	return ok
}
