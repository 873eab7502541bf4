package dom

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Element is the surface the controller reads and mutates.
type Element interface {
	ID() string
	Value() string
	SetValue(value string)
	Text() string
	SetText(text string)
	AddClass(names ...string)
	RemoveClass(names ...string)
	HasClass(name string) bool
}

// Document wraps a parsed HTML tree.
type Document struct {
	root *html.Node
}

// Parse reads an HTML document.
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("dom: parse: %w", err)
	}
	return &Document{root: root}, nil
}

// ParseString parses an HTML document held in memory.
func ParseString(markup string) (*Document, error) {
	return Parse(strings.NewReader(markup))
}

// GetElementByID returns the first element carrying id, or nil.
func (d *Document) GetElementByID(id string) *Node {
	if d == nil || id == "" {
		return nil
	}
	return find(d.root, func(n *html.Node) bool {
		return n.Type == html.ElementNode && attr(n, "id") == id
	})
}

// LabelFor returns the label element whose for attribute equals id.
func (d *Document) LabelFor(id string) *Node {
	if d == nil || id == "" {
		return nil
	}
	return find(d.root, func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.DataAtom == atom.Label && attr(n, "for") == id
	})
}

// QueryAll returns every element with the supplied tag name in document order.
func (d *Document) QueryAll(tag string) []*Node {
	if d == nil {
		return nil
	}
	var out []*Node
	walk(d.root, func(n *html.Node) bool {
		if n.Type == html.ElementNode && strings.EqualFold(n.Data, tag) {
			out = append(out, &Node{n: n})
		}
		return false
	})
	return out
}

// FindByText returns the last element in document order whose text content
// contains text, which is the innermost one when matches nest.
func (d *Document) FindByText(text string) *Node {
	if d == nil || text == "" {
		return nil
	}
	var match *html.Node
	walk(d.root, func(n *html.Node) bool {
		if n.Type != html.ElementNode {
			return false
		}
		if strings.Contains(textContent(n), text) {
			match = n
		}
		return false
	})
	if match == nil {
		return nil
	}
	return &Node{n: match}
}

// Render writes the document as HTML.
func (d *Document) Render(w io.Writer) error {
	if d == nil {
		return fmt.Errorf("dom: document is nil")
	}
	return html.Render(w, d.root)
}

// String renders the document, returning "" on failure.
func (d *Document) String() string {
	var buf bytes.Buffer
	if err := d.Render(&buf); err != nil {
		return ""
	}
	return buf.String()
}

// Node is an element inside a Document.
type Node struct {
	n *html.Node
}

var _ Element = (*Node)(nil)

// Tag reports the element name.
func (e *Node) Tag() string {
	return e.n.Data
}

// ID reports the id attribute.
func (e *Node) ID() string {
	return attr(e.n, "id")
}

// Attr returns the named attribute.
func (e *Node) Attr(name string) (string, bool) {
	for _, a := range e.n.Attr {
		if a.Namespace == "" && a.Key == name {
			return a.Val, true
		}
	}
	return "", false
}

// SetAttr writes the named attribute, adding it when missing.
func (e *Node) SetAttr(name, value string) {
	for i, a := range e.n.Attr {
		if a.Namespace == "" && a.Key == name {
			e.n.Attr[i].Val = value
			return
		}
	}
	e.n.Attr = append(e.n.Attr, html.Attribute{Key: name, Val: value})
}

// RemoveAttr deletes the named attribute.
func (e *Node) RemoveAttr(name string) {
	kept := e.n.Attr[:0]
	for _, a := range e.n.Attr {
		if a.Namespace == "" && a.Key == name {
			continue
		}
		kept = append(kept, a)
	}
	e.n.Attr = kept
}

// Value reads a control's current value: the text of a textarea, the value
// attribute of anything else.
func (e *Node) Value() string {
	if e.n.DataAtom == atom.Textarea {
		return textContent(e.n)
	}
	value, _ := e.Attr("value")
	return value
}

// SetValue writes a control's current value.
func (e *Node) SetValue(value string) {
	if e.n.DataAtom == atom.Textarea {
		e.SetText(value)
		return
	}
	e.SetAttr("value", value)
}

// Text returns the concatenated text of every descendant.
func (e *Node) Text() string {
	return textContent(e.n)
}

// SetText replaces every child with a single text node. An empty string
// leaves the element without children.
func (e *Node) SetText(text string) {
	for child := e.n.FirstChild; child != nil; {
		next := child.NextSibling
		e.n.RemoveChild(child)
		child = next
	}
	if text == "" {
		return
	}
	e.n.AppendChild(&html.Node{Type: html.TextNode, Data: text})
}

// Classes returns the class list.
func (e *Node) Classes() []string {
	value, _ := e.Attr("class")
	return strings.Fields(value)
}

// HasClass reports whether name is in the class list.
func (e *Node) HasClass(name string) bool {
	for _, class := range e.Classes() {
		if class == name {
			return true
		}
	}
	return false
}

// AddClass appends missing names to the class list.
func (e *Node) AddClass(names ...string) {
	classes := e.Classes()
	changed := false
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" || contains(classes, name) {
			continue
		}
		classes = append(classes, name)
		changed = true
	}
	if changed {
		e.writeClasses(classes)
	}
}

// RemoveClass drops names from the class list.
func (e *Node) RemoveClass(names ...string) {
	classes := e.Classes()
	kept := classes[:0]
	for _, class := range classes {
		if contains(names, class) {
			continue
		}
		kept = append(kept, class)
	}
	e.writeClasses(kept)
}

// NextElementSibling returns the next sibling that is an element, or nil.
func (e *Node) NextElementSibling() *Node {
	for sib := e.n.NextSibling; sib != nil; sib = sib.NextSibling {
		if sib.Type == html.ElementNode {
			return &Node{n: sib}
		}
	}
	return nil
}

// Visible reports whether neither the element nor an ancestor is hidden via
// the hidden attribute or a "hidden" class.
func (e *Node) Visible() bool {
	for n := e.n; n != nil; n = n.Parent {
		if n.Type != html.ElementNode {
			continue
		}
		node := &Node{n: n}
		if _, hidden := node.Attr("hidden"); hidden {
			return false
		}
		if node.HasClass("hidden") {
			return false
		}
	}
	return true
}

func (e *Node) writeClasses(classes []string) {
	if len(classes) == 0 {
		e.RemoveAttr("class")
		return
	}
	e.SetAttr("class", strings.Join(classes, " "))
}

func contains(list []string, value string) bool {
	for _, item := range list {
		if item == value {
			return true
		}
	}
	return false
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val
		}
	}
	return ""
}

func textContent(n *html.Node) string {
	var b strings.Builder
	var collect func(*html.Node)
	collect = func(node *html.Node) {
		if node.Type == html.TextNode {
			b.WriteString(node.Data)
			return
		}
		for child := node.FirstChild; child != nil; child = child.NextSibling {
			collect(child)
		}
	}
	collect(n)
	return b.String()
}

func find(root *html.Node, match func(*html.Node) bool) *Node {
	var found *html.Node
	walk(root, func(n *html.Node) bool {
		if match(n) {
			found = n
			return true
		}
		return false
	})
	if found == nil {
		return nil
	}
	return &Node{n: found}
}

// walk visits nodes depth-first in document order until visit returns true.
func walk(n *html.Node, visit func(*html.Node) bool) bool {
	if visit(n) {
		return true
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if walk(child, visit) {
			return true
		}
	}
	return false
}
