// Package xmltree provides a mutable XML element tree for reading, rewriting,
// and writing SVG documents. Namespaces are preserved: element and attribute
// names carry namespace URIs, and prefixes are re-synthesized on write.
package xmltree

import (
	"encoding/xml"
	"strconv"
	"strings"
)

// Well-known namespace URIs.
const (
	SVGNamespace   = "http://www.w3.org/2000/svg"
	XLinkNamespace = "http://www.w3.org/1999/xlink"
)

// Element is a node in the document tree. Name.Space and Attrs[i].Name.Space
// are namespace URIs, never prefixes. Text is the character data before the
// first child; Tail is the character data between this element's closing tag
// and the next sibling (ElementTree convention, so mixed content survives
// node replacement).
type Element struct {
	Name     xml.Name
	Attrs    []xml.Attr
	Children []*Element
	Text     string
	Tail     string
}

// Attr returns the value of the attribute with the given namespace URI and
// local name, and whether it is present. Pass an empty space for
// unprefixed attributes.
func (e *Element) Attr(space, local string) (string, bool) {
	for _, a := range e.Attrs {
		if a.Name.Space == space && a.Name.Local == local {
			return a.Value, true
		}
	}
	return "", false
}

// AttrValue is like Attr but returns the empty string for a missing attribute.
func (e *Element) AttrValue(space, local string) string {
	v, _ := e.Attr(space, local)
	return v
}

// SetAttr sets an attribute, replacing an existing one with the same
// qualified name or appending a new one.
func (e *Element) SetAttr(space, local, value string) {
	for i, a := range e.Attrs {
		if a.Name.Space == space && a.Name.Local == local {
			e.Attrs[i].Value = value
			return
		}
	}
	e.Attrs = append(e.Attrs, xml.Attr{Name: xml.Name{Space: space, Local: local}, Value: value})
}

// RemoveAttr removes an attribute by qualified name. It reports whether the
// attribute was present.
func (e *Element) RemoveAttr(space, local string) bool {
	for i, a := range e.Attrs {
		if a.Name.Space == space && a.Name.Local == local {
			e.Attrs = append(e.Attrs[:i], e.Attrs[i+1:]...)
			return true
		}
	}
	return false
}

// ChildIndex returns the position of child among e's children, or -1.
func (e *Element) ChildIndex(child *Element) int {
	for i, c := range e.Children {
		if c == child {
			return i
		}
	}
	return -1
}

// InsertChild inserts el at index i among e's children. An index at or past
// the end appends.
func (e *Element) InsertChild(i int, el *Element) {
	if i < 0 {
		i = 0
	}
	if i >= len(e.Children) {
		e.Children = append(e.Children, el)
		return
	}
	e.Children = append(e.Children, nil)
	copy(e.Children[i+1:], e.Children[i:])
	e.Children[i] = el
}

// RemoveChild removes child from e's children, preserving sibling order.
// It reports whether the child was found.
func (e *Element) RemoveChild(child *Element) bool {
	i := e.ChildIndex(child)
	if i < 0 {
		return false
	}
	e.Children = append(e.Children[:i], e.Children[i+1:]...)
	return true
}

// ReplaceChild swaps old for repl at the same sibling position, carrying
// old's tail text so surrounding formatting survives. It reports whether
// old was found.
func (e *Element) ReplaceChild(old, repl *Element) bool {
	i := e.ChildIndex(old)
	if i < 0 {
		return false
	}
	repl.Tail = old.Tail
	e.Children[i] = repl
	return true
}

// AppendChild appends el to e's children.
func (e *Element) AppendChild(el *Element) {
	e.Children = append(e.Children, el)
}

// Walk visits root and every descendant in document order (depth-first,
// parents before children). The parent argument is nil for root.
func Walk(root *Element, fn func(el, parent *Element)) {
	walk(root, nil, fn)
}

func walk(el, parent *Element, fn func(el, parent *Element)) {
	fn(el, parent)
	for _, c := range el.Children {
		walk(c, el, fn)
	}
}

// Document is a parsed XML document: the root element plus write support.
type Document struct {
	Root *Element
}

// Walk visits every element of the document in document order.
func (d *Document) Walk(fn func(el, parent *Element)) {
	if d.Root != nil {
		Walk(d.Root, fn)
	}
}

// IntrinsicSize reports the document's own width and height in user units,
// taken from the root element's width/height attributes or, failing that,
// from the third and fourth viewBox values. ok is false when neither source
// yields positive dimensions; absence is reported, never guessed.
func (d *Document) IntrinsicSize() (width, height float64, ok bool) {
	if d.Root == nil {
		return 0, 0, false
	}
	w, wok := parseLength(d.Root.AttrValue("", "width"))
	h, hok := parseLength(d.Root.AttrValue("", "height"))
	if wok && hok {
		return w, h, true
	}
	fields := splitListValues(d.Root.AttrValue("", "viewBox"))
	if len(fields) == 4 {
		w, wok = parseLength(fields[2])
		h, hok = parseLength(fields[3])
		if wok && hok {
			return w, h, true
		}
	}
	return 0, 0, false
}

// parseLength parses an SVG length, tolerating a px or pt unit suffix.
// Percentages and other units fail the parse so callers fall back to viewBox.
func parseLength(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "px")
	s = strings.TrimSuffix(s, "pt")
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v <= 0 {
		return 0, false
	}
	return v, true
}

// splitListValues splits an SVG list attribute on whitespace and commas.
func splitListValues(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == ','
	})
}
