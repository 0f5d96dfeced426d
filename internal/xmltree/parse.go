package xmltree

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/net/html/charset"
)

// Sentinel errors for parsing.
var (
	ErrNoRootElement = errors.New("xmltree: document has no root element")
	ErrMultipleRoots = errors.New("xmltree: document has multiple root elements")
)

// Parse reads an XML document from r into an element tree. The decoder is
// non-strict and charset-aware, matching how the rest of the SVG ecosystem
// reads files in the wild. Comments, processing instructions, and directives
// are dropped.
func Parse(r io.Reader) (*Document, error) {
	dec := xml.NewDecoder(r)
	dec.Strict = false
	dec.CharsetReader = charset.NewReaderLabel

	var root *Element
	var stack []*Element

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("xmltree: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			el := &Element{Name: t.Name}
			for _, a := range t.Attr {
				if isNamespaceDecl(a.Name) {
					// Declarations are re-synthesized on write.
					continue
				}
				el.Attrs = append(el.Attrs, a)
			}
			if len(stack) == 0 {
				if root != nil {
					return nil, ErrMultipleRoots
				}
				root = el
			} else {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, el)
			}
			stack = append(stack, el)

		case xml.EndElement:
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}

		case xml.CharData:
			if len(stack) == 0 {
				continue
			}
			cur := stack[len(stack)-1]
			if len(cur.Children) == 0 {
				cur.Text += string(t)
			} else {
				last := cur.Children[len(cur.Children)-1]
				last.Tail += string(t)
			}
		}
	}

	if root == nil {
		return nil, ErrNoRootElement
	}
	return &Document{Root: root}, nil
}

// ParseBytes parses an in-memory XML document.
func ParseBytes(data []byte) (*Document, error) {
	return Parse(bytes.NewReader(data))
}

// ParseFile parses the XML document at path.
func ParseFile(path string) (*Document, error) {
	f, err := os.Open(path) // #nosec G304 -- caller-provided document path
	if err != nil {
		return nil, fmt.Errorf("xmltree: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// isNamespaceDecl reports whether an attribute name is an xmlns declaration.
// The decoder surfaces xmlns="..." with the local name "xmlns" and
// xmlns:p="..." with the space "xmlns".
func isNamespaceDecl(name xml.Name) bool {
	return name.Space == "xmlns" || (name.Space == "" && name.Local == "xmlns")
}
