package xmltree

import (
	"bufio"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strings"
)

// Escaping mirrors the usual XML serializer conventions: text escapes the
// markup characters only, attribute values additionally escape quotes and
// whitespace that would not survive a reparse.
var (
	textEscaper = strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
	)
	attrEscaper = strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
		"\n", "&#10;",
		"\t", "&#9;",
		"\r", "&#13;",
	)
)

// nsTable assigns serialization prefixes to namespace URIs. The root
// element's namespace becomes the default namespace; xlink keeps its
// conventional prefix; anything else gets a generated one. All declarations
// are emitted on the root element.
type nsTable struct {
	defaultURI string
	prefixes   map[string]string
	order      []string
	generated  int
}

func buildNamespaces(root *Element) *nsTable {
	t := &nsTable{
		defaultURI: root.Name.Space,
		prefixes:   make(map[string]string),
	}
	Walk(root, func(el, _ *Element) {
		t.assign(el.Name.Space, false)
		for _, a := range el.Attrs {
			t.assign(a.Name.Space, true)
		}
	})
	return t
}

// assign registers a namespace URI. Attributes never inherit the default
// namespace, so a URI seen on an attribute always needs a real prefix.
func (t *nsTable) assign(uri string, forAttr bool) {
	if uri == "" {
		return
	}
	if !forAttr && uri == t.defaultURI {
		return
	}
	if _, ok := t.prefixes[uri]; ok {
		return
	}
	var prefix string
	if uri == XLinkNamespace {
		prefix = "xlink"
	} else {
		t.generated++
		prefix = fmt.Sprintf("ns%d", t.generated)
	}
	t.prefixes[uri] = prefix
	t.order = append(t.order, uri)
}

// qualify renders a name with its serialization prefix.
func (t *nsTable) qualify(name xml.Name, isAttr bool) string {
	if name.Space == "" {
		return name.Local
	}
	if !isAttr && name.Space == t.defaultURI {
		return name.Local
	}
	prefix, ok := t.prefixes[name.Space]
	if !ok {
		return name.Local
	}
	return prefix + ":" + name.Local
}

// WriteTo serializes the document to w with an XML declaration header.
func (d *Document) WriteTo(w io.Writer) error {
	if d.Root == nil {
		return ErrNoRootElement
	}
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(xml.Header); err != nil {
		return err
	}
	t := buildNamespaces(d.Root)
	writeElement(bw, d.Root, t, true)
	return bw.Flush()
}

// Bytes serializes the document into memory.
func (d *Document) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := d.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteFile serializes the document to path, overwriting an existing file.
func (d *Document) WriteFile(path string) error {
	data, err := d.Bytes()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil { // #nosec G306 -- document files are world-readable
		return fmt.Errorf("xmltree: %w", err)
	}
	return nil
}

func writeElement(bw *bufio.Writer, el *Element, t *nsTable, isRoot bool) {
	name := t.qualify(el.Name, false)
	bw.WriteByte('<')
	bw.WriteString(name)

	if isRoot {
		if t.defaultURI != "" {
			fmt.Fprintf(bw, ` xmlns="%s"`, attrEscaper.Replace(t.defaultURI))
		}
		for _, uri := range t.order {
			fmt.Fprintf(bw, ` xmlns:%s="%s"`, t.prefixes[uri], attrEscaper.Replace(uri))
		}
	}

	for _, a := range el.Attrs {
		bw.WriteByte(' ')
		bw.WriteString(t.qualify(a.Name, true))
		bw.WriteString(`="`)
		bw.WriteString(attrEscaper.Replace(a.Value))
		bw.WriteByte('"')
	}

	if el.Text == "" && len(el.Children) == 0 {
		bw.WriteString("/>")
		return
	}

	bw.WriteByte('>')
	bw.WriteString(textEscaper.Replace(el.Text))
	for _, c := range el.Children {
		writeElement(bw, c, t, false)
		bw.WriteString(textEscaper.Replace(c.Tail))
	}
	bw.WriteString("</")
	bw.WriteString(name)
	bw.WriteByte('>')
}
