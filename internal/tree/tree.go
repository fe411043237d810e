// Package tree builds a generic document tree from eSocial XML files.
//
// The tree is a nested map keyed by element local name. Leaf elements become
// strings, repeated sibling names fold into ordered lists, and an element
// carrying both children and character data keeps the text under the
// reserved key "_text". Attributes merge into the element's map as plain
// entries, with child elements winning on a name collision, so event Id
// attributes survive into the stored payload. Namespace prefixes, URIs and
// xmlns declarations are stripped so lookups work across eSocial schema
// versions.
package tree

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// TextKey is the reserved key holding character data of elements that also
// have child elements. Document element names never collide with it since
// XML names cannot start with "_" followed by lowercase in eSocial schemas.
const TextKey = "_text"

// Tree is one decoded element: values are string, Tree, or []any holding a
// mix of those for repeated sibling names.
type Tree map[string]any

// Parse decodes an XML document into a Tree with a single key, the root
// element's local name. Malformed XML returns an error, never a partial
// tree.
func Parse(r io.Reader) (Tree, error) {
	dec := xml.NewDecoder(r)
	dec.CharsetReader = charsetReader

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return nil, fmt.Errorf("xml: no root element")
		}
		if err != nil {
			return nil, fmt.Errorf("xml: %w", err)
		}
		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		v, err := decodeElement(dec, start)
		if err != nil {
			return nil, fmt.Errorf("xml: %w", err)
		}
		// Anything after the root except whitespace is a document error;
		// the decoder reports it on the next token read.
		for {
			tok, err := dec.Token()
			if err == io.EOF {
				return Tree{start.Name.Local: v}, nil
			}
			if err != nil {
				return nil, fmt.Errorf("xml: %w", err)
			}
			if _, ok := tok.(xml.StartElement); ok {
				return nil, fmt.Errorf("xml: multiple root elements")
			}
		}
	}
}

// decodeElement consumes tokens until the matching EndElement and returns
// either a string (leaf) or a Tree. start's attributes become map entries
// unless a child element already claimed the name.
func decodeElement(dec *xml.Decoder, start xml.StartElement) (any, error) {
	children := Tree{}
	var text strings.Builder

	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			v, err := decodeElement(dec, t)
			if err != nil {
				return nil, err
			}
			name := t.Name.Local
			switch prev := children[name].(type) {
			case nil:
				children[name] = v
			case []any:
				children[name] = append(prev, v)
			default:
				children[name] = []any{prev, v}
			}
		case xml.CharData:
			text.Write(t)
		case xml.EndElement:
			for _, a := range start.Attr {
				if a.Name.Space == "xmlns" || a.Name.Local == "xmlns" {
					continue
				}
				if _, taken := children[a.Name.Local]; !taken {
					children[a.Name.Local] = a.Value
				}
			}
			s := strings.TrimSpace(text.String())
			if len(children) == 0 {
				return s, nil
			}
			if s != "" {
				children[TextKey] = s
			}
			return children, nil
		}
	}
}

// Walk navigates the tree by element names. A missing step returns
// (nil, false). A step into a list descends into its first element, which
// matches single-valued reads against repeated sections.
func (t Tree) Walk(path ...string) (any, bool) {
	var cur any = t
	for _, step := range path {
		if step == TextKey {
			m, ok := cur.(Tree)
			if !ok {
				return nil, false
			}
			v, ok := m[TextKey]
			if !ok {
				return nil, false
			}
			cur = v
			continue
		}
		if l, ok := cur.([]any); ok {
			if len(l) == 0 {
				return nil, false
			}
			cur = l[0]
		}
		m, ok := cur.(Tree)
		if !ok {
			return nil, false
		}
		v, ok := m[step]
		if !ok {
			return nil, false
		}
		cur = v
	}
	return cur, true
}

// Text unwraps a leaf value: a string is itself, a Tree with a _text entry
// yields that text, and a single-key Tree whose only value is a string
// yields that value. Everything else reports false.
func Text(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case Tree:
		if s, ok := t[TextKey].(string); ok {
			return s, true
		}
		if len(t) == 1 {
			for _, only := range t {
				if s, ok := only.(string); ok {
					return s, true
				}
			}
		}
	case []any:
		if len(t) > 0 {
			return Text(t[0])
		}
	}
	return "", false
}

// List coerces a value into a slice: lists are themselves, any other
// non-nil value becomes a one-element slice. Used for repeated sections
// that appear once in small documents.
func List(v any) []any {
	switch t := v.(type) {
	case nil:
		return nil
	case []any:
		return t
	default:
		return []any{t}
	}
}
