package feed

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrNoRoot is returned for a document without any element.
var ErrNoRoot = errors.New("feed: empty document")

type node struct {
	name     string
	text     strings.Builder
	children []*node
}

// ParseProperties reads a <properties> (or <list>) document and returns the
// <property> children of the root as element trees: a leaf becomes its
// trimmed text, an element with children a map keyed by child name, and a
// repeated child name a []any in document order. Attributes are ignored.
func ParseProperties(r io.Reader) ([]map[string]any, error) {
	root, err := parseTree(r)
	if err != nil {
		return nil, err
	}
	out := []map[string]any{}
	for _, c := range root.children {
		if c.name != "property" {
			continue
		}
		if m, ok := c.value().(map[string]any); ok {
			out = append(out, m)
		} else {
			out = append(out, map[string]any{})
		}
	}
	return out, nil
}

func parseTree(r io.Reader) (*node, error) {
	d := xml.NewDecoder(r)
	d.Entity = xml.HTMLEntity
	d.CharsetReader = func(label string, in io.Reader) (io.Reader, error) {
		switch strings.ToLower(label) {
		case "utf-8", "utf8", "us-ascii", "ascii":
			return in, nil
		}
		return nil, fmt.Errorf("feed: unsupported charset %q", label)
	}

	var root *node
	var stack []*node
	for {
		tok, err := d.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse feed: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			n := &node{name: t.Name.Local}
			if len(stack) == 0 {
				if root == nil {
					root = n
				}
			} else {
				parent := stack[len(stack)-1]
				parent.children = append(parent.children, n)
			}
			stack = append(stack, n)
		case xml.EndElement:
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].text.Write(t)
			}
		}
	}
	if root == nil {
		return nil, ErrNoRoot
	}
	return root, nil
}

func (n *node) value() any {
	if len(n.children) == 0 {
		return strings.TrimSpace(n.text.String())
	}
	counts := make(map[string]int, len(n.children))
	for _, c := range n.children {
		counts[c.name]++
	}
	m := make(map[string]any, len(counts))
	for _, c := range n.children {
		if counts[c.name] > 1 {
			list, _ := m[c.name].([]any)
			m[c.name] = append(list, c.value())
			continue
		}
		m[c.name] = c.value()
	}
	return m
}
