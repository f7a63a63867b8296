package render

import (
	"bytes"
	"fmt"
	"sort"
)

// FastPath renders node directly to HTML, bypassing tokenization and
// the sequencer entirely, when node's subtree contains no signal
// anywhere.
//
// ok is false if node (or anything beneath it) holds a signal; callers
// fall back to Tokenize + Pipeline in that case.
func FastPath(node *Node) (html string, ok bool) {
	var buf bytes.Buffer
	if !fastNode(&buf, node) {
		return "", false
	}
	return buf.String(), true
}

func fastNode(buf *bytes.Buffer, n *Node) bool {
	if n == nil {
		return true
	}
	switch n.K {
	case KindText:
		buf.WriteString(escapeHTML(n.Text))
		return true
	case KindRaw:
		buf.WriteString(n.Text)
		return true
	case KindFragment:
		for _, c := range n.Children {
			if !fastNode(buf, c) {
				return false
			}
		}
		return true
	case KindElement:
		return fastElement(buf, n)
	case KindSignalBind:
		return fastBind(buf, n)
	}
	return true
}

func fastElement(buf *bytes.Buffer, n *Node) bool {
	for _, v := range n.Props {
		if _, isSignal := v.(interface{ ID() string }); isSignal {
			return false
		}
	}

	buf.WriteByte('<')
	buf.WriteString(n.Tag)

	keys := make([]string, 0, len(n.Props))
	for k := range n.Props {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	attrs := map[string]string{}
	var boolAttrs []string
	for _, k := range keys {
		assignAttr(attrs, &boolAttrs, k, n.Props[k])
	}
	writeAttrMap(buf, attrs)
	writeBoolAttrs(buf, boolAttrs)

	void := isVoidElement(n.Tag)
	if void {
		buf.WriteString("/>")
		return true
	}
	buf.WriteByte('>')
	for _, c := range n.Children {
		if !fastNode(buf, c) {
			return false
		}
	}
	fmt.Fprintf(buf, "</%s>", n.Tag)
	return true
}

// fastBind always disqualifies: a KindSignalBind node is by
// definition a signal binding.
func fastBind(buf *bytes.Buffer, n *Node) bool {
	return false
}
