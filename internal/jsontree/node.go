// Package jsontree is a read-only, navigate-or-skip view over loosely shaped
// JSON payloads. Every lookup reports presence instead of failing, so callers
// can drop one branch without aborting the walk.
package jsontree

import (
	"errors"
	"strings"

	"github.com/tidwall/gjson"
)

// ErrInvalidJSON is returned by Parse when the payload is not well-formed JSON.
var ErrInvalidJSON = errors.New("jsontree: invalid json")

// Node is one position in a parsed JSON document.
type Node struct {
	r gjson.Result
}

// Parse validates data and returns its root node.
func Parse(data []byte) (Node, error) {
	if !gjson.ValidBytes(data) {
		return Node{}, ErrInvalidJSON
	}
	return Node{r: gjson.ParseBytes(data)}, nil
}

// MustParse is Parse for literals in tests and fixtures.
func MustParse(s string) Node {
	n, err := Parse([]byte(s))
	if err != nil {
		panic(err)
	}
	return n
}

// Get follows keys through nested objects. It returns ok=false as soon as a
// step is not an object or does not carry the key. A key holding null is
// present.
func (n Node) Get(keys ...string) (Node, bool) {
	cur := n.r
	for _, k := range keys {
		if !cur.IsObject() {
			return Node{}, false
		}
		next := cur.Get(escapeKey(k))
		if !next.Exists() {
			return Node{}, false
		}
		cur = next
	}
	return Node{r: cur}, true
}

// Has reports whether the key path resolves.
func (n Node) Has(keys ...string) bool {
	_, ok := n.Get(keys...)
	return ok
}

// StringOr returns the value at keys rendered as a string, or def when the
// path is missing or holds null.
func (n Node) StringOr(def string, keys ...string) string {
	v, ok := n.Get(keys...)
	if !ok || v.IsNull() {
		return def
	}
	return v.r.String()
}

// Float returns the node's value when it is a JSON number.
func (n Node) Float() (float64, bool) {
	if n.r.Type != gjson.Number {
		return 0, false
	}
	return n.r.Float(), true
}

// Scalar renders a string, number or boolean node as text. Null, objects and
// arrays report false.
func (n Node) Scalar() (string, bool) {
	switch n.r.Type {
	case gjson.String, gjson.Number, gjson.True, gjson.False:
		return n.r.String(), true
	}
	return "", false
}

// Each calls fn for every element of an array node, stopping early when fn
// returns false. Non-array nodes yield nothing.
func (n Node) Each(fn func(Node) bool) {
	if !n.r.IsArray() {
		return
	}
	n.r.ForEach(func(_, v gjson.Result) bool {
		return fn(Node{r: v})
	})
}

// Array returns the elements of an array node, or nil.
func (n Node) Array() []Node {
	if !n.r.IsArray() {
		return nil
	}
	raw := n.r.Array()
	out := make([]Node, 0, len(raw))
	for _, v := range raw {
		out = append(out, Node{r: v})
	}
	return out
}

func (n Node) Exists() bool   { return n.r.Exists() }
func (n Node) IsObject() bool { return n.r.IsObject() }
func (n Node) IsArray() bool  { return n.r.IsArray() }
func (n Node) IsNull() bool   { return n.r.Exists() && n.r.Type == gjson.Null }

// String renders scalar values; objects and arrays come back as raw JSON.
func (n Node) String() string { return n.r.String() }

// Raw returns the node's undecoded JSON text.
func (n Node) Raw() string { return n.r.Raw }

// escapeKey quotes gjson path syntax so k is matched as a literal member name.
func escapeKey(k string) string {
	var b strings.Builder
	b.Grow(len(k))
	for _, c := range k {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '_', c == '-':
		default:
			b.WriteByte('\\')
		}
		b.WriteRune(c)
	}
	return b.String()
}
