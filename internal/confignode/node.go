// Package confignode provides the JSON-like configuration tree consumed by
// the object loaders. Lookups on missing keys return a null node rather than
// nil so callers can chain lookups and apply defaults without error checks.
package confignode

import (
	"encoding/json"
	"sort"

	engerr "github.com/torvale/torvale-engine/internal/errors"
)

// Node is one value in a configuration tree. The zero value is a null node.
type Node struct {
	value any
}

var nullNode = &Node{}

// Parse decodes raw JSON into a configuration tree
func Parse(data []byte) (*Node, error) {
	var value any
	if err := json.Unmarshal(data, &value); err != nil {
		return nil, engerr.WrapWithCode(err, engerr.CodeMalformedConfiguration, "failed to parse configuration")
	}
	return &Node{value: value}, nil
}

// FromValue wraps an already-decoded JSON value (nil, bool, float64, string,
// []any or map[string]any) in a Node
func FromValue(value any) *Node {
	return &Node{value: value}
}

// NewObject creates an empty object node
func NewObject() *Node {
	return &Node{value: map[string]any{}}
}

// IsNull reports whether the node holds no value
func (n *Node) IsNull() bool {
	return n == nil || n.value == nil
}

// Value returns the underlying decoded JSON value
func (n *Node) Value() any {
	if n == nil {
		return nil
	}
	return n.value
}

// Get returns the child node under key, or a null node if absent
func (n *Node) Get(key string) *Node {
	if n == nil {
		return nullNode
	}
	obj, ok := n.value.(map[string]any)
	if !ok {
		return nullNode
	}
	child, ok := obj[key]
	if !ok {
		return nullNode
	}
	return &Node{value: child}
}

// Has reports whether key exists on an object node
func (n *Node) Has(key string) bool {
	if n == nil {
		return false
	}
	obj, ok := n.value.(map[string]any)
	if !ok {
		return false
	}
	_, ok = obj[key]
	return ok
}

// Set writes a value under key, promoting a null node to an object.
// Setting on a non-object node is a no-op.
func (n *Node) Set(key string, value any) {
	if n == nil {
		return
	}
	if n.value == nil {
		n.value = map[string]any{}
	}
	obj, ok := n.value.(map[string]any)
	if !ok {
		return
	}
	if child, ok := value.(*Node); ok {
		obj[key] = child.Value()
		return
	}
	obj[key] = value
}

// Keys returns the sorted field names of an object node
func (n *Node) Keys() []string {
	if n == nil {
		return nil
	}
	obj, ok := n.value.(map[string]any)
	if !ok {
		return nil
	}
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// List returns the elements of an array node, or nil for any other node
func (n *Node) List() []*Node {
	if n == nil {
		return nil
	}
	arr, ok := n.value.([]any)
	if !ok {
		return nil
	}
	nodes := make([]*Node, len(arr))
	for i, v := range arr {
		nodes[i] = &Node{value: v}
	}
	return nodes
}

// String returns the node's string value, or "" if it is not a string
func (n *Node) String() string {
	return n.StringOr("")
}

// StringOr returns the node's string value, or def if it is not a string
func (n *Node) StringOr(def string) string {
	if n == nil {
		return def
	}
	if s, ok := n.value.(string); ok {
		return s
	}
	return def
}

// IntOr returns the node's value as an int, or def if it is not numeric
func (n *Node) IntOr(def int) int {
	if n == nil {
		return def
	}
	if f, ok := n.value.(float64); ok {
		return int(f)
	}
	return def
}

// Int32Or returns the node's value as an int32, or def if it is not numeric
func (n *Node) Int32Or(def int32) int32 {
	return int32(n.IntOr(int(def)))
}

// Uint32Or returns the node's value as a uint32, or def if it is not a
// non-negative number
func (n *Node) Uint32Or(def uint32) uint32 {
	if n == nil {
		return def
	}
	if f, ok := n.value.(float64); ok && f >= 0 {
		return uint32(f)
	}
	return def
}

// FloatOr returns the node's value as a float64, or def if it is not numeric
func (n *Node) FloatOr(def float64) float64 {
	if n == nil {
		return def
	}
	if f, ok := n.value.(float64); ok {
		return f
	}
	return def
}

// BoolOr returns the node's boolean value, or def if it is not a boolean
func (n *Node) BoolOr(def bool) bool {
	if n == nil {
		return def
	}
	if b, ok := n.value.(bool); ok {
		return b
	}
	return def
}

// Clone returns a deep copy of the node
func (n *Node) Clone() *Node {
	if n == nil {
		return &Node{}
	}
	return &Node{value: cloneValue(n.value)}
}

// Merge deep-merges override on top of the node and returns the result.
// Objects merge field by field; scalars, arrays and nulls in the override
// replace the base value. Neither input is mutated.
func (n *Node) Merge(override *Node) *Node {
	if override.IsNull() {
		return n.Clone()
	}
	if n.IsNull() {
		return override.Clone()
	}
	return &Node{value: mergeValues(n.value, override.value)}
}

// MarshalJSON implements json.Marshaler
func (n *Node) MarshalJSON() ([]byte, error) {
	if n == nil {
		return []byte("null"), nil
	}
	return json.Marshal(n.value)
}

// UnmarshalJSON implements json.Unmarshaler
func (n *Node) UnmarshalJSON(data []byte) error {
	return json.Unmarshal(data, &n.value)
}

func mergeValues(base, override any) any {
	baseObj, baseOK := base.(map[string]any)
	overObj, overOK := override.(map[string]any)
	if !baseOK || !overOK {
		return cloneValue(override)
	}

	merged := make(map[string]any, len(baseObj)+len(overObj))
	for k, v := range baseObj {
		merged[k] = cloneValue(v)
	}
	for k, v := range overObj {
		if existing, ok := merged[k]; ok {
			merged[k] = mergeValues(existing, v)
		} else {
			merged[k] = cloneValue(v)
		}
	}
	return merged
}

func cloneValue(value any) any {
	switch v := value.(type) {
	case map[string]any:
		cloned := make(map[string]any, len(v))
		for k, child := range v {
			cloned[k] = cloneValue(child)
		}
		return cloned
	case []any:
		cloned := make([]any, len(v))
		for i, child := range v {
			cloned[i] = cloneValue(child)
		}
		return cloned
	default:
		return v
	}
}
