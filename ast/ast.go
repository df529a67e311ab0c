// Package ast defines the JSON-shaped syntax tree shared by the JSON parser
// and the YAML bridge.
//
// Every node records the half-open byte range it covers in the source text and
// a non-owning reference to its enclosing node. Trees are built once by a
// single parse and are not shared between documents.
package ast

import (
	"fmt"
	"strconv"
)

// Kind identifies the variant of a node.
type Kind int

const (
	KindObject Kind = iota + 1
	KindArray
	KindProperty
	KindString
	KindNumber
	KindBoolean
	KindNull
)

var kindNames = [...]string{
	KindObject:   "object",
	KindArray:    "array",
	KindProperty: "property",
	KindString:   "string",
	KindNumber:   "number",
	KindBoolean:  "boolean",
	KindNull:     "null",
}

func (k Kind) String() string {
	if k > 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// Range is a half-open [Start, End) interval of byte offsets. An End of -1
// means the node has not been finalized yet.
type Range struct {
	Start int
	End   int
}

// Len returns the number of bytes covered by r, or 0 if r is not finalized.
func (r Range) Len() int {
	if r.End < r.Start {
		return 0
	}
	return r.End - r.Start
}

// Contains reports whether off lies within r. When includeEnd is set the
// end offset itself also counts, which is what completion wants for a cursor
// placed right after a token.
func (r Range) Contains(off int, includeEnd bool) bool {
	if off < r.Start {
		return false
	}
	if includeEnd {
		return off <= r.End
	}
	return off < r.End
}

// ContainsRange reports whether o lies entirely within r.
func (r Range) ContainsRange(o Range) bool {
	return o.Start >= r.Start && o.End <= r.End && o.Start <= o.End
}

func (r Range) String() string {
	return fmt.Sprintf("[%d,%d)", r.Start, r.End)
}

// Segment addresses a node within its parent: a property name for values
// held by a property, or an index for array items. The zero Segment is the
// location of the root.
type Segment struct {
	Key     string
	Index   int
	isIndex bool
	isKey   bool
}

// KeySegment returns the location of a property value named key.
func KeySegment(key string) Segment { return Segment{Key: key, isKey: true} }

// IndexSegment returns the location of the i-th array item.
func IndexSegment(i int) Segment { return Segment{Index: i, isIndex: true} }

// IsIndex reports whether s is an array index.
func (s Segment) IsIndex() bool { return s.isIndex }

// IsKey reports whether s is a property name.
func (s Segment) IsKey() bool { return s.isKey }

// IsZero reports whether s carries no location (the root).
func (s Segment) IsZero() bool { return !s.isIndex && !s.isKey }

func (s Segment) String() string {
	switch {
	case s.isIndex:
		return strconv.Itoa(s.Index)
	case s.isKey:
		return s.Key
	}
	return ""
}

// Node is implemented by all tree nodes. The set of implementations is
// closed: Object, Array, Property, String, Number, Boolean and Null.
type Node interface {
	// Kind returns the variant of the node.
	Kind() Kind
	// Parent returns the enclosing node, or nil for the root.
	Parent() Node
	// Range returns the byte range of the node in the source.
	Range() Range
	// Location returns the position of the node within its parent.
	Location() Segment
	// SetEnd finalizes the end offset of the node.
	SetEnd(end int)

	node()
}

type base struct {
	parent Node
	loc    Segment
	rng    Range
}

func (b *base) Parent() Node      { return b.parent }
func (b *base) Range() Range      { return b.rng }
func (b *base) Location() Segment { return b.loc }
func (b *base) SetEnd(end int)    { b.rng.End = end }
func (b *base) node()             {}

func newBase(parent Node, loc Segment, start, end int) base {
	return base{parent: parent, loc: loc, rng: Range{Start: start, End: end}}
}

// Object is a JSON object. Properties keep source order and duplicates.
type Object struct {
	base
	Properties []*Property
}

// NewObject returns an object starting at start whose end is not yet known.
func NewObject(parent Node, loc Segment, start int) *Object {
	return &Object{base: newBase(parent, loc, start, -1)}
}

func (*Object) Kind() Kind { return KindObject }

// AddProperty appends p and reports whether there was a property to add.
func (o *Object) AddProperty(p *Property) bool {
	if p == nil {
		return false
	}
	o.Properties = append(o.Properties, p)
	return true
}

// Property is a single key/value member of an object.
type Property struct {
	base
	Key         *String
	Value       Node
	ColonOffset int
}

// NewProperty returns a property starting at start. The key and value are
// attached separately.
func NewProperty(parent Node, start int) *Property {
	return &Property{base: newBase(parent, Segment{}, start, -1), ColonOffset: -1}
}

func (*Property) Kind() Kind { return KindProperty }

// SetKey attaches the key and reports whether there was one.
func (p *Property) SetKey(k *String) bool {
	if k == nil {
		return false
	}
	p.Key = k
	return true
}

// SetValue attaches the value, extends the property to the value's end and
// reports whether there was a value.
func (p *Property) SetValue(v Node) bool {
	if v == nil {
		return false
	}
	p.Value = v
	p.rng.End = v.Range().End
	return true
}

// Name returns the key text, or "" if the property has no key.
func (p *Property) Name() string {
	if p.Key == nil {
		return ""
	}
	return p.Key.Value
}

// Array is a JSON array. Items keep source order.
type Array struct {
	base
	Items []Node
}

// NewArray returns an array starting at start whose end is not yet known.
func NewArray(parent Node, loc Segment, start int) *Array {
	return &Array{base: newBase(parent, loc, start, -1)}
}

func (*Array) Kind() Kind { return KindArray }

// AddItem appends n and reports whether there was an item to add.
func (a *Array) AddItem(n Node) bool {
	if n == nil {
		return false
	}
	a.Items = append(a.Items, n)
	return true
}

// String is a string value or, when IsKey is set, a property key.
type String struct {
	base
	Value string
	IsKey bool
}

func NewString(parent Node, loc Segment, isKey bool, start, end int) *String {
	return &String{base: newBase(parent, loc, start, end), IsKey: isKey}
}

func (*String) Kind() Kind { return KindString }

// Number is a numeric value. IsInteger separates whole numbers from floats
// for schema type matching.
type Number struct {
	base
	Value     float64
	IsInteger bool
}

func NewNumber(parent Node, loc Segment, start, end int) *Number {
	return &Number{base: newBase(parent, loc, start, end)}
}

func (*Number) Kind() Kind { return KindNumber }

type Boolean struct {
	base
	Value bool
}

func NewBoolean(parent Node, loc Segment, value bool, start, end int) *Boolean {
	return &Boolean{base: newBase(parent, loc, start, end), Value: value}
}

func (*Boolean) Kind() Kind { return KindBoolean }

type Null struct {
	base
}

func NewNull(parent Node, loc Segment, start, end int) *Null {
	return &Null{base: newBase(parent, loc, start, end)}
}

func (*Null) Kind() Kind { return KindNull }
