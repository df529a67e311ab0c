// Package scalar implements YAML 1.2 core schema resolution of scalar
// nodes to the JSON value kinds.
package scalar

import (
	"fmt"
	"math"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Type is the resolved kind of a scalar.
type Type int

const (
	Null Type = iota
	Bool
	Int
	Float
	String
)

var typeNames = [...]string{
	Null:   "null",
	Bool:   "bool",
	Int:    "int",
	Float:  "float",
	String: "string",
}

func (t Type) String() string {
	if t < 0 || int(t) >= len(typeNames) {
		return fmt.Sprintf("Type(%d)", int(t))
	}
	return typeNames[t]
}

var (
	base10 = regexp.MustCompile(`^[-+]?[0-9]+$`)
	base8  = regexp.MustCompile(`^0o[0-7]+$`)
	base16 = regexp.MustCompile(`^0x[0-9a-fA-F]+$`)

	float    = regexp.MustCompile(`^[-+]?(\.[0-9]+|[0-9]+(\.[0-9]*)?)([eE][-+]?[0-9]+)?$`)
	infinity = regexp.MustCompile(`^[-+]?(\.inf|\.Inf|\.INF)$`)
)

var (
	nullWords  = []string{"null", "Null", "NULL", "~", ""}
	trueWords  = []string{"true", "True", "TRUE"}
	falseWords = []string{"false", "False", "FALSE"}
	nanWords   = []string{".nan", ".NaN", ".NAN"}
)

// rules are tried in order; the first match decides the type.
var rules = []struct {
	typ   Type
	match func(string) bool
}{
	{Null, func(s string) bool { return slices.Contains(nullWords, s) }},
	{Bool, func(s string) bool { return slices.Contains(trueWords, s) || slices.Contains(falseWords, s) }},
	{Int, func(s string) bool { return base10.MatchString(s) || base8.MatchString(s) || base16.MatchString(s) }},
	{Float, func(s string) bool {
		return float.MatchString(s) || infinity.MatchString(s) || slices.Contains(nanWords, s)
	}},
}

// nonPlain are the styles whose content is never resolved.
const nonPlain = yaml.DoubleQuotedStyle | yaml.SingleQuotedStyle | yaml.LiteralStyle | yaml.FoldedStyle

// Resolve returns the type of a scalar node. A nil node is null. Quoted and
// block scalars are always strings; plain scalars go through ResolvePlain.
func Resolve(n *yaml.Node) Type {
	if n == nil {
		return Null
	}
	if n.Style&nonPlain != 0 {
		return String
	}
	return ResolvePlain(n.Value)
}

// ResolvePlain returns the type of the text of a plain scalar.
func ResolvePlain(s string) Type {
	for _, r := range rules {
		if r.match(s) {
			return r.typ
		}
	}
	return String
}

var coreTags = map[string]Type{
	"!!null":  Null,
	"!!bool":  Bool,
	"!!int":   Int,
	"!!float": Float,
	"!!str":   String,
}

// CoreTag returns the type named by a core schema tag such as "!!int".
func CoreTag(tag string) (Type, bool) {
	t, ok := coreTags[tag]
	return t, ok
}

// ParseBool returns the value of a scalar of type Bool.
func ParseBool(s string) (bool, error) {
	switch {
	case slices.Contains(trueWords, s):
		return true, nil
	case slices.Contains(falseWords, s):
		return false, nil
	}
	return false, fmt.Errorf("scalar: invalid bool %q", s)
}

// ParseInt returns the value of a scalar of type Int. Octal and hex use the
// 0o and 0x prefixes; a leading zero alone does not make a number octal.
func ParseInt(s string) (int64, error) {
	var (
		v   int64
		err error
	)
	switch {
	case strings.HasPrefix(s, "0o"):
		v, err = strconv.ParseInt(s[2:], 8, 64)
	case strings.HasPrefix(s, "0x"):
		v, err = strconv.ParseInt(s[2:], 16, 64)
	default:
		v, err = strconv.ParseInt(s, 10, 64)
	}
	if err != nil {
		return 0, fmt.Errorf("scalar: invalid int %q: %w", s, err)
	}
	return v, nil
}

// ParseFloat returns the value of a scalar of type Float or Int.
func ParseFloat(s string) (float64, error) {
	switch {
	case slices.Contains(nanWords, s):
		return math.NaN(), nil
	case infinity.MatchString(s):
		if s[0] == '-' {
			return math.Inf(-1), nil
		}
		return math.Inf(1), nil
	case base8.MatchString(s), base16.MatchString(s):
		v, err := ParseInt(s)
		return float64(v), err
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("scalar: invalid float %q: %w", s, err)
	}
	return v, nil
}
