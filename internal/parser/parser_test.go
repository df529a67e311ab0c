package parser

import (
	"strings"
	"testing"

	"github.com/adamvoss/yamlast/ast"
	"github.com/adamvoss/yamlast/diag"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, input string, cfg Config) (ast.Node, *diag.Collector) {
	t.Helper()
	root, d := New(input, cfg, nil).Parse()
	requireContained(t, root)
	return root, d
}

// requireContained asserts that every node lies within its parent.
func requireContained(t *testing.T, root ast.Node) {
	t.Helper()
	ast.Walk(root, func(n ast.Node) bool {
		r := n.Range()
		require.LessOrEqual(t, r.Start, r.End, "%T %s", n, r)
		if parent := n.Parent(); parent != nil {
			require.True(t, parent.Range().ContainsRange(r), "%T %s not within %T %s", n, r, parent, parent.Range())
		}
		return true
	})
}

func requireCodes(t *testing.T, list diag.List, expected ...diag.Code) {
	t.Helper()
	var codes []diag.Code
	for _, d := range list {
		codes = append(codes, d.Code)
	}
	require.Equal(t, expected, codes)
}

func TestParseWellFormed(t *testing.T) {
	input := `{"a":[1,2.5,true,null,"x"]}`
	root, d := parse(t, input, Config{})
	require.Empty(t, d.Errors())
	require.Empty(t, d.Warnings())

	expected := `object [0,27)
  property [1,26)
    key "a" [1,4)
    array [5,26)
      number 1 int [6,7)
      number 2.5 float [8,11)
      boolean true [12,16)
      null [17,21)
      string "x" [22,25)
`
	require.Equal(t, expected, ast.DumpString(root))

	obj := root.(*ast.Object)
	require.Len(t, obj.Properties, 1)
	require.Equal(t, "a", obj.Properties[0].Name())
	require.Equal(t, 4, obj.Properties[0].ColonOffset)
	arr := obj.Properties[0].Value.(*ast.Array)
	require.Len(t, arr.Items, 5)
	require.True(t, arr.Items[0].(*ast.Number).IsInteger)
	require.False(t, arr.Items[1].(*ast.Number).IsInteger)
	require.Equal(t, 2.5, arr.Items[1].(*ast.Number).Value)
	require.Equal(t, ast.IndexSegment(4), arr.Items[4].Location())
}

func TestParseScalars(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{`"hi"`, "string \"hi\" [0,4)\n"},
		{`  -12`, "number -12 int [2,5)\n"},
		{`1e3`, "number 1000 int [0,3)\n"},
		{`0.5E-1`, "number 0.05 float [0,6)\n"},
		{`false`, "boolean false [0,5)\n"},
		{"\nnull\n", "null [1,5)\n"},
		{`"aé\n"`, "string \"aé\\n\" [0,7)\n"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			root, d := parse(t, tt.input, Config{})
			require.Empty(t, d.Errors())
			require.Equal(t, tt.expected, ast.DumpString(root))
		})
	}
}

func TestMissingValueReportsOnce(t *testing.T) {
	root, d := parse(t, `{"a": }`, Config{})
	requireCodes(t, d.Errors(), diag.ValueExpected)
	require.Equal(t, ast.Range{Start: 6, End: 7}, d.Errors()[0].Range)

	expected := `object [0,7)
  property [1,7)
    key "a" [1,4)
    <missing value>
`
	require.Equal(t, expected, ast.DumpString(root))
}

func TestDanglingComma(t *testing.T) {
	t.Run("array rejected", func(t *testing.T) {
		root, d := parse(t, `[1,2,]`, Config{})
		require.Len(t, root.(*ast.Array).Items, 2)
		requireCodes(t, d.Errors(), diag.ValueExpected)
		require.Equal(t, ast.Range{Start: 5, End: 6}, d.Errors()[0].Range)
	})
	t.Run("array tolerated", func(t *testing.T) {
		root, d := parse(t, `[1,2,]`, Config{IgnoreDanglingComma: true})
		require.Len(t, root.(*ast.Array).Items, 2)
		require.Empty(t, d.Errors())
		require.Equal(t, ast.Range{Start: 0, End: 6}, root.Range())
	})
	t.Run("object rejected", func(t *testing.T) {
		root, d := parse(t, `{"a":1,}`, Config{})
		require.Len(t, root.(*ast.Object).Properties, 1)
		requireCodes(t, d.Errors(), diag.PropertyExpected)
		require.Equal(t, ast.Range{Start: 7, End: 8}, d.Errors()[0].Range)
	})
	t.Run("object tolerated", func(t *testing.T) {
		root, d := parse(t, `{"a":1,}`, Config{IgnoreDanglingComma: true})
		require.Len(t, root.(*ast.Object).Properties, 1)
		require.Empty(t, d.Errors())
	})
}

func TestDuplicateKeyWarning(t *testing.T) {
	root, d := parse(t, `{"a":1,"a":2}`, Config{})
	require.Empty(t, d.Errors())
	requireCodes(t, d.Warnings(), diag.DuplicateKey)
	require.Equal(t, ast.Range{Start: 7, End: 10}, d.Warnings()[0].Range)
	require.Equal(t, diag.Warning, d.Warnings()[0].Severity)

	obj := root.(*ast.Object)
	require.Len(t, obj.Properties, 2)
	require.Equal(t, "a", obj.Properties[0].Name())
	require.Equal(t, "a", obj.Properties[1].Name())
	require.Equal(t, map[string]any{"a": float64(2)}, ast.Value(obj))
}

func TestDuplicateKeyWarnsOnEveryRepeat(t *testing.T) {
	_, d := parse(t, `{"a":1,"a":2,"a":3}`, Config{})
	requireCodes(t, d.Warnings(), diag.DuplicateKey, diag.DuplicateKey)
}

func TestMissingColonResynchronizes(t *testing.T) {
	root, d := parse(t, `{"a" 1, "b": 2}`, Config{})
	requireCodes(t, d.Errors(), diag.ColonExpected)
	require.Equal(t, ast.Range{Start: 5, End: 6}, d.Errors()[0].Range)

	expected := `object [0,15)
  property [1,6)
    key "a" [1,4)
    <missing value>
  property [8,14)
    key "b" [8,11)
    number 2 int [13,14)
`
	require.Equal(t, expected, ast.DumpString(root))
}

func TestUnquotedKey(t *testing.T) {
	root, d := parse(t, `{a: 1}`, Config{})
	requireCodes(t, d.Errors(), diag.DoubleQuotesExpected)
	require.Equal(t, ast.Range{Start: 1, End: 2}, d.Errors()[0].Range)
	require.Equal(t, "Property keys must be doublequoted", d.Errors()[0].Message)

	obj := root.(*ast.Object)
	require.Len(t, obj.Properties, 1)
	require.Equal(t, "a", obj.Properties[0].Name())
	require.True(t, obj.Properties[0].Key.IsKey)
	require.Equal(t, float64(1), obj.Properties[0].Value.(*ast.Number).Value)
}

func TestUnclosedContainers(t *testing.T) {
	tests := []struct {
		input    string
		code     diag.Code
		errRange ast.Range
		rootEnd  int
	}{
		{`[1, 2`, diag.CommaOrCloseBracketExpected, ast.Range{Start: 4, End: 5}, 5},
		{`[1 2]`, diag.CommaOrCloseBracketExpected, ast.Range{Start: 3, End: 4}, 4},
		{`{"a":1`, diag.CommaOrCloseBraceExpected, ast.Range{Start: 5, End: 6}, 6},
		{"{\"a\":1 \n", diag.CommaOrCloseBraceExpected, ast.Range{Start: 5, End: 6}, 8},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			root, d := parse(t, tt.input, Config{})
			require.NotNil(t, root)
			require.NotEmpty(t, d.Errors())
			require.Equal(t, tt.code, d.Errors()[0].Code)
			require.Equal(t, tt.errRange, d.Errors()[0].Range)
			require.Equal(t, tt.rootEnd, root.Range().End)
		})
	}
}

func TestTopLevel(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		code     diag.Code
		errRange ast.Range
		hasRoot  bool
	}{
		{"empty", ``, diag.InvalidSymbol, ast.Range{Start: 0, End: 0}, false},
		{"blank", `   `, diag.InvalidSymbol, ast.Range{Start: 0, End: 1}, false},
		{"unknown", `foo`, diag.InvalidSymbol, ast.Range{Start: 0, End: 3}, false},
		{"stray close", `]`, diag.InvalidSymbol, ast.Range{Start: 0, End: 1}, false},
		{"trailing value", `1 2`, diag.EndOfFileExpected, ast.Range{Start: 2, End: 3}, true},
		{"trailing close", `{}}`, diag.EndOfFileExpected, ast.Range{Start: 2, End: 3}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root, d := parse(t, tt.input, Config{})
			require.Equal(t, tt.hasRoot, root != nil)
			requireCodes(t, d.Errors(), tt.code)
			require.Equal(t, tt.errRange, d.Errors()[0].Range)
		})
	}
}

func TestRootMissingMessage(t *testing.T) {
	_, d := parse(t, ``, Config{})
	require.Equal(t, "Expected a JSON object, array or literal", d.Errors()[0].Message)
}

func TestScanErrors(t *testing.T) {
	tests := []struct {
		input    string
		code     diag.Code
		errRange ast.Range
	}{
		{`"abc`, diag.UnexpectedEndOfString, ast.Range{Start: 0, End: 4}},
		{`["\u12"]`, diag.InvalidUnicode, ast.Range{Start: 1, End: 7}},
		{`["\q"]`, diag.InvalidEscapeCharacter, ast.Range{Start: 1, End: 5}},
		{"[\"a\tb\"]", diag.InvalidCharacter, ast.Range{Start: 1, End: 6}},
		{`1.`, diag.UnexpectedEndOfNumber, ast.Range{Start: 0, End: 2}},
		{`[1] /* open`, diag.UnexpectedEndOfComment, ast.Range{Start: 4, End: 11}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			root, d := parse(t, tt.input, Config{})
			require.NotNil(t, root)
			requireCodes(t, d.Errors(), tt.code)
			require.Equal(t, tt.errRange, d.Errors()[0].Range)
		})
	}
}

func TestComments(t *testing.T) {
	input := "// lead\n[1, /* mid */ 2]"

	root, d := parse(t, input, Config{})
	require.Empty(t, d.Errors())
	require.Len(t, root.(*ast.Array).Items, 2)

	root, d = parse(t, input, Config{DisallowComments: true})
	requireCodes(t, d.Errors(), diag.CommentsNotAllowed, diag.CommentsNotAllowed)
	require.Equal(t, ast.Range{Start: 0, End: 7}, d.Errors()[0].Range)
	require.Equal(t, ast.Range{Start: 12, End: 21}, d.Errors()[1].Range)
	require.Len(t, root.(*ast.Array).Items, 2)
}

func TestMaxDepth(t *testing.T) {
	root, d := parse(t, `[[[1]],2]`, Config{MaxDepth: 2})
	requireCodes(t, d.Errors(), diag.MaxDepthExceeded)
	require.Equal(t, ast.Range{Start: 2, End: 3}, d.Errors()[0].Range)
	require.Equal(t, "Maximum nesting depth of 2 exceeded", d.Errors()[0].Message)

	expected := `array [0,9)
  array [1,6)
    array [2,5)
  number 2 int [7,8)
`
	require.Equal(t, expected, ast.DumpString(root))
}

func TestDeepNestingDoesNotOverflow(t *testing.T) {
	input := strings.Repeat(`[{"a":`, 5000)
	root, d := parse(t, input, Config{})
	require.NotNil(t, root)
	require.True(t, d.HasErrors())
	require.Equal(t, diag.MaxDepthExceeded, d.Errors()[0].Code)
}

func TestLocations(t *testing.T) {
	root, d := parse(t, `{"a":[1,{"b":2}]}`, Config{})
	require.Empty(t, d.Errors())

	var leaf ast.Node
	ast.Walk(root, func(n ast.Node) bool {
		if num, ok := n.(*ast.Number); ok && num.Value == 2 {
			leaf = n
		}
		return true
	})
	require.NotNil(t, leaf)
	require.Equal(t, []ast.Segment{ast.KeySegment("a"), ast.IndexSegment(1), ast.KeySegment("b")}, ast.Path(leaf))
	require.Equal(t, leaf, ast.NodeAt(root, 13, false))
}

func TestMessagesAreLocalizable(t *testing.T) {
	msgs := diag.Messages{diag.ValueExpected: "Wert erwartet"}
	_, d := New(`[1,]`, Config{}, msgs).Parse()
	require.Equal(t, "Wert erwartet", d.Errors()[0].Message)
}

func TestMalformedInputNeverPanics(t *testing.T) {
	inputs := []string{
		`{`, `}`, `[`, `,`, `:`, `{"a"`, `{"a":`, `{"a":,}`, `[,]`, `{,}`, `[1,,2]`,
		`{"a" "b"}`, `{"a":1 "b":2}`, `{1:2}`, `"\`, `/`, `-`, `--1`, `1.e`, "\x00",
		`{"a":[}`, `[{]`, `{"a":{"b":[1,{"c":}]}}`,
	}
	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			require.NotPanics(t, func() {
				_, d := parse(t, input, Config{})
				require.True(t, d.HasErrors())
			})
		})
	}
}
