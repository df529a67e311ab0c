package yamlast_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/adamvoss/yamlast"
)

func TestFormat(t *testing.T) {
	const sample = "string: hello\nnested:\n  a: 1\narray: [true, ~]\n"

	testCases := []struct {
		name     string
		input    string
		opts     []yamlast.Option
		expected string
	}{
		{
			name:     "Compact Mode",
			input:    sample,
			opts:     []yamlast.Option{yamlast.Indent(0)},
			expected: `{"string":"hello","nested":{"a":1},"array":[true,null]}`,
		},
		{
			name:     "Indent (2 spaces)",
			input:    sample,
			opts:     []yamlast.Option{yamlast.Indent(2)},
			expected: "{\n  \"string\": \"hello\",\n  \"nested\": {\n    \"a\": 1\n  },\n  \"array\": [\n    true,\n    null\n  ]\n}",
		},
		{
			name:     "Custom Indent (4 spaces)",
			input:    sample,
			opts:     []yamlast.Option{yamlast.Indent(4)},
			expected: "{\n    \"string\": \"hello\",\n    \"nested\": {\n        \"a\": 1\n    },\n    \"array\": [\n        true,\n        null\n    ]\n}",
		},
		{
			name:     "Empty Object",
			input:    "{}",
			opts:     []yamlast.Option{yamlast.Indent(2)},
			expected: "{}",
		},
		{
			name:     "Empty Array",
			input:    "[]",
			opts:     []yamlast.Option{yamlast.Indent(2)},
			expected: "[]",
		},
		{
			name:     "String with quotes",
			input:    `'a "quote"'`,
			expected: `"a \"quote\""`,
		},
		{
			name:     "Block scalar",
			input:    "text: |\n  one\n  two\n",
			expected: `{"text":"one\ntwo\n"}`,
		},
		{
			name:     "HTML is not escaped",
			input:    `a: <b>&</b>`,
			expected: `{"a":"<b>&</b>"}`,
		},
		{
			name:     "Duplicate keys are kept",
			input:    "a: 1\na: 2\n",
			expected: `{"a":1,"a":2}`,
		},
		{
			name:     "Numbers",
			input:    "[0x10, 1.5, -3, 1e21]",
			expected: `[16,1.5,-3,1e+21]`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			doc, err := yamlast.ParseYAML(tc.input)
			require.NoError(t, err)
			require.NoError(t, doc.Err())

			var buf bytes.Buffer
			err = yamlast.Format(&buf, doc.Root, tc.opts...)
			require.NoError(t, err)
			require.Equal(t, tc.expected, buf.String())
		})
	}
}

func TestFormatErrors(t *testing.T) {
	t.Run("Invalid indent", func(t *testing.T) {
		var buf bytes.Buffer
		err := yamlast.Format(&buf, nil, yamlast.Indent(-1))
		require.EqualError(t, err, "yamlast: indent must not be negative")
	})

	t.Run("Infinity has no JSON form", func(t *testing.T) {
		doc, err := yamlast.ParseYAML("a: .inf")
		require.NoError(t, err)
		_, err = doc.JSON()
		require.Error(t, err)
	})
}

func TestDocumentJSON(t *testing.T) {
	doc, err := yamlast.ParseJSON(`{"a": [1, 2,], "b": }`, yamlast.IgnoreDanglingComma())
	require.NoError(t, err)
	require.NotEmpty(t, doc.Errors)

	out, err := doc.JSON()
	require.NoError(t, err)
	require.Equal(t, `{"a":[1,2],"b":null}`, string(out))

	empty, err := yamlast.ParseJSON("")
	require.NoError(t, err)
	out, err = empty.JSON()
	require.NoError(t, err)
	require.Equal(t, "null", string(out))
}
