package yamlast

import (
	"bytes"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/adamvoss/yamlast/ast"
	"github.com/adamvoss/yamlast/internal/testutil"
)

var update = flag.Bool("update", false, "update golden files")

// render writes the tree, the diagnostics and the JSON form of doc.
func render(doc *Document) []byte {
	var buf bytes.Buffer
	_ = ast.Dump(&buf, doc.Root)
	buf.WriteString("--- diagnostics\n")
	for _, d := range doc.Diagnostics() {
		fmt.Fprintf(&buf, "%s %s %s: %s\n", d.Severity, d.Range, d.Code, d.Message)
	}
	buf.WriteString("--- json\n")
	out, err := doc.JSON(Indent(2))
	if err != nil {
		fmt.Fprintf(&buf, "error: %v\n", err)
	} else {
		buf.Write(out)
		buf.WriteString("\n")
	}
	return buf.Bytes()
}

func TestGolden(t *testing.T) {
	var names []string
	names = append(names, testutil.Names(".json")...)
	names = append(names, testutil.Names(".yaml")...)
	require.NotEmpty(t, names)

	for _, name := range names {
		t.Run(name, func(t *testing.T) {
			src, err := testutil.ReadTestData(name)
			require.NoError(t, err)

			parse := ParseYAML
			if strings.HasSuffix(name, ".json") {
				parse = ParseJSON
			}
			doc, err := parse(string(src))
			require.NoError(t, err)
			actual := render(doc)

			goldenFile := filepath.Join("testdata", name+".golden")
			if *update {
				require.NoError(t, os.MkdirAll("testdata", 0o755))
				require.NoError(t, os.WriteFile(goldenFile, actual, 0o644))
			}

			expected, err := os.ReadFile(goldenFile)
			require.NoError(t, err, "Golden file not found. Run with -update to create it.")
			require.Equal(t, string(expected), string(actual), "Output does not match golden file.")
		})
	}
}
