/*
Package yamlast parses JSON and YAML text into one JSON-shaped syntax tree,
so tools written against the JSON document model, such as JSON Schema
validators, completion and hover providers, work on YAML unchanged.

Both front ends return a Document: the root node of the tree, and the errors
and warnings found on the way. Malformed text never makes a parse fail; the
parsers recover, keep what they could build and report the rest as
diagnostics with byte ranges into the source.

Parsing JSON, which may contain comments:

	doc, err := yamlast.ParseJSON(`{"name": "svc", "replicas": 3,}`, yamlast.IgnoreDanglingComma())
	if err != nil {
		// invalid option
	}
	for _, d := range doc.Diagnostics() {
		fmt.Println(d.Range, d.Message)
	}

Parsing YAML into the same tree:

	doc, _ := yamlast.ParseYAML("name: svc\nreplicas: 3\n")
	node := doc.NodeAt(7, false) // the string "svc"
	fmt.Println(ast.Path(node))  // [name]

The tree is made of the node types in package ast. Every node knows its
parent, its position within the parent and its byte range; ranges of
children lie within the range of their parent. Object properties keep
source order and duplicates, which are reported as warnings.

YAML scalars are typed under the YAML 1.2 core schema: quoted and block
scalars are strings, plain scalars become null, booleans, numbers or strings
by their text. ResolveScalar and ResolvePlain expose that resolution.
Anchors, aliases, merge keys and custom tags have no counterpart in the
tree and are reported as warnings; only the first document of a stream is
converted.

A Document can be decoded into Go values with Decode, the way
encoding/json would decode the equivalent JSON, and written out as JSON
text with Format:

	var cfg struct {
		Name     string `json:"name"`
		Replicas int    `json:"replicas"`
	}
	if err := yamlast.Decode(doc, &cfg); err != nil {
		// handle error
	}
*/
package yamlast
