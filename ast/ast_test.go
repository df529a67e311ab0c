package ast

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// buildSample builds the tree for `{"a":[1,true]}` by hand.
func buildSample() *Object {
	obj := NewObject(nil, Segment{}, 0)
	prop := NewProperty(obj, 1)
	key := NewString(prop, Segment{}, true, 1, 4)
	key.Value = "a"
	prop.SetKey(key)
	prop.ColonOffset = 4
	arr := NewArray(prop, KeySegment("a"), 5)
	num := NewNumber(arr, IndexSegment(0), 6, 7)
	num.Value = 1
	num.IsInteger = true
	arr.AddItem(num)
	arr.AddItem(NewBoolean(arr, IndexSegment(1), true, 8, 12))
	arr.SetEnd(13)
	prop.SetValue(arr)
	obj.AddProperty(prop)
	obj.SetEnd(14)
	return obj
}

func TestDump(t *testing.T) {
	expected := `object [0,14)
  property [1,13)
    key "a" [1,4)
    array [5,13)
      number 1 int [6,7)
      boolean true [8,12)
`
	require.Equal(t, expected, DumpString(buildSample()))
	require.Equal(t, "<no root>\n", DumpString(nil))
}

func TestDumpMissingValue(t *testing.T) {
	obj := NewObject(nil, Segment{}, 0)
	prop := NewProperty(obj, 1)
	key := NewString(prop, Segment{}, true, 1, 4)
	key.Value = "a"
	prop.SetKey(key)
	prop.SetEnd(7)
	obj.AddProperty(prop)
	obj.SetEnd(7)

	expected := `object [0,7)
  property [1,7)
    key "a" [1,4)
    <missing value>
`
	require.Equal(t, expected, DumpString(obj))
}

func TestNilAdds(t *testing.T) {
	obj := NewObject(nil, Segment{}, 0)
	require.False(t, obj.AddProperty(nil))
	arr := NewArray(nil, Segment{}, 0)
	require.False(t, arr.AddItem(nil))
	prop := NewProperty(obj, 0)
	require.False(t, prop.SetKey(nil))
	require.False(t, prop.SetValue(nil))
	require.Equal(t, -1, prop.Range().End)
}

func TestPropertyEndFollowsValue(t *testing.T) {
	obj := buildSample()
	prop := obj.Properties[0]
	require.Equal(t, prop.Value.Range().End, prop.Range().End)
}

func TestNodeAt(t *testing.T) {
	obj := buildSample()
	tests := []struct {
		offset   int
		right    bool
		expected Kind
	}{
		{0, false, KindObject},
		{2, false, KindString},
		{4, false, KindProperty},
		{5, false, KindArray},
		{6, false, KindNumber},
		{9, false, KindBoolean},
		{12, false, KindArray},
		{12, true, KindBoolean},
		{13, false, KindObject},
	}
	for _, tt := range tests {
		n := NodeAt(obj, tt.offset, tt.right)
		require.NotNil(t, n, "offset %d", tt.offset)
		require.Equal(t, tt.expected, n.Kind(), "offset %d", tt.offset)
	}
	require.Nil(t, NodeAt(obj, 14, false))
	require.Nil(t, NodeAt(nil, 0, false))
}

func TestPath(t *testing.T) {
	obj := buildSample()
	arr := obj.Properties[0].Value.(*Array)
	require.Equal(t, []Segment{KeySegment("a"), IndexSegment(1)}, Path(arr.Items[1]))
	require.Equal(t, []Segment{KeySegment("a")}, Path(arr))
	require.Equal(t, []Segment{KeySegment("a")}, Path(obj.Properties[0].Key))
	require.Empty(t, Path(obj))
}

func TestValue(t *testing.T) {
	require.Equal(t, map[string]any{"a": []any{float64(1), true}}, Value(buildSample()))
	require.Nil(t, Value(nil))
}

func TestWalkOrder(t *testing.T) {
	var kinds []Kind
	Walk(buildSample(), func(n Node) bool {
		kinds = append(kinds, n.Kind())
		return true
	})
	require.Equal(t, []Kind{KindObject, KindProperty, KindString, KindArray, KindNumber, KindBoolean}, kinds)

	kinds = nil
	Walk(buildSample(), func(n Node) bool {
		kinds = append(kinds, n.Kind())
		return n.Kind() != KindProperty
	})
	require.Equal(t, []Kind{KindObject, KindProperty}, kinds)
}

func TestSegmentAndKindStrings(t *testing.T) {
	require.Equal(t, "a", KeySegment("a").String())
	require.Equal(t, "3", IndexSegment(3).String())
	require.True(t, Segment{}.IsZero())
	require.True(t, IndexSegment(0).IsIndex())
	require.True(t, KeySegment("").IsKey())
	require.Equal(t, "object", KindObject.String())
	require.Equal(t, "Kind(42)", Kind(42).String())
	require.Equal(t, "[1,3)", Range{1, 3}.String())
	require.Equal(t, 0, Range{Start: 3, End: -1}.Len())
}
