package mapper

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/require"
)

type Base struct {
	ID   string `json:"id"`
	Name string
}

type sample struct {
	Base
	Name    string `json:"name,omitempty"`
	Count   int
	Skipped string `json:"-"`
	hidden  string
	*Extra
}

type Extra struct {
	Note string `json:"note"`
}

func TestFields(t *testing.T) {
	fields := Fields(reflect.TypeOf(sample{}))

	tests := []struct {
		key      string
		expected []int
		found    bool
	}{
		{"id", []int{0, 0}, true},
		{"name", []int{1}, true},
		{"Name", []int{0, 1}, true},
		{"Count", []int{2}, true},
		{"count", []int{2}, true},
		{"COUNT", []int{2}, true},
		{"note", []int{5, 0}, true},
		{"Skipped", nil, false},
		{"hidden", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			f, ok := Lookup(fields, tt.key)
			require.Equal(t, tt.found, ok)
			if tt.found {
				require.Equal(t, tt.expected, f.Index)
			}
		})
	}
}

func TestFieldsAreCached(t *testing.T) {
	typ := reflect.TypeOf(Extra{})
	first := Fields(typ)
	second := Fields(typ)
	require.Equal(t, reflect.ValueOf(first).Pointer(), reflect.ValueOf(second).Pointer())
}
