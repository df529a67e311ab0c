package token

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLookupIdent(t *testing.T) {
	tests := []struct {
		input    string
		expected Type
	}{
		{"true", TRUE},
		{"false", FALSE},
		{"null", NULL},
		{"True", UNKNOWN},
		{"foobar", UNKNOWN},
		{"nul", UNKNOWN},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			actual := LookupIdent(tt.input)
			require.Equal(t, tt.expected, actual)
		})
	}
}

func TestIsTrivia(t *testing.T) {
	for _, typ := range []Type{LINE_COMMENT, BLOCK_COMMENT, LINE_BREAK, TRIVIA} {
		require.True(t, typ.IsTrivia(), typ)
	}
	for _, typ := range []Type{STRING, NUMBER, LBRACE, UNKNOWN, EOF} {
		require.False(t, typ.IsTrivia(), typ)
	}
}

func TestTokenBounds(t *testing.T) {
	tok := Token{Type: STRING, Literal: `"ab"`, Value: "ab", Offset: 3}
	require.Equal(t, 4, tok.Len())
	require.Equal(t, 7, tok.End())
}
