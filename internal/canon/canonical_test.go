package canon

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshal_Scalars(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"string", "hello", `"hello"`},
		{"int", 42, `42`},
		{"int64", int64(-7), `-7`},
		{"bool true", true, `true`},
		{"bool false", false, `false`},
		{"empty array", []any{}, `[]`},
		{"empty object", map[string]any{}, `{}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Marshal(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestMarshal_ObjectKeysSorted(t *testing.T) {
	got, err := Marshal(map[string]any{
		"seq":    int64(3),
		"detail": "x",
		"kind":   "marked",
		"object": "pool",
	})
	require.NoError(t, err)
	assert.Equal(t,
		`{"detail":"x","kind":"marked","object":"pool","seq":3}`,
		string(got))
}

func TestMarshal_KeysSortedByUTF16CodeUnits(t *testing.T) {
	// U+FF01 (FULLWIDTH EXCLAMATION) is a single code unit 0xFF01;
	// U+10000 encodes as the surrogate pair 0xD800 0xDC00. In UTF-16 order
	// the supplementary character sorts first, the opposite of byte order.
	got, err := Marshal(map[string]any{
		"！": int64(1),
		"\U00010000": int64(2),
	})
	require.NoError(t, err)
	assert.Equal(t, "{\"\U00010000\":2,\"！\":1}", string(got))
}

func TestMarshal_NoHTMLEscaping(t *testing.T) {
	got, err := Marshal("<a> & </a>")
	require.NoError(t, err)
	assert.Equal(t, `"<a> & </a>"`, string(got))
}

func TestMarshal_NFCNormalization(t *testing.T) {
	// Decomposed e + combining acute normalizes to precomposed U+00E9.
	got, err := Marshal("café")
	require.NoError(t, err)
	assert.Equal(t, "\"café\"", string(got))
}

func TestMarshal_LineSeparatorsUnescaped(t *testing.T) {
	got, err := Marshal("a b c")
	require.NoError(t, err)
	assert.Equal(t, "\"a b c\"", string(got))
}

func TestMarshal_RejectsFloatsAndNull(t *testing.T) {
	_, err := Marshal(3.14)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "floats are forbidden")

	_, err = Marshal(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "null is forbidden")

	_, err = Marshal(map[string]any{"bad": nil})
	require.Error(t, err)

	_, err = Marshal([]any{1.5})
	require.Error(t, err)
}

func TestMarshal_NestedStructure(t *testing.T) {
	got, err := Marshal(map[string]any{
		"trace": []any{
			map[string]any{"seq": int64(1), "kind": "created", "object": "p"},
			map[string]any{"seq": int64(2), "kind": "destroyed", "object": "p"},
		},
		"scenario_name": "basic",
	})
	require.NoError(t, err)
	assert.Equal(t,
		`{"scenario_name":"basic","trace":[{"kind":"created","object":"p","seq":1},{"kind":"destroyed","object":"p","seq":2}]}`,
		string(got))
}
