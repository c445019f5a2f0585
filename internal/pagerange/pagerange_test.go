package pagerange

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveAll(t *testing.T) {
	for n := 0; n <= 12; n++ {
		got, err := Resolve(All, "", n)
		require.NoError(t, err)
		require.Len(t, got, n)
		for i, idx := range got {
			assert.Equal(t, i, idx)
		}
	}
}

func TestResolveFirstLast(t *testing.T) {
	got, err := Resolve(First, "", 7)
	require.NoError(t, err)
	assert.Equal(t, []int{0}, got)

	got, err = Resolve(Last, "", 7)
	require.NoError(t, err)
	assert.Equal(t, []int{6}, got)

	got, err = Resolve(First, "", 0)
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = Resolve(Last, "", 0)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestResolveCustom(t *testing.T) {
	tests := []struct {
		expr  string
		pages int
		want  []int
	}{
		{"2-4", 10, []int{1, 2, 3}},
		{"1,3,5", 10, []int{0, 2, 4}},
		{"1,3,99", 5, []int{0, 2}},
		{"3-99", 5, []int{2, 3, 4}},
		{" 2 - 3 ", 5, []int{1, 2}},
		{"5,1,5,3", 5, []int{0, 2, 4}},
		{"0", 5, []int{}},
		{"0-2", 5, []int{0, 1}},
		{"7-9", 5, []int{}},
		{"1", 0, []int{}},
		{"4-4", 4, []int{3}},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			got, err := Resolve(Custom, tt.expr, tt.pages)
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Resolve(%q, %d) mismatch (-want +got):\n%s", tt.expr, tt.pages, diff)
			}
		})
	}
}

func TestResolveCustomInvalid(t *testing.T) {
	for _, expr := range []string{"", "   ", "5-2", "a", "1,b", "1,,2", "1-2-3", "-3", "1-", "2,4-6"} {
		t.Run(expr, func(t *testing.T) {
			_, err := Resolve(Custom, expr, 10)
			assert.ErrorIs(t, err, ErrInvalidRange)
		})
	}
}

func TestParseMode(t *testing.T) {
	for in, want := range map[string]Mode{
		"":               All,
		"All pages":      All,
		"first":          First,
		"Last page only": Last,
		"Custom range":   Custom,
		"custom":         Custom,
	} {
		got, err := ParseMode(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseMode("odd pages")
	assert.Error(t, err)
}

func TestSelectionResolve(t *testing.T) {
	got, err := Selection{Mode: Custom, Expr: "2-3"}.Resolve(3)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, got)
}
