package key

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want []int
	}{
		{"", []int{}},
		{"   ", []int{}},
		{"1", []int{1}},
		{"3,1,4", []int{3, 1, 4}},
		{"3, 1 4", []int{3, 1, 4}},
		{"\t10,,20\n", []int{10, 20}},
		{"-2,300", []int{-2, 300}},
	} {
		t.Run(tc.in, func(t *testing.T) {
			have, err := Parse(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.want, have)
		})
	}
}

func TestParseError(t *testing.T) {
	for _, in := range []string{"a", "1,b", "1.5", "0x10"} {
		_, err := Parse(in)
		assert.ErrorIs(t, err, ErrSyntax, in)
	}
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "", Format(nil))
	assert.Equal(t, "3,1,4", Format([]int{3, 1, 4}))

	k, err := Parse(Format([]int{7, 0, 128}))
	require.NoError(t, err)
	assert.Equal(t, []int{7, 0, 128}, k)
}
