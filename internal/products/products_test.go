package products

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEscapeLike(t *testing.T) {
	cases := map[string]string{
		"plain tee":   "plain tee",
		"100%":        `100\%`,
		"a_b":         `a\_b`,
		`back\slash`:  `back\\slash`,
		`%_\`:         `\%\_\\`,
		"":            "",
		"عباية كلاسيك": "عباية كلاسيك",
	}
	for in, want := range cases {
		require.Equal(t, want, escapeLike(in), in)
	}
}
