package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClamp(t *testing.T) {
	cases := []struct {
		name       string
		page, size int
		want       Query
	}{
		{"valid", 3, 20, Query{Page: 3, Size: 20}},
		{"zero page", 0, 20, Query{Page: 1, Size: 20}},
		{"negative", -2, -5, Query{Page: 1, Size: 10}},
		{"oversize", 1, 5000, Query{Page: 1, Size: 100}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Clamp(tc.page, tc.size))
		})
	}
}
