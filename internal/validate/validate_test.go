package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"devinv/internal/domain"
)

func TestID(t *testing.T) {
	cases := []struct {
		in string
		id int64
		ok bool
	}{
		{"0", 0, true},
		{" 42 ", 42, true},
		{"", 0, false},
		{"-1", 0, false},
		{"1e3", 0, false},
		{"12345678901234567890", 0, false},
		{"1;DROP", 0, false},
	}
	for _, c := range cases {
		id, ok := ID(c.in)
		assert.Equal(t, c.ok, ok, c.in)
		assert.Equal(t, c.id, id, c.in)
	}
}

func TestCount(t *testing.T) {
	assert.Equal(t, 10, Count("10", 50))
	assert.Equal(t, 1, Count("abc", 50))
	assert.Equal(t, 1, Count("0", 50))
	assert.Equal(t, 1, Count("-5", 50))
	assert.Equal(t, 50, Count("500", 50))
	assert.Equal(t, 500, Count("500", 0))
}

func TestCategory(t *testing.T) {
	c, ok := Category(" Tablet ")
	assert.True(t, ok)
	assert.Equal(t, domain.CategoryTablet, c)

	for _, bad := range []string{"", "Server", "laptop", "PC<script>"} {
		_, ok := Category(bad)
		assert.False(t, ok, bad)
	}
}
