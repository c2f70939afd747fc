package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"I Wandered Lonely as a Cloud", "i-wandered-lonely-as-a-cloud"},
		{"  Ozymandias!  ", "ozymandias"},
		{"Do not go gentle -- into that", "do-not-go-gentle-into-that"},
		{"The Tyger (1794)", "the-tyger-1794"},
		{"???", ""},
		{"-dash-", "dash"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, Slugify(c.in), c.in)
	}
}

func TestCountWordsAndLines(t *testing.T) {
	text := "I wandered lonely as a cloud\n\nThat floats on high o'er vales and hills,\n  \n"
	assert.Equal(t, 14, CountWords(text))
	assert.Equal(t, 2, CountLines(text))
	assert.Zero(t, CountWords(""))
	assert.Zero(t, CountLines(""))
}

func TestPage(t *testing.T) {
	offset, limit := page(0, 0, 20, 100)
	assert.Equal(t, 0, offset)
	assert.Equal(t, 20, limit)

	offset, limit = page(3, 500, 20, 100)
	assert.Equal(t, 200, offset)
	assert.Equal(t, 100, limit)
}
