package youtube

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"lently/domain/model"
)

func TestExtractVideoID(t *testing.T) {
	c := &Client{}

	valid := map[string]string{
		"https://www.youtube.com/watch?v=dQw4w9WgXcQ":             "dQw4w9WgXcQ",
		"https://youtu.be/dQw4w9WgXcQ":                            "dQw4w9WgXcQ",
		"https://www.youtube.com/embed/dQw4w9WgXcQ":               "dQw4w9WgXcQ",
		"https://www.youtube.com/v/dQw4w9WgXcQ":                   "dQw4w9WgXcQ",
		"https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=42s":       "dQw4w9WgXcQ",
		"https://www.youtube.com/watch?list=PLx&v=dQw4w9WgXcQ":    "dQw4w9WgXcQ",
		"dQw4w9WgXcQ":                                             "dQw4w9WgXcQ",
		"https://youtu.be/a_b-C1d2E3f":                            "a_b-C1d2E3f",
	}
	for url, want := range valid {
		got, err := c.ExtractVideoID(url)
		assert.NoError(t, err, url)
		assert.Equal(t, want, got, url)
	}

	invalid := []string{
		"",
		"https://example.com/watch?v=dQw4w9WgXcQ",
		"https://www.youtube.com/watch?v=tooShort",
		"https://www.youtube.com/watch?v=waaaaaay-too-long-for-an-id",
		"not a url at all",
	}
	for _, url := range invalid {
		_, err := c.ExtractVideoID(url)
		assert.Error(t, err, url)
		assert.True(t, errors.Is(err, model.ErrInvalidSourceReference), url)
	}
}
