// internal/pkg/imageurl/imageurl_test.go
package imageurl

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			"share link",
			"https://drive.google.com/file/d/1AbC_d-23/view?usp=sharing",
			"https://drive.google.com/uc?export=view&id=1AbC_d-23",
		},
		{
			"open link with id query",
			"https://drive.google.com/open?id=xYz-9_8",
			"https://drive.google.com/uc?export=view&id=xYz-9_8",
		},
		{
			"non drive url passes through",
			"https://cdn.example.com/pizza.png",
			"https://cdn.example.com/pizza.png",
		},
		{
			"drive url without id passes through",
			"https://drive.google.com/drive/my-drive",
			"https://drive.google.com/drive/my-drive",
		},
		{"whitespace is trimmed", "  https://cdn.example.com/a.png  ", "https://cdn.example.com/a.png"},
		{"empty stays empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}
