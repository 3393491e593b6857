package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectModelLinks(t *testing.T) {
	tests := []struct {
		name     string
		html     string
		expected []string
	}{
		{
			name: "strict pattern with relative hrefs",
			html: `<html><body>
				<a href="/designer/The%20Kit%20Kiln/3d-model/1989-batmobile-kit-123456">Batmobile</a>
				<a href="/designer/The%20Kit%20Kiln/3d-model/at-at-chunker-789012">AT-AT</a>
				<a href="/designer/The%20Kit%20Kiln/about">About</a>
			</body></html>`,
			expected: []string{
				"https://thangs.com/designer/The%20Kit%20Kiln/3d-model/1989-batmobile-kit-123456",
				"https://thangs.com/designer/The%20Kit%20Kiln/3d-model/at-at-chunker-789012",
			},
		},
		{
			name: "strict pattern with absolute hrefs",
			html: `<a href="https://thangs.com/designer/someone/3d-model/widget-42">widget</a>`,
			expected: []string{
				"https://thangs.com/designer/someone/3d-model/widget-42",
			},
		},
		{
			name: "duplicates collapse",
			html: `<div>
				<a href="/designer/kiln/3d-model/thing-7">a</a>
				<a href="/designer/kiln/3d-model/thing-7">b</a>
			</div>`,
			expected: []string{
				"https://thangs.com/designer/kiln/3d-model/thing-7",
			},
		},
		{
			name: "strict match requires trailing numeric id",
			html: `<a href="/designer/kiln/3d-model/no-id-here">x</a>
			       <a href="/designer/kiln/3d-model/real-one-99">y</a>`,
			expected: []string{
				"https://thangs.com/designer/kiln/3d-model/real-one-99",
			},
		},
		{
			name: "loose fallback when no strict match",
			html: `<a href="/m/3d-model/mystery-layout">x</a>
			       <a href="/somewhere/else">y</a>`,
			expected: []string{
				"https://thangs.com/m/3d-model/mystery-layout",
			},
		},
		{
			name:     "no model links at all",
			html:     `<a href="/about">about</a><p>nothing here</p>`,
			expected: nil,
		},
		{
			name: "query strings break the strict match",
			html: `<a href="/designer/kiln/3d-model/thing-7?ref=home">x</a>`,
			expected: []string{
				"https://thangs.com/designer/kiln/3d-model/thing-7?ref=home",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			links, err := CollectModelLinks(tt.html)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, links)
		})
	}
}

func TestCollectModelLinksSorted(t *testing.T) {
	html := `<a href="/designer/kiln/3d-model/zebra-2">z</a>
	         <a href="/designer/kiln/3d-model/aardvark-1">a</a>`

	links, err := CollectModelLinks(html)
	require.NoError(t, err)
	require.Len(t, links, 2)
	assert.Equal(t, "https://thangs.com/designer/kiln/3d-model/aardvark-1", links[0])
	assert.Equal(t, "https://thangs.com/designer/kiln/3d-model/zebra-2", links[1])
}
