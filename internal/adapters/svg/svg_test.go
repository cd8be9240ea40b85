package svg_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/sqip/internal/adapters/svg"
)

func readFixture(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	return string(data)
}

func TestEncoder_DataURI_Golden(t *testing.T) {
	t.Parallel()

	g := goldie.New(t)
	enc := svg.NewEncoder()

	g.Assert(t, "datauri_primitive", []byte(enc.DataURI(readFixture(t, "primitive.svg"))))
	g.Assert(t, "datauri_unicode", []byte(enc.DataURI(readFixture(t, "unicode.svg"))))
}

func TestEncoder_DataURI(t *testing.T) {
	t.Parallel()

	enc := svg.NewEncoder()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "empty",
			input: "",
			want:  svg.DataURIPrefix,
		},
		{
			name:  "collapses whitespace and swaps quotes",
			input: "  <svg  a=\"1\"\n\t>\n</svg>  ",
			want:  "data:image/svg+xml,%3csvg a='1' %3e %3c/svg%3e",
		},
		{
			name:  "keeps readable characters",
			input: `<a href="http://x/y?z=1">`,
			want:  "data:image/svg+xml,%3ca href='http://x/y%3fz=1'%3e",
		},
		{
			name:  "encodes hash and percent",
			input: `fill="#fff" 100%`,
			want:  "data:image/svg+xml,fill='%23fff' 100%25",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, enc.DataURI(tt.input))
		})
	}
}

func TestEncoder_DataURI_Deterministic(t *testing.T) {
	t.Parallel()

	enc := svg.NewEncoder()
	markup := readFixture(t, "primitive.svg")

	first := enc.DataURI(markup)
	assert.Equal(t, first, enc.DataURI(markup))
	assert.True(t, strings.HasPrefix(first, svg.DataURIPrefix))
	assert.NotContains(t, first, `"`)
	assert.NotContains(t, first, "\n")
}

func TestEnsureViewBox(t *testing.T) {
	t.Parallel()

	g := goldie.New(t)
	g.Assert(t, "viewbox_primitive", []byte(svg.EnsureViewBox(readFixture(t, "primitive.svg"))))

	withViewBox := `<svg viewBox="0 0 1 1" width="5" height="5"></svg>`
	assert.Equal(t, withViewBox, svg.EnsureViewBox(withViewBox))

	noDimensions := `<svg xmlns="http://www.w3.org/2000/svg"></svg>`
	assert.Equal(t, noDimensions, svg.EnsureViewBox(noDimensions))

	assert.Equal(t, "not svg", svg.EnsureViewBox("not svg"))
}

func TestApplyBlur(t *testing.T) {
	t.Parallel()

	g := goldie.New(t)
	primitive := readFixture(t, "primitive.svg")

	g.Assert(t, "blur_primitive", []byte(svg.ApplyBlur(svg.EnsureViewBox(primitive), 12)))
	g.Assert(t, "blur_fractional", []byte(svg.ApplyBlur(primitive, 2.5)))
	g.Assert(t, "blur_nogroup", []byte(svg.ApplyBlur(readFixture(t, "nogroup.svg"), 1)))

	assert.Equal(t, primitive, svg.ApplyBlur(primitive, 0))
	assert.Equal(t, primitive, svg.ApplyBlur(primitive, -1))
	assert.Equal(t, "<p/>", svg.ApplyBlur("<p/>", 3))
}
