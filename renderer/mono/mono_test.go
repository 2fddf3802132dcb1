package mono

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ByLCY/folio/document"
	"github.com/ByLCY/folio/layout"
)

func TestWideRunesTakeTwoCells(t *testing.T) {
	var r Renderer
	font := layout.Font{Size: 13}
	require.InDelta(t, 7*3, r.TextWidth(font, "abc"), 1e-9)
	require.InDelta(t, 7*4, r.TextWidth(font, "中文"), 1e-9)
	require.InDelta(t, 7*2, r.TextWidth(font, "ｱｲ"), 1e-9, "半角片假名占一格")
}

func TestMetricsScaleWithSize(t *testing.T) {
	var r Renderer
	m := r.FontMetrics(layout.Font{Size: 26})
	require.InDelta(t, 22, m.Ascent, 1e-9)
	require.InDelta(t, 4, m.Descent, 1e-9)
	require.InDelta(t, 26, m.LineHeight, 1e-9)
}

func TestRenderTextGrid(t *testing.T) {
	doc := document.New()
	s := doc.AddSection()
	s.PageSetup = document.PageSetup{PageWidth: 200, PageHeight: 25}
	p := s.AddParagraph("hello\nworld")
	p.Format.Font.Size = 10
	s.AddParagraph("next").Format.Font.Size = 10

	var r Renderer
	fd, err := layout.NewFormattedDocument(doc, layout.Options{Measurer: r, DefaultFontSize: 10})
	require.NoError(t, err)
	require.NoError(t, fd.Format(context.Background()))
	require.Equal(t, 2, fd.PageCount())

	out, err := r.Render(fd)
	require.NoError(t, err)
	pages := strings.Split(string(out), "\f")
	require.Len(t, pages, 2)
	require.Equal(t, "hello\nworld\n", pages[0])
	require.Equal(t, "next\n", pages[1])
}
