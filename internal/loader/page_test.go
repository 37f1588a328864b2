package loader

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conneroisu/embedposts/internal/dom"
	"github.com/conneroisu/embedposts/internal/errors"
	"github.com/conneroisu/embedposts/internal/widget"
)

const blogPage = `<!DOCTYPE html>
<html>
<head><script src="/js/vendor.js"></script></head>
<body>
  <h2>Staff picks</h2>
  <script src="https://cdn.example.com/embed-tumblr-posts.min.js?base-hostname=staff.tumblr.com"><![CDATA[{"api_key": "k-123", "limit": 3}]]></script>
  <h2>Engineering</h2>
  <script src="/js/embed-tumblr-posts.js?limit=20;offset=5">{"base-hostname": "engineering.tumblr.com"}</script>
  <script src="/js/analytics.js"></script>
</body>
</html>`

func TestLoadPage(t *testing.T) {
	renderer := newCountingRenderer()
	l := New(Options{Renderer: renderer})

	page, err := l.LoadPage(context.Background(), strings.NewReader(blogPage), PageOptions{})
	require.NoError(t, err)
	require.Len(t, page.Inclusions, 2)

	widgets := page.Widgets()
	require.Len(t, widgets, 2)

	first, err := widgets[0].Settings().Options()
	require.NoError(t, err)
	assert.Equal(t, "k-123", first.APIKey)
	assert.Equal(t, "staff.tumblr.com", first.BaseHostname)
	assert.Equal(t, 3, first.Limit)
	assert.Equal(t, 0, first.Offset)

	second, err := widgets[1].Settings().Options()
	require.NoError(t, err)
	assert.Equal(t, "engineering.tumblr.com", second.BaseHostname)
	assert.Equal(t, 20, second.Limit)
	assert.Equal(t, 5, second.Offset)

	assert.Equal(t, "script[1]", widgets[0].Target().Key())
	assert.Equal(t, "script[2]", widgets[1].Target().Key())

	for _, w := range widgets {
		assert.Equal(t, widget.StateConstructed, w.State())
	}

	assert.True(t, page.Ready(context.Background()))
	assert.False(t, page.Ready(context.Background()))
	for _, w := range widgets {
		assert.Equal(t, widget.StateRenderingTriggered, w.State())
	}
	assert.Equal(t, 2, renderer.total())
	assert.Equal(t, dom.ReadyStateComplete, page.Window.ReadyState())
}

func TestLoadPageContinuesPastFailures(t *testing.T) {
	markup := `<script src="embed-tumblr-posts.js">not json</script>
<script src="embed-tumblr-posts.js?limit=2"></script>`

	page, err := New(Options{}).LoadPage(context.Background(), strings.NewReader(markup), PageOptions{})
	require.Error(t, err)
	assert.True(t, errors.IsConfigError(err))
	assert.Contains(t, err.Error(), "script[0]")

	require.Len(t, page.Inclusions, 2)
	assert.Error(t, page.Inclusions[0].Err)
	assert.Nil(t, page.Inclusions[0].Widget)
	assert.NoError(t, page.Inclusions[1].Err)
	assert.Len(t, page.Widgets(), 1)
}

func TestLoadPageCustomPattern(t *testing.T) {
	markup := `<script src="/widgets/posts.js?limit=1"></script><script src="embed-tumblr-posts.js"></script>`

	page, err := New(Options{}).LoadPage(context.Background(), strings.NewReader(markup),
		PageOptions{ScriptPattern: `posts\.js`})
	require.NoError(t, err)
	assert.Len(t, page.Inclusions, 2)

	_, err = New(Options{}).LoadPage(context.Background(), strings.NewReader(markup),
		PageOptions{ScriptPattern: `(`})
	assert.Error(t, err)
}

func TestLoadPageNoInclusions(t *testing.T) {
	page, err := New(Options{}).LoadPage(context.Background(), strings.NewReader(`<p>static</p>`), PageOptions{})
	require.NoError(t, err)
	assert.Empty(t, page.Inclusions)
	assert.Empty(t, page.Widgets())
}
