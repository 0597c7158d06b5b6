package websearch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/novagate/novagate/internal/domain/entities"
)

const fixturePage = `<!DOCTYPE html><html><body>
<div class="results">
  <div class="result results_links results_links_deep web-result">
    <h2 class="result__title">
      <a class="result__a" href="//duckduckgo.com/l/?uddg=https%3A%2F%2Fexample.com%2Fstory&amp;rut=abc123">Big Launch Announced</a>
    </h2>
    <a class="result__snippet" href="https://example.com/story">The launch happened this morning and covers three regions.</a>
    <span class="result__timestamp">2024-03-05</span>
  </div>
  <div class="result results_links results_links_deep web-result">
    <h2 class="result__title">
      <a class="result__a" href="https://example.com/empty">No Snippet Here</a>
    </h2>
  </div>
  <div class="result results_links results_links_deep web-result">
    <h2 class="result__title">
      <a class="result__a" href="https://example.com/second">Second Story</a>
    </h2>
    <a class="result__snippet" href="https://example.com/second">Another snippet, undated.</a>
  </div>
</div>
</body></html>`

func newFixtureServer(t *testing.T, freshPage, generalPage string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("df") == "w" {
			w.Write([]byte(freshPage))
			return
		}
		w.Write([]byte(generalPage))
	}))
}

func TestSearch_ParsesResults(t *testing.T) {
	srv := newFixtureServer(t, "", fixturePage)
	defer srv.Close()
	d := NewDuckDuckGo(nil, WithEndpoint(srv.URL))

	items, err := d.Search(context.Background(), "big launch", 5, false)

	require.NoError(t, err)
	require.Len(t, items, 2, "snippet-less result is discarded")

	assert.Equal(t, "Big Launch Announced", items[0].Title)
	assert.Equal(t, "https://example.com/story", items[0].URL, "redirect link unwrapped")
	assert.Equal(t, "The launch happened this morning and covers three regions.", items[0].Snippet)
	assert.Equal(t, "2024-03-05", items[0].Published)
	assert.Equal(t, entities.EngineText, items[0].Engine)

	assert.Equal(t, "Second Story", items[1].Title)
	assert.Equal(t, "", items[1].Published)
}

func TestSearch_TopKLimit(t *testing.T) {
	srv := newFixtureServer(t, "", fixturePage)
	defer srv.Close()
	d := NewDuckDuckGo(nil, WithEndpoint(srv.URL))

	items, err := d.Search(context.Background(), "big launch", 1, false)

	require.NoError(t, err)
	require.Len(t, items, 1)
}

func TestSearch_FreshOnlyUsesNewsEngine(t *testing.T) {
	srv := newFixtureServer(t, fixturePage, "<html><body></body></html>")
	defer srv.Close()
	d := NewDuckDuckGo(nil, WithEndpoint(srv.URL))

	items, err := d.Search(context.Background(), "latest news", 5, true)

	require.NoError(t, err)
	require.NotEmpty(t, items)
	assert.Equal(t, entities.EngineNews, items[0].Engine)
}

func TestSearch_FreshOnlyFallsBackToGeneral(t *testing.T) {
	srv := newFixtureServer(t, "<html><body></body></html>", fixturePage)
	defer srv.Close()
	d := NewDuckDuckGo(nil, WithEndpoint(srv.URL))

	items, err := d.Search(context.Background(), "latest news", 5, true)

	require.NoError(t, err)
	require.NotEmpty(t, items)
	assert.Equal(t, entities.EngineText, items[0].Engine)
}

func TestSearch_EngineFailureDegradesToEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()
	d := NewDuckDuckGo(nil, WithEndpoint(srv.URL))

	items, err := d.Search(context.Background(), "anything", 5, false)

	require.NoError(t, err, "engine failures must not surface")
	assert.Empty(t, items)
}
