package engine

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/RecoveryAshes/wordcrawl/internal/core"
	"github.com/RecoveryAshes/wordcrawl/internal/crawlers"
	"github.com/RecoveryAshes/wordcrawl/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testcrawl 站点,页面之间使用相对链接
var testcrawl = map[string]string{
	"/testcrawl/index.html": `<html><body>
<a href="folder1/page1.html">f1</a> <a href="folder1/page2.html">f2</a> <a href="folder2/page1.html">f3</a>
</body></html>`,
	"/testcrawl/folder1/page1.html": `<html><body><p>The cow put f1 f2 f3</p>
<a href="folder3/page1.html">next</a> <a href="../index.html">home</a></body></html>`,
	"/testcrawl/folder1/page2.html": `<html><body><p>Put f1 f2 f3</p>
<a href="folder3/page2.html">next</a> <a href="page1.html">prev</a></body></html>`,
	"/testcrawl/folder1/folder3/page1.html": `<html><body><p>A bird f1 f2 f3</p>
<a href="page2.html">next</a></body></html>`,
	"/testcrawl/folder1/folder3/page2.html": `<html><body><p>The lawyer f1 f2 f3</p>
<a href="../../index.html">home</a></body></html>`,
}

func init() {
	var links strings.Builder
	for i := 1; i <= 6; i++ {
		fmt.Fprintf(&links, `<a href="folder4/page%d.html">p</a>`, i)
		testcrawl[fmt.Sprintf("/testcrawl/folder2/folder4/page%d.html", i)] = `<html><body>f1 f2 f3</body></html>`
	}
	testcrawl["/testcrawl/folder2/page1.html"] = `<html><body>f1 f2 f3 ` + links.String() + `</body></html>`
}

func newTestcrawlServer(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := testcrawl[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, body)
	}))
	t.Cleanup(server.Close)
	return server
}

var vocabulary = []string{"cow", "put", "bird", "lawyer", "f1", "f2", "f3", "unused"}

func newStaticEngine(t *testing.T, maxHits int, opts ...Option) *SearchEngine {
	t.Helper()
	reader := crawlers.NewStaticReader(crawlers.StaticReaderConfig{Timeout: 5 * time.Second}, nil)
	engine, err := New(maxHits, reader, vocabulary, opts...)
	require.NoError(t, err)
	return engine
}

func TestSearchEngine_BreadthFirst(t *testing.T) {
	server := newTestcrawlServer(t)
	engine := newStaticEngine(t, 40)
	assert.True(t, engine.SetBreadthFirst())

	require.NoError(t, engine.CrawlFrom(context.Background(), server.URL+"/testcrawl/index.html"))

	assert.Equal(t, 40, engine.Size())

	cow := engine.SearchHits("cow")
	require.Len(t, cow, 1)
	assert.True(t, strings.HasSuffix(cow[0], "folder1/page1.html"))
	assert.Len(t, engine.SearchHits("put"), 2)
	assert.True(t, strings.HasSuffix(engine.SearchHits("bird")[0], "folder1/folder3/page1.html"))
	assert.True(t, strings.HasSuffix(engine.SearchHits("lawyer")[0], "folder1/folder3/page2.html"))
	assert.Equal(t, cow, engine.SearchHits("  COW "), "查询不区分大小写")
	assert.NotContains(t, engine.Words(), "unused")
}

func TestSearchEngine_DepthFirst(t *testing.T) {
	server := newTestcrawlServer(t)
	engine := newStaticEngine(t, 2048)
	assert.True(t, engine.SetDepthFirst())

	require.NoError(t, engine.CrawlFrom(context.Background(), server.URL+"/testcrawl/index.html"))

	// 站点全部爬完: 12个页面,每页f1-f3,加上cow/put*2/bird/lawyer
	assert.Equal(t, 12*3+5, engine.Size())
	assert.Len(t, engine.SearchHits("put"), 2)
	assert.Equal(t, models.StrategyDepthFirst, engine.Report().Strategy)
}

func TestSearchEngine_UnknownWord(t *testing.T) {
	engine := newStaticEngine(t, 0)
	assert.Equal(t, []string{}, engine.SearchHits("nothing"))
	assert.Equal(t, []string{}, engine.SearchHits("cow"))
	assert.Zero(t, engine.Size())
}

func TestSearchEngine_CacheReturnsCopies(t *testing.T) {
	server := newTestcrawlServer(t)
	engine := newStaticEngine(t, 40, WithCacheSize(2))
	require.NoError(t, engine.CrawlFrom(context.Background(), server.URL+"/testcrawl/index.html"))
	require.Equal(t, core.StateExhausted, engine.State())

	first := engine.SearchHits("cow")
	require.NotEmpty(t, first)
	first[0] = "mutated"
	assert.NotEqual(t, "mutated", engine.SearchHits("cow")[0])
	assert.Equal(t, 1, engine.cache.Len())
}

func TestSearchEngine_SetMaxAfterCrawl(t *testing.T) {
	server := newTestcrawlServer(t)
	engine := newStaticEngine(t, 5)
	require.NoError(t, engine.SetMax(3))
	require.NoError(t, engine.CrawlFrom(context.Background(), server.URL+"/testcrawl/index.html"))
	assert.Equal(t, 3, engine.Size())

	assert.ErrorIs(t, engine.SetMax(10), models.ErrCrawlerNotIdle)
	assert.False(t, engine.SetDepthFirst(), "爬取结束后不能切换策略")
	assert.ErrorIs(t, engine.CrawlFrom(context.Background(), server.URL+"/testcrawl/index.html"), models.ErrCrawlerNotIdle)
}

func TestSearchEngine_InvalidSeed(t *testing.T) {
	engine := newStaticEngine(t, 10)
	assert.Error(t, engine.CrawlFrom(context.Background(), "ftp://example.com/"))
	assert.Equal(t, core.StateIdle, engine.State())
}

func TestSearchEngine_ProgressAndDefaultBudget(t *testing.T) {
	server := newTestcrawlServer(t)

	var visited []string
	engine := newStaticEngine(t, 0, WithProgress(func(p models.CrawlProgress) {
		visited = append(visited, p.URL)
		assert.Equal(t, models.DefaultMaxHits, p.MaxHits)
	}))
	require.NoError(t, engine.CrawlFrom(context.Background(), server.URL+"/testcrawl/folder1/folder3/page1.html"))

	assert.Equal(t, []string{
		server.URL + "/testcrawl/folder1/folder3/page1.html",
		server.URL + "/testcrawl/folder1/folder3/page2.html",
		server.URL + "/testcrawl/index.html",
	}, visited[:3])
	assert.Equal(t, 12, len(visited))
}
