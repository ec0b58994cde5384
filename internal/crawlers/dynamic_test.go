package crawlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-rod/rod/lib/launcher"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 需要本机安装Chrome/Chromium,否则跳过
func TestDynamicReader_RendersScriptLinks(t *testing.T) {
	if testing.Short() {
		t.Skip("short模式跳过浏览器测试")
	}
	if _, found := launcher.LookPath(); !found {
		t.Skip("未找到浏览器")
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/index.html", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(`<html><body><p id="p">static cow</p><script>
var a = document.createElement('a');
a.href = 'rendered.html';
a.textContent = 'bird';
document.body.appendChild(a);
</script></body></html>`))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	reader := NewDynamicReader(DynamicReaderConfig{Timeout: 20 * time.Second, Headless: true, MaxTabs: 2}, staticHeaders{})
	defer reader.Close()

	page, err := reader.Read(context.Background(), server.URL+"/index.html")
	require.NoError(t, err)
	assert.Contains(t, page.Links, server.URL+"/rendered.html")
	assert.Contains(t, page.Words, "cow")
	assert.Contains(t, page.Words, "bird")
	assert.Equal(t, 1, reader.pool.Size())

	// 第二次读取复用同一标签页
	_, err = reader.Read(context.Background(), server.URL+"/index.html")
	require.NoError(t, err)
	assert.Equal(t, 1, reader.pool.Size())
}

func TestDynamicReader_CloseWithoutLaunch(t *testing.T) {
	reader := NewDynamicReader(DynamicReaderConfig{}, nil)
	assert.NoError(t, reader.Close())
	assert.Nil(t, reader.extraHeaders())
}

func TestDynamicReader_ExtraHeaders(t *testing.T) {
	reader := NewDynamicReader(DynamicReaderConfig{}, staticHeaders{
		"X-Token":         []string{"abc"},
		"Accept-Encoding": []string{"br"},
	})
	assert.Equal(t, []string{"X-Token", "abc"}, reader.extraHeaders())
}
