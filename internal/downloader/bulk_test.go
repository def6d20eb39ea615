package downloader

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"redditminer/pkg/logger"
)

func TestFilenameFor(t *testing.T) {
	tests := []struct {
		url  string
		n    int
		want string
	}{
		{"https://i.redd.it/abc123.jpg", 1, "abc123.jpg"},
		{"https://preview.redd.it/xyz.png?width=1080&format=png&s=deadbeef", 2, "xyz.png"},
		{"https://i.imgur.com/", 3, "image_3.jpg"},
		{"https://i.imgur.com", 4, "image_4.jpg"},
		{"://not a url", 5, "image_5.jpg"},
		{"https://example.com/a%3Fb.gif", 6, "a_b.gif"},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.want, FilenameFor(tt.url, tt.n))
		})
	}
}

func TestPlanJobs(t *testing.T) {
	jobs, dupes := planJobs([]string{
		"https://i.redd.it/a.jpg",
		"https://preview.redd.it/a.jpg?s=1",
		"https://i.redd.it/a.jpg",
		"https://i.redd.it/",
	})

	assert.Equal(t, 1, dupes)
	require.Len(t, jobs, 3)
	assert.Equal(t, "a.jpg", jobs[0].Filename)
	assert.Equal(t, "a_2.jpg", jobs[1].Filename)
	assert.Equal(t, "image_4.jpg", jobs[2].Filename)
}

func TestReadURLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "urls.txt")
	require.NoError(t, os.WriteFile(path, []byte("  https://i.redd.it/a.jpg  \n\n\r\nhttps://i.redd.it/b.png\r\n"), 0644))

	urls, err := ReadURLFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://i.redd.it/a.jpg", "https://i.redd.it/b.png"}, urls)

	_, err = ReadURLFile(filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
}

func TestDownloadFromFile(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		switch {
		case strings.HasSuffix(r.URL.Path, "/missing.jpg"):
			w.WriteHeader(http.StatusNotFound)
		default:
			_, _ = w.Write([]byte("img:" + r.URL.Path))
		}
	}))
	defer server.Close()

	dir := t.TempDir()
	outDir := filepath.Join(dir, "images")
	require.NoError(t, os.MkdirAll(outDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(outDir, "existing.png"), []byte("old"), 0644))

	urlFile := filepath.Join(dir, "urls.txt")
	lines := []string{
		server.URL + "/one.jpg",
		server.URL + "/two.png?width=640&s=1",
		server.URL + "/missing.jpg",
		server.URL + "/existing.png",
		"",
	}
	require.NoError(t, os.WriteFile(urlFile, []byte(strings.Join(lines, "\n")), 0644))

	var seen int32
	summary, err := DownloadFromFile(urlFile, outDir, 3, &Options{
		RetryAttempts: 2,
		Backoff:       fastRetry,
		Logger:        logger.NewNopLogger(),
		OnResult:      func(DownloadResult) { atomic.AddInt32(&seen, 1) },
	})
	require.NoError(t, err)

	assert.Equal(t, 4, summary.Total)
	assert.Equal(t, 2, summary.Succeeded)
	assert.Equal(t, 1, summary.Skipped)
	assert.Equal(t, 1, summary.Failed)
	require.Len(t, summary.Failures, 1)
	assert.Equal(t, "missing.jpg", summary.Failures[0].Filename)
	assert.Error(t, summary.Failures[0].Err)
	assert.Equal(t, int32(4), atomic.LoadInt32(&seen))
	assert.Equal(t, int32(3), atomic.LoadInt32(&hits), "existing file is not fetched and 404 is not retried")

	data, err := os.ReadFile(filepath.Join(outDir, "two.png"))
	require.NoError(t, err)
	assert.Equal(t, "img:/two.png", string(data))

	old, err := os.ReadFile(filepath.Join(outDir, "existing.png"))
	require.NoError(t, err)
	assert.Equal(t, "old", string(old))
}

func TestDownloadFailsWhenOutputDirCannotBeCreated(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, nil, 0644))

	_, err := Download([]string{"https://i.redd.it/a.jpg"}, filepath.Join(blocker, "images"), 2, &Options{
		Logger: logger.NewNopLogger(),
	})
	assert.Error(t, err)
}

func TestDownloadEmptyList(t *testing.T) {
	summary, err := Download(nil, t.TempDir(), 4, &Options{Logger: logger.NewNopLogger()})
	require.NoError(t, err)
	assert.Equal(t, &Summary{}, summary)
}
