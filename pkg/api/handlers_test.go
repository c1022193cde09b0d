package api

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"imageboard/pkg/config"
	"imageboard/pkg/media"
	"imageboard/pkg/models"
	"imageboard/pkg/store"
)

type testEnv struct {
	srv      *httptest.Server
	client   *http.Client
	pipeline *media.Pipeline
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	require.NoError(t, store.Open(t.TempDir()))
	t.Cleanup(func() { _ = store.Close() })

	cfg := config.Defaults()
	cfg.Board.PageSize = 10
	// keep functional tests out of the limiter's way
	cfg.Security.RateLimit.RPS = 1000
	cfg.Security.RateLimit.Burst = 1000

	base := t.TempDir()
	cfg.Media.ImageDir = filepath.Join(base, "uploads", "images")
	cfg.Media.VideoDir = filepath.Join(base, "uploads", "videos")
	cfg.Media.ThumbDir = filepath.Join(base, "thumbs", "images")

	pipeline := media.New(cfg.Media)
	require.NoError(t, pipeline.EnsureDirs())

	srv := httptest.NewServer(NewServer(cfg, pipeline).Router())
	t.Cleanup(srv.Close)

	client := &http.Client{
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	return &testEnv{srv: srv, client: client, pipeline: pipeline}
}

func multipartBody(t *testing.T, fields map[string]string, fileField, fileName string, fileContent []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if fileField != "" {
		fw, err := w.CreateFormFile(fileField, fileName)
		require.NoError(t, err)
		_, err = fw.Write(fileContent)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func (e *testEnv) postThread(t *testing.T, fields map[string]string, fileName string, fileContent []byte) *http.Response {
	t.Helper()
	fileField := ""
	if fileName != "" {
		fileField = "media"
	}
	body, ct := multipartBody(t, fields, fileField, fileName, fileContent)
	resp, err := e.client.Post(e.srv.URL+"/thread", ct, body)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func pngUpload(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 320, 240))
	for x := 0; x < 320; x += 2 {
		for y := 0; y < 240; y += 2 {
			img.Set(x, y, color.RGBA{R: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func getBody(t *testing.T, c *http.Client, url string) (int, string) {
	t.Helper()
	resp, err := c.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(b)
}

func TestCreateThreadAndHomepage(t *testing.T) {
	e := newTestEnv(t)
	resp := e.postThread(t, map[string]string{"title": "hello world", "message": "first"}, "", nil)
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))

	status, body := getBody(t, e.client, e.srv.URL+"/")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "hello world")
}

func TestCreateThreadWithImage(t *testing.T) {
	e := newTestEnv(t)
	resp := e.postThread(t, map[string]string{"title": "pic", "message": "see attached"}, "photo.png", pngUpload(t))
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)

	status, body := getBody(t, e.client, e.srv.URL+"/thread/1")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "/thumbs/images/thumb_")

	entries, err := os.ReadDir(e.pipeline.ImageDir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
	thumbs, err := os.ReadDir(e.pipeline.ThumbDir)
	require.NoError(t, err)
	assert.Len(t, thumbs, 1)
}

func TestCreateThreadEmptyTitleRejected(t *testing.T) {
	e := newTestEnv(t)
	resp := e.postThread(t, map[string]string{"title": "   ", "message": "body"}, "photo.png", pngUpload(t))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// the rejected upload must not linger on disk
	entries, err := os.ReadDir(e.pipeline.ImageDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
	thumbs, err := os.ReadDir(e.pipeline.ThumbDir)
	require.NoError(t, err)
	assert.Empty(t, thumbs)
}

func TestCreateThreadUnsupportedMedia(t *testing.T) {
	e := newTestEnv(t)
	resp := e.postThread(t, map[string]string{"title": "t", "message": "m"}, "x.bmp", []byte("bmp bytes"))
	assert.Equal(t, http.StatusUnsupportedMediaType, resp.StatusCode)
}

func TestCreateThreadCorruptImage(t *testing.T) {
	e := newTestEnv(t)
	resp := e.postThread(t, map[string]string{"title": "t", "message": "m"}, "x.png", []byte("not a png"))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	entries, err := os.ReadDir(e.pipeline.ImageDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestViewMissingThread(t *testing.T) {
	e := newTestEnv(t)
	status, body := getBody(t, e.client, e.srv.URL+"/thread/99")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Contains(t, body, "Thread Not Found")
}

func TestReplyFlow(t *testing.T) {
	e := newTestEnv(t)
	resp := e.postThread(t, map[string]string{"title": "t", "message": "m"}, "", nil)
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)

	form := url.Values{"parent_id": {"1"}, "message": {"a fine reply"}}
	rresp, err := e.client.PostForm(e.srv.URL+"/reply", form)
	require.NoError(t, err)
	defer rresp.Body.Close()
	assert.Equal(t, http.StatusSeeOther, rresp.StatusCode)
	assert.Equal(t, "/thread/1", rresp.Header.Get("Location"))

	status, body := getBody(t, e.client, e.srv.URL+"/thread/1")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "a fine reply")
}

func TestReplyToMissingParent(t *testing.T) {
	e := newTestEnv(t)
	form := url.Values{"parent_id": {"7"}, "message": {"orphan"}}
	resp, err := e.client.PostForm(e.srv.URL+"/reply", form)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAPIThreadsSortedByRecency(t *testing.T) {
	e := newTestEnv(t)
	for _, title := range []string{"oldest", "newest"} {
		resp := e.postThread(t, map[string]string{"title": title, "message": "m"}, "", nil)
		require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	}

	status, body := getBody(t, e.client, e.srv.URL+"/api/threads")
	require.Equal(t, http.StatusOK, status)
	var out struct {
		Threads    []models.Thread `json:"threads"`
		Page       int             `json:"page"`
		TotalPages int             `json:"total_pages"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &out))
	require.Len(t, out.Threads, 2)
	assert.Equal(t, 1, out.Page)
	// both created within the same second at worst; ties break newest-id first
	assert.Equal(t, "newest", out.Threads[0].Title)
}

func TestAPIRepliesMissingThread(t *testing.T) {
	e := newTestEnv(t)
	status, body := getBody(t, e.client, e.srv.URL+"/api/threads/5/replies")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Contains(t, body, "not found")
}

func TestRateLimiterRejectsFloods(t *testing.T) {
	require.NoError(t, store.Open(t.TempDir()))
	t.Cleanup(func() { _ = store.Close() })

	cfg := config.Defaults()
	cfg.Security.RateLimit.RPS = 0.001
	cfg.Security.RateLimit.Burst = 2
	base := t.TempDir()
	cfg.Media.ImageDir = filepath.Join(base, "i")
	cfg.Media.VideoDir = filepath.Join(base, "v")
	cfg.Media.ThumbDir = filepath.Join(base, "t")
	pipeline := media.New(cfg.Media)
	require.NoError(t, pipeline.EnsureDirs())

	srv := httptest.NewServer(NewServer(cfg, pipeline).Router())
	defer srv.Close()

	post := func() int {
		form := url.Values{"parent_id": {"1"}, "message": {"x"}}
		resp, err := http.PostForm(srv.URL+"/reply", form)
		require.NoError(t, err)
		defer resp.Body.Close()
		_, _ = io.Copy(io.Discard, resp.Body)
		return resp.StatusCode
	}
	codes := []int{post(), post(), post()}
	assert.NotEqual(t, http.StatusTooManyRequests, codes[0])
	assert.NotEqual(t, http.StatusTooManyRequests, codes[1])
	assert.Equal(t, http.StatusTooManyRequests, codes[2])
}
