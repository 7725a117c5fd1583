package seotag

import (
	"bytes"
	"encoding/json"
	"image"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// adminClient replays cookies and the CSRF token between requests.
type adminClient struct {
	t       *testing.T
	app     *App
	cookies map[string]*http.Cookie
	csrf    string
}

func newAdminClient(t *testing.T, a *App) *adminClient {
	t.Helper()
	c := &adminClient{t: t, app: a, cookies: map[string]*http.Cookie{}}
	rec := c.do(http.MethodGet, "/admin/", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "login", rec.Body.String())
	token, ok := c.cookies[csrfCookieName]
	require.True(t, ok, "admin page should set the CSRF cookie")
	c.csrf = token.Value
	return c
}

func (c *adminClient) do(method, target string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.csrf != "" {
		req.Header.Set(csrfHeader, c.csrf)
	}
	for _, ck := range c.cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	c.app.Echo.ServeHTTP(rec, req)
	for _, ck := range rec.Result().Cookies() {
		c.cookies[ck.Name] = ck
	}
	return rec
}

func (c *adminClient) postForm(target string, form url.Values) *httptest.ResponseRecorder {
	return c.do(http.MethodPost, target, strings.NewReader(form.Encode()), "application/x-www-form-urlencoded")
}

func (c *adminClient) login(password string) *httptest.ResponseRecorder {
	return c.postForm("/admin/login/", url.Values{"password": {password}})
}

func (c *adminClient) signIn() {
	c.t.Helper()
	rec := c.login("secret")
	require.Equal(c.t, http.StatusSeeOther, rec.Code)
	require.Contains(c.t, c.cookies, sessionName)
}

func (c *adminClient) upload(name string, data []byte) *httptest.ResponseRecorder {
	c.t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("image", name)
	require.NoError(c.t, err)
	_, err = part.Write(data)
	require.NoError(c.t, err)
	require.NoError(c.t, w.Close())
	return c.do(http.MethodPost, "/admin/images/upload/", &body, w.FormDataContentType())
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))))
	return buf.Bytes()
}

func TestAdminLogin(t *testing.T) {
	a := setupTestApp(t)
	c := newAdminClient(t, a)

	rec := c.login("wrong")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "login:failed", rec.Body.String())

	c.signIn()
	rec = c.do(http.MethodGet, "/admin/", nil, "")
	assert.Equal(t, "dashboard:", rec.Body.String())
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
}

func TestAdminLoginLockout(t *testing.T) {
	a := setupTestApp(t)
	c := newAdminClient(t, a)

	for i := 0; i < 5; i++ {
		rec := c.login("wrong")
		require.Equal(t, http.StatusOK, rec.Code, "attempt %d", i+1)
	}
	rec := c.login("wrong")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	rec = c.login("secret")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code, "a locked out IP cannot sign in")
	assert.NotContains(t, c.cookies, sessionName)
}

func TestAdminRejectsMissingCSRFToken(t *testing.T) {
	a := setupTestApp(t)
	c := newAdminClient(t, a)
	c.csrf = ""

	rec := c.login("secret")
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAdminSaveRequiresSession(t *testing.T) {
	a := setupTestApp(t)
	c := newAdminClient(t, a)

	rec := c.postForm("/admin/save/", url.Values{"title": {"Nope"}})
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	_, err := a.Store.GetPostAny("nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAdminSaveStoresImageOverrides(t *testing.T) {
	a := setupTestApp(t)
	c := newAdminClient(t, a)
	c.signIn()

	rec := c.postForm("/admin/save/", url.Values{
		"title":         {"Card"},
		"date":          {"2024-02-01"},
		"image":         {"default.png"},
		"image_twitter": {"tw.png"},
		"image_alt":     {"Alt"},
		"published":     {"on"},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "dashboard:saved", rec.Body.String())

	stored, err := a.Store.GetPost("card")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"path": "default.png", "twitter": "tw.png", "alt": "Alt"}, stored.Image)

	rec = get(a, "/api/image/card/")
	require.Equal(t, http.StatusOK, rec.Code)
	var resp ImageResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Found)
	assert.Equal(t, "https://site.example/blog/card/tw.png", resp.Image)
	assert.Equal(t, "tw.png", resp.Data["twitter"])
}

func TestAdminSaveRejectsBadDate(t *testing.T) {
	a := setupTestApp(t)
	c := newAdminClient(t, a)
	c.signIn()

	rec := c.postForm("/admin/save/", url.Values{"title": {"Card"}, "date": {"01/02/2024"}})
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Contains(t, rec.Header().Get("Location"), "Invalid+date")
}

func TestAdminDeletePost(t *testing.T) {
	a := setupTestApp(t, Post{Slug: "gone", Title: "Gone", Date: "2024-01-01", Published: true, Image: "x.png"})
	c := newAdminClient(t, a)
	c.signIn()

	require.Equal(t, http.StatusOK, get(a, "/api/image/gone/").Code)

	rec := c.do(http.MethodDelete, "/admin/post/gone/", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "dashboard:deleted", rec.Body.String())
	assert.Equal(t, http.StatusNotFound, get(a, "/api/image/gone/").Code)
}

func TestImageUploadRenamesCollisions(t *testing.T) {
	a := setupTestApp(t)
	c := newAdminClient(t, a)
	c.signIn()

	data := pngBytes(t, 1600, 800)
	rec := c.upload("Cover Photo.png", data)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "images:cover-photo.jpg", rec.Body.String())

	rec = c.upload("Cover Photo.png", data)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "images:cover-photo-2.jpg,cover-photo.jpg", rec.Body.String())

	images, err := a.Store.ListImages()
	require.NoError(t, err)
	for _, img := range images {
		assert.Equal(t, maxImageWidth, img.Width, "wide uploads are scaled down")
		assert.Equal(t, 600, img.Height)
		assert.FileExists(t, filepath.Join(a.staticDir, uploadsSubdir, img.Filename))
	}
}

func TestImageUploadRejectsNonImage(t *testing.T) {
	a := setupTestApp(t)
	c := newAdminClient(t, a)
	c.signIn()

	rec := c.upload("notes.png", []byte("not an image"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUniqueFilename(t *testing.T) {
	a := setupTestApp(t)
	dir := filepath.Join(a.staticDir, uploadsSubdir)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.jpg"), []byte("x"), 0o644))
	require.NoError(t, a.Store.SaveImage(Image{Filename: "a-2.jpg", UploadedAt: "2024-01-01T00:00:00Z"}))

	got, err := a.uniqueFilename("a.jpg")
	require.NoError(t, err)
	assert.Equal(t, "a-3.jpg", got)

	got, err = a.uniqueFilename("b.jpg")
	require.NoError(t, err)
	assert.Equal(t, "b.jpg", got)
}

func TestUploadName(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"cover.jpg", "cover.jpg", true},
		{"../store.db", "store.db", true},
		{"../../etc/passwd", "passwd", true},
		{"sub/dir/x.jpg", "x.jpg", true},
		{"..", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := uploadName(tt.in)
		assert.Equal(t, tt.ok, ok, "uploadName(%q)", tt.in)
		assert.Equal(t, tt.want, got, "uploadName(%q)", tt.in)
	}
}

func TestImageDeleteStaysInUploads(t *testing.T) {
	a := setupTestApp(t)
	c := newAdminClient(t, a)
	c.signIn()

	outside := filepath.Join(a.staticDir, "keep.jpg")
	require.NoError(t, os.WriteFile(outside, []byte("x"), 0o644))

	rec := c.do(http.MethodDelete, "/admin/images/..%2Fkeep.jpg/", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.FileExists(t, outside)
}
