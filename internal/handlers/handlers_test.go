package handlers

import (
	"context"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blog/internal/auth"
	"blog/internal/blog"
	"blog/internal/db"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	dbc, err := db.Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { dbc.Close() })

	h := New(blog.NewStore(dbc), auth.NewCredentials(dbc), auth.NewManager(dbc, time.Hour))
	srv := httptest.NewServer(h.Routes())
	t.Cleanup(srv.Close)
	return srv
}

// newClient returns a client with its own cookie jar, standing in for
// one browser.
func newClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{Jar: jar}
}

func get(t *testing.T, c *http.Client, u string) (string, int) {
	t.Helper()
	resp, err := c.Get(u)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(body), resp.StatusCode
}

func postForm(t *testing.T, c *http.Client, u string, form url.Values) (string, int) {
	t.Helper()
	resp, err := c.PostForm(u, form)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(body), resp.StatusCode
}

func signup(t *testing.T, c *http.Client, base, username, password string) {
	t.Helper()
	_, code := postForm(t, c, base+"/auth/register", url.Values{"username": {username}, "password": {password}})
	require.Equal(t, http.StatusOK, code)
	_, code = postForm(t, c, base+"/auth/login", url.Values{"username": {username}, "password": {password}})
	require.Equal(t, http.StatusOK, code)
}

func TestIndexAnonymous(t *testing.T) {
	srv := newTestServer(t)
	body, code := get(t, newClient(t), srv.URL+"/")
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, "Posts")
	assert.Contains(t, body, "Log In")
}

func TestProtectedRoutesRedirectToLogin(t *testing.T) {
	srv := newTestServer(t)
	c := newClient(t)

	for _, path := range []string{"/create", "/1/update"} {
		body, code := get(t, c, srv.URL+path)
		assert.Equal(t, http.StatusOK, code)
		assert.Contains(t, body, `action="/auth/login"`, "GET %s should land on the login form", path)
	}
}

func TestRegisterValidation(t *testing.T) {
	srv := newTestServer(t)
	c := newClient(t)

	signup(t, c, srv.URL, "alice", "secret")

	t.Run("duplicate username", func(t *testing.T) {
		body, code := postForm(t, c, srv.URL+"/auth/register", url.Values{
			"username": {"alice"}, "password": {"other"},
		})
		assert.Equal(t, http.StatusOK, code)
		assert.Contains(t, body, "already registered")
	})

	t.Run("empty field", func(t *testing.T) {
		body, code := postForm(t, c, srv.URL+"/auth/register", url.Values{
			"username": {""}, "password": {"x"},
		})
		assert.Equal(t, http.StatusOK, code)
		assert.Contains(t, body, "required")
	})
}

func TestLoginWrongPassword(t *testing.T) {
	srv := newTestServer(t)
	c := newClient(t)

	signup(t, c, srv.URL, "alice", "secret")

	body, code := postForm(t, c, srv.URL+"/auth/login", url.Values{
		"username": {"alice"}, "password": {"wrong"},
	})
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, "incorrect username or password")
}

func TestBlogFlow(t *testing.T) {
	srv := newTestServer(t)
	alice := newClient(t)
	bob := newClient(t)

	signup(t, alice, srv.URL, "alice", "secret")
	signup(t, bob, srv.URL, "hunter", "2")

	// alice writes the first post; AUTOINCREMENT makes its id 1.
	body, code := postForm(t, alice, srv.URL+"/create", url.Values{
		"title": {"Hi"}, "body": {"World"},
	})
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, "Hi")
	assert.Contains(t, body, "World")
	assert.Contains(t, body, "by alice")

	t.Run("listing is public", func(t *testing.T) {
		body, code := get(t, newClient(t), srv.URL+"/")
		assert.Equal(t, http.StatusOK, code)
		assert.Contains(t, body, "Hi")
	})

	t.Run("newest post listed first", func(t *testing.T) {
		_, code := postForm(t, alice, srv.URL+"/create", url.Values{
			"title": {"Later"}, "body": {""},
		})
		require.Equal(t, http.StatusOK, code)

		body, _ := get(t, alice, srv.URL+"/")
		assert.Less(t, strings.Index(body, "Later"), strings.Index(body, "Hi"))
	})

	t.Run("non-author cannot update", func(t *testing.T) {
		resp, err := bob.PostForm(srv.URL+"/1/update", url.Values{
			"title": {"Hijacked"}, "body": {""},
		})
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("non-author cannot delete", func(t *testing.T) {
		resp, err := bob.PostForm(srv.URL+"/1/delete", nil)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("author updates", func(t *testing.T) {
		body, code := postForm(t, alice, srv.URL+"/1/update", url.Values{
			"title": {"Hi again"}, "body": {"Still here"},
		})
		assert.Equal(t, http.StatusOK, code)
		assert.Contains(t, body, "Hi again")
	})

	t.Run("author deletes", func(t *testing.T) {
		body, code := postForm(t, alice, srv.URL+"/1/delete", nil)
		assert.Equal(t, http.StatusOK, code)
		assert.NotContains(t, body, "Hi again")
	})

	t.Run("missing post is 404", func(t *testing.T) {
		resp, err := alice.PostForm(srv.URL+"/1/delete", nil)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestUpdateFormChecksOwnership(t *testing.T) {
	srv := newTestServer(t)
	alice := newClient(t)
	bob := newClient(t)

	signup(t, alice, srv.URL, "alice", "secret")
	signup(t, bob, srv.URL, "hunter", "2")

	_, code := postForm(t, alice, srv.URL+"/create", url.Values{
		"title": {"Hi"}, "body": {"World"},
	})
	require.Equal(t, http.StatusOK, code)

	t.Run("author sees prefilled form", func(t *testing.T) {
		body, code := get(t, alice, srv.URL+"/1/update")
		assert.Equal(t, http.StatusOK, code)
		assert.Contains(t, body, `value="Hi"`)
	})

	t.Run("other user gets 403", func(t *testing.T) {
		resp, err := bob.Get(srv.URL + "/1/update")
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("missing id gets 404", func(t *testing.T) {
		resp, err := alice.Get(srv.URL + "/99/update")
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestLogout(t *testing.T) {
	srv := newTestServer(t)
	c := newClient(t)

	signup(t, c, srv.URL, "alice", "secret")

	body, _ := get(t, c, srv.URL+"/")
	assert.Contains(t, body, "Log Out")

	body, code := get(t, c, srv.URL+"/auth/logout")
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, "Log In")

	// Session is gone server-side, protected routes bounce again.
	body, _ = get(t, c, srv.URL+"/create")
	assert.Contains(t, body, `action="/auth/login"`)
}
