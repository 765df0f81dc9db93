package registry

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/npmtree/pkg/errs"
)

func newTestClient(t *testing.T, server *httptest.Server) *Client {
	t.Helper()
	c := NewClient(Options{BaseURL: server.URL, Timeout: time.Second})
	c.http = server.Client()
	return c
}

func TestFetchPackumentSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/left-pad", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		w.Write([]byte(`{
			"name": "left-pad",
			"dist-tags": {"latest": "1.3.0"},
			"versions": {
				"1.3.0": {"name": "left-pad", "version": "1.3.0", "dependencies": {}}
			}
		}`))
	}))
	defer server.Close()

	client := newTestClient(t, server)
	doc, err := client.FetchPackument(context.Background(), "left-pad")
	require.NoError(t, err)
	assert.Equal(t, "1.3.0", doc.DistTags["latest"])
	assert.Contains(t, doc.Versions, "1.3.0")
}

func TestFetchPackumentScopedNameEncoding(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		w.Write([]byte(`{"name":"@babel/core","dist-tags":{"latest":"7.0.0"},"versions":{"7.0.0":{}}}`))
	}))
	defer server.Close()

	client := newTestClient(t, server)
	_, err := client.FetchPackument(context.Background(), "@babel/core")
	require.NoError(t, err)
	assert.Equal(t, "/@babel%2Fcore", gotPath)
}

func TestFetchPackument404IsNotRetried(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := newTestClient(t, server)
	_, err := client.FetchPackument(context.Background(), "does-not-exist")
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.CodePackageNotFound))
	assert.Equal(t, 1, calls)
}

func TestFetchPackument5xxIsRetried(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`{"name":"flaky","dist-tags":{"latest":"1.0.0"},"versions":{"1.0.0":{}}}`))
	}))
	defer server.Close()

	client := NewClient(Options{BaseURL: server.URL, Timeout: time.Second})
	client.http = server.Client()

	doc, err := client.FetchPackument(context.Background(), "flaky")
	require.NoError(t, err)
	assert.Equal(t, "1.0.0", doc.DistTags["latest"])
	assert.Equal(t, 3, calls)
}

func TestEncodePackageName(t *testing.T) {
	assert.Equal(t, "left-pad", encodePackageName("left-pad"))
	assert.Equal(t, "@babel%2Fcore", encodePackageName("@babel/core"))

	// sanity check: the produced path segment round-trips through url.Parse.
	u, err := url.Parse("https://registry.npmjs.org/" + encodePackageName("@babel/core"))
	require.NoError(t, err)
	assert.Equal(t, "/@babel/core", u.Path)
}
