package testkit

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// Client talks to a handler through a real listener and keeps cookies
// between calls, like a browser session.
type Client struct {
	t    *testing.T
	srv  *httptest.Server
	http *http.Client
}

func NewClient(t *testing.T, h http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &Client{t: t, srv: srv, http: &http.Client{Jar: jar}}
}

// URL returns the server's base URL.
func (c *Client) URL() string { return c.srv.URL }

// Jar returns the cookies collected so far, for dialers that need them.
func (c *Client) Jar() http.CookieJar { return c.http.Jar }

// Response is a fully read reply.
type Response struct {
	Status int
	Header http.Header
	Body   []byte
}

// Decode unmarshals the body into v.
func (r *Response) Decode(t *testing.T, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(r.Body, v), "body: %s", r.Body)
}

// Map decodes the body as a JSON object.
func (r *Response) Map(t *testing.T) map[string]any {
	t.Helper()
	var out map[string]any
	r.Decode(t, &out)
	return out
}

// Do sends a request with an optional body and Accept: application/json.
func (c *Client) Do(method, path, contentType string, body io.Reader) *Response {
	c.t.Helper()
	req, err := http.NewRequest(method, c.srv.URL+path, body)
	require.NoError(c.t, err)
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	return c.send(req)
}

// Page sends a GET without asking for JSON, the way a browser would.
func (c *Client) Page(path string) *Response {
	c.t.Helper()
	req, err := http.NewRequest(http.MethodGet, c.srv.URL+path, nil)
	require.NoError(c.t, err)
	req.Header.Set("Accept", "text/html")
	return c.send(req)
}

// Form posts url-encoded values asking for HTML, the way a browser form
// does.
func (c *Client) Form(path string, values url.Values) *Response {
	c.t.Helper()
	req, err := http.NewRequest(http.MethodPost, c.srv.URL+path, strings.NewReader(values.Encode()))
	require.NoError(c.t, err)
	req.Header.Set("Accept", "text/html")
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.send(req)
}

func (c *Client) send(req *http.Request) *Response {
	c.t.Helper()
	resp, err := c.http.Do(req)
	require.NoError(c.t, err)
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	require.NoError(c.t, err)
	return &Response{Status: resp.StatusCode, Header: resp.Header, Body: b}
}

// JSON sends v encoded as JSON. A nil v sends no body.
func (c *Client) JSON(method, path string, v any) *Response {
	c.t.Helper()
	if v == nil {
		return c.Do(method, path, "", nil)
	}
	b, err := json.Marshal(v)
	require.NoError(c.t, err)
	return c.Do(method, path, "application/json", bytes.NewReader(b))
}

// File is one part of a multipart upload.
type File struct {
	Field string
	Name  string
	Data  []byte
}

// Multipart sends fields and files as multipart/form-data.
func (c *Client) Multipart(method, path string, fields map[string]string, files ...File) *Response {
	c.t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(c.t, mw.WriteField(k, v))
	}
	for _, f := range files {
		fw, err := mw.CreateFormFile(f.Field, f.Name)
		require.NoError(c.t, err)
		_, err = fw.Write(f.Data)
		require.NoError(c.t, err)
	}
	require.NoError(c.t, mw.Close())
	return c.Do(method, path, mw.FormDataContentType(), &buf)
}
