package s3store_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/phrazzld/blogrelay/internal/config"
	"github.com/phrazzld/blogrelay/internal/platform/s3store"
	"github.com/phrazzld/blogrelay/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const notFoundXML = `<?xml version="1.0" encoding="UTF-8"?>
<Error><Code>NoSuchKey</Code><Message>The specified key does not exist.</Message></Error>`

// fakeS3 serves a minimal path-style S3 API backed by a map.
type fakeS3 struct {
	mu          sync.Mutex
	objects     map[string][]byte
	contentType map[string]string
	buckets     map[string]bool
	denyPuts    bool
}

func newFakeS3(buckets ...string) *fakeS3 {
	f := &fakeS3{
		objects:     make(map[string][]byte),
		contentType: make(map[string]string),
		buckets:     make(map[string]bool),
	}
	for _, b := range buckets {
		f.buckets[b] = true
	}
	return f
}

func (f *fakeS3) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	path := strings.TrimPrefix(r.URL.Path, "/")
	bucket, key, _ := strings.Cut(path, "/")

	switch {
	case r.Method == http.MethodHead && key == "":
		if !f.buckets[bucket] {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	case r.Method == http.MethodHead:
		body, ok := f.objects[path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", f.contentType[path])
		w.Header().Set("Content-Length", strconv.Itoa(len(body)))
		w.Header().Set("ETag", `"d41d8cd98f00b204e9800998ecf8427e"`)
		w.Header().Set("Last-Modified", "Tue, 05 Nov 2024 09:07:03 GMT")
		w.WriteHeader(http.StatusOK)
	case r.Method == http.MethodPut:
		if f.denyPuts {
			w.Header().Set("Content-Type", "application/xml")
			w.WriteHeader(http.StatusForbidden)
			_, _ = io.WriteString(w, `<Error><Code>AccessDenied</Code><Message>Access Denied</Message></Error>`)
			return
		}
		body, _ := io.ReadAll(r.Body)
		f.objects[path] = body
		f.contentType[path] = r.Header.Get("Content-Type")
		w.Header().Set("ETag", `"d41d8cd98f00b204e9800998ecf8427e"`)
		w.WriteHeader(http.StatusOK)
	case r.Method == http.MethodGet:
		body, ok := f.objects[path]
		if !ok {
			w.Header().Set("Content-Type", "application/xml")
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, notFoundXML)
			return
		}
		w.Header().Set("Content-Type", f.contentType[path])
		w.Header().Set("Content-Length", strconv.Itoa(len(body)))
		w.Header().Set("ETag", `"d41d8cd98f00b204e9800998ecf8427e"`)
		w.Header().Set("Last-Modified", "Tue, 05 Nov 2024 09:07:03 GMT")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(body)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func newClient(t *testing.T, handler http.Handler) *s3store.Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := s3store.New(config.StorageConfig{
		Endpoint: strings.TrimPrefix(srv.URL, "http://"),
		Region:   "us-east-1",
		UseSSL:   false,
	}, nil)
	require.NoError(t, err)
	return client
}

func TestNew_RequiresEndpoint(t *testing.T) {
	t.Parallel()

	_, err := s3store.New(config.StorageConfig{}, nil)
	assert.Error(t, err)
}

func TestClient_PutAndGet(t *testing.T) {
	t.Parallel()

	fake := newFakeS3("blogs")
	client := newClient(t, fake)
	ctx := context.Background()

	body := []byte("Generated Blog Post:\n\nhello\n\nGenerated on: 2024-11-05 09:07:03")
	require.NoError(t, client.PutObject(ctx, "blogs", "blog-output/hello_20241105_090703.txt", body, "text/plain"))

	fake.mu.Lock()
	stored := fake.objects["blogs/blog-output/hello_20241105_090703.txt"]
	ct := fake.contentType["blogs/blog-output/hello_20241105_090703.txt"]
	fake.mu.Unlock()
	assert.Contains(t, string(stored), "Generated Blog Post:")
	assert.Equal(t, "text/plain", ct)

	fake.mu.Lock()
	fake.objects["blogs/blog-output/hello_20241105_090703.txt"] = body
	fake.mu.Unlock()

	obj, err := client.GetObject(ctx, "blogs", "blog-output/hello_20241105_090703.txt")
	require.NoError(t, err)
	assert.Equal(t, body, obj.Body)
	assert.Equal(t, "text/plain", obj.ContentType)
}

func TestClient_GetMissing(t *testing.T) {
	t.Parallel()

	client := newClient(t, newFakeS3("blogs"))

	_, err := client.GetObject(context.Background(), "blogs", "blog-output/missing.txt")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestClient_PutDenied(t *testing.T) {
	t.Parallel()

	fake := newFakeS3("blogs")
	fake.denyPuts = true
	client := newClient(t, fake)

	err := client.PutObject(context.Background(), "blogs", "blog-output/x.txt", []byte("x"), "text/plain")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Access Denied")
}

func TestClient_Ping(t *testing.T) {
	t.Parallel()

	client := newClient(t, newFakeS3("blogs"))

	assert.NoError(t, client.Ping(context.Background(), "blogs"))
	assert.Error(t, client.Ping(context.Background(), "other"))
}
