package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	cfg "github.com/maheshrc27/repurposer/configs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublicBase(t *testing.T) {
	assert.Equal(t, "https://cdn.example.com", publicBase(cfg.S3{PublicURL: "https://cdn.example.com/"}))
	assert.Equal(t, "http://minio:9000/files", publicBase(cfg.S3{Endpoint: "http://minio:9000", BucketName: "files"}))
	assert.Equal(t, "https://files.s3.eu-west-1.amazonaws.com", publicBase(cfg.S3{BucketName: "files", Region: "eu-west-1"}))
}

func TestS3StorageAgainstEndpoint(t *testing.T) {
	var (
		mu       sync.Mutex
		requests []string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		requests = append(requests, r.Method+" "+r.URL.Path)
		mu.Unlock()
		if r.Method == http.MethodDelete {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	storage, err := NewS3Storage(context.Background(), cfg.S3{
		Endpoint:   srv.URL,
		Region:     "auto",
		AccessKey:  "key",
		SecretKey:  "secret",
		BucketName: "files",
	})
	require.NoError(t, err)

	require.NoError(t, storage.Upload(context.Background(), "abc-notes.txt", []byte("hello"), "text/plain"))
	require.NoError(t, storage.Delete(context.Background(), "abc-notes.txt"))

	assert.Equal(t, []string{"PUT /files/abc-notes.txt", "DELETE /files/abc-notes.txt"}, requests)
	assert.Equal(t, srv.URL+"/files/abc-notes.txt", storage.PublicURL("abc-notes.txt"))
}
