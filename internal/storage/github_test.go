package storage

import (
	"context"
	"crypto/sha1"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/klabast/wb-services/menu-planer/internal/config"
)

// fakeContentsAPI implements the subset of the GitHub contents API the backend uses
type fakeContentsAPI struct {
	mu    sync.Mutex
	files map[string][]byte
	puts  []githubPutRequest
	fail  bool
}

func blobSHA(data []byte) string {
	sum := sha1.Sum(data)
	return hex.EncodeToString(sum[:])
}

func (f *fakeContentsAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if r.Header.Get("Authorization") != "Bearer test-token" {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"Bad credentials"}`))
		return
	}
	if f.fail {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"message":"boom"}`))
		return
	}

	const prefix = "/repos/famille/menus/contents/"
	if !strings.HasPrefix(r.URL.Path, prefix) {
		http.NotFound(w, r)
		return
	}
	path := strings.TrimPrefix(r.URL.Path, prefix)

	switch r.Method {
	case http.MethodGet:
		if r.URL.Query().Get("ref") != "main" {
			http.Error(w, "wrong ref", http.StatusBadRequest)
			return
		}
		data, ok := f.files[path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"message":"Not Found"}`))
			return
		}
		// GitHub wraps base64 content at 60 characters
		enc := base64.StdEncoding.EncodeToString(data)
		var wrapped strings.Builder
		for len(enc) > 60 {
			wrapped.WriteString(enc[:60] + "\n")
			enc = enc[60:]
		}
		wrapped.WriteString(enc)
		_ = json.NewEncoder(w).Encode(githubContent{SHA: blobSHA(data), Content: wrapped.String(), Encoding: "base64"})
	case http.MethodPut:
		var req githubPutRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		f.puts = append(f.puts, req)
		existing, exists := f.files[path]
		if exists && req.SHA == "" {
			w.WriteHeader(http.StatusUnprocessableEntity)
			_, _ = w.Write([]byte(`{"message":"\"sha\" wasn't supplied."}`))
			return
		}
		if exists && req.SHA != blobSHA(existing) {
			w.WriteHeader(http.StatusConflict)
			_, _ = w.Write([]byte(`{"message":"sha does not match"}`))
			return
		}
		data, err := base64.StdEncoding.DecodeString(req.Content)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		f.files[path] = data
		if exists {
			w.WriteHeader(http.StatusOK)
		} else {
			w.WriteHeader(http.StatusCreated)
		}
		_, _ = w.Write([]byte(`{}`))
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func newTestGitHub(t *testing.T) (*GitHubBackend, *fakeContentsAPI) {
	t.Helper()
	api := &fakeContentsAPI{files: map[string][]byte{}}
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	b := NewGitHubBackend(config.GitHubConfig{
		Owner:  "famille",
		Repo:   "menus",
		Branch: "main",
		Token:  "test-token",
		APIURL: srv.URL + "/",
	}, srv.Client())
	return b, api
}

func TestGitHubBackendLifecycle(t *testing.T) {
	ctx := context.Background()
	b, api := newTestGitHub(t)

	_, _, err := b.Get(ctx, "data/menus.csv")
	require.ErrorIs(t, err, ErrNotFound)

	content := []byte(strings.Repeat("Annee,Semaine,Jour,Moment,Menu\n", 5))
	require.NoError(t, b.Create(ctx, "data/menus.csv", content))

	data, sha, err := b.Get(ctx, "data/menus.csv")
	require.NoError(t, err)
	assert.Equal(t, content, data)
	assert.Equal(t, blobSHA(content), sha)

	require.NoError(t, b.Update(ctx, "data/menus.csv", []byte("v2"), sha))
	data, _, err = b.Get(ctx, "data/menus.csv")
	require.NoError(t, err)
	assert.Equal(t, "v2", string(data))

	require.Len(t, api.puts, 2)
	assert.Equal(t, createCommitTitle, api.puts[0].Message)
	assert.Empty(t, api.puts[0].SHA)
	assert.Equal(t, "main", api.puts[0].Branch)
	assert.Equal(t, updateCommitTitle, api.puts[1].Message)
	assert.Equal(t, sha, api.puts[1].SHA)
}

func TestGitHubBackendCreateExisting(t *testing.T) {
	ctx := context.Background()
	b, _ := newTestGitHub(t)

	require.NoError(t, b.Create(ctx, "menus.csv", []byte("a")))
	err := b.Create(ctx, "menus.csv", []byte("b"))
	assert.True(t, errors.Is(err, ErrExists), "got %v", err)
}

func TestGitHubBackendUpdateRequiresSHA(t *testing.T) {
	b, api := newTestGitHub(t)
	err := b.Update(context.Background(), "menus.csv", []byte("x"), "")
	assert.Error(t, err)
	assert.Empty(t, api.puts)
}

func TestGitHubBackendErrors(t *testing.T) {
	ctx := context.Background()
	b, api := newTestGitHub(t)
	api.mu.Lock()
	api.fail = true
	api.mu.Unlock()

	_, _, err := b.Get(ctx, "menus.csv")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrNotFound))
	assert.Contains(t, err.Error(), "boom")

	err = b.Create(ctx, "menus.csv", []byte("x"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
}

func TestGitHubBackendBadCredentials(t *testing.T) {
	b, _ := newTestGitHub(t)
	b.token = "wrong"

	_, _, err := b.Get(context.Background(), "menus.csv")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Bad credentials")
}
