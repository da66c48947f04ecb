package github_test

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ghAdapter "github.com/AranL152/GeetCode/internal/adapter/driven/github"
	"github.com/AranL152/GeetCode/internal/domain/model"
	"github.com/AranL152/GeetCode/internal/domain/port/driven"
)

// newTestClient creates a Client backed by the given httptest handler.
func newTestClient(t *testing.T, handler http.Handler) *ghAdapter.Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := ghAdapter.NewClientWithHTTPClient(server.Client(), server.URL+"/")
	require.NoError(t, err)

	return client
}

// contentJSON builds a GitHub contents API file response body.
func contentJSON(t *testing.T, sha string, content []byte) []byte {
	t.Helper()

	body, err := json.Marshal(map[string]any{
		"type":     "file",
		"encoding": "base64",
		"sha":      sha,
		"content":  base64.StdEncoding.EncodeToString(content),
	})
	require.NoError(t, err)
	return body
}

var testRepo = model.RepoRef{Owner: "alice", Name: "solutions"}

func TestVerify_Success(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/user", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"login":"alice","id":1}`))
	})

	client := newTestClient(t, handler)
	err := client.Verify(context.Background())

	require.NoError(t, err)
}

func TestVerify_Unauthorized(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"Bad credentials"}`))
	})

	client := newTestClient(t, handler)
	err := client.Verify(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, driven.ErrUnauthorized)
}

func TestVerify_TransportFailureIsError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	client, err := ghAdapter.NewClientWithHTTPClient(server.Client(), server.URL+"/")
	require.NoError(t, err)
	server.Close() // Connection refused from here on.

	err = client.Verify(context.Background())

	require.Error(t, err)
	assert.NotErrorIs(t, err, driven.ErrUnauthorized)
}

func TestFetchProfile_MapsUser(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"login": "alice",
			"id": 42,
			"avatar_url": "https://avatars.example/alice",
			"name": "Alice",
			"html_url": "https://github.com/alice"
		}`))
	})

	client := newTestClient(t, handler)
	profile, err := client.FetchProfile(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "alice", profile.Login)
	assert.Equal(t, int64(42), profile.ID)
	assert.Equal(t, "https://avatars.example/alice", profile.AvatarURL)
	assert.Equal(t, "Alice", profile.Name)
	assert.Equal(t, "https://github.com/alice", profile.HTMLURL)
}

func TestGetFileState_Found(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/alice/solutions/contents/Two Sum.py", r.URL.Path)
		assert.Equal(t, "main", r.URL.Query().Get("ref"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(contentJSON(t, "abc123", []byte("print(1)")))
	})

	client := newTestClient(t, handler)
	state, err := client.GetFileState(context.Background(), testRepo, "Two Sum.py", "main")

	require.NoError(t, err)
	assert.True(t, state.Exists)
	assert.Equal(t, "abc123", state.SHA)
	assert.Equal(t, []byte("print(1)"), state.Content)
}

func TestGetFileState_NotFound(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"Not Found"}`))
	})

	client := newTestClient(t, handler)
	state, err := client.GetFileState(context.Background(), testRepo, "Missing.py", "main")

	require.NoError(t, err)
	assert.False(t, state.Exists)
	assert.Empty(t, state.SHA)
}

func TestGetFileState_Unauthorized(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"Bad credentials"}`))
	})

	client := newTestClient(t, handler)
	_, err := client.GetFileState(context.Background(), testRepo, "Two Sum.py", "main")

	require.Error(t, err)
	assert.ErrorIs(t, err, driven.ErrUnauthorized)
}

// putBody is the JSON body the contents API receives on a write.
type putBody struct {
	Message string `json:"message"`
	Content string `json:"content"`
	Branch  string `json:"branch"`
	SHA     string `json:"sha"`
}

func TestPutFile_Create(t *testing.T) {
	var got putBody
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/repos/alice/solutions/contents/Two Sum.py", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"content":{"sha":"new456"}}`))
	})

	client := newTestClient(t, handler)
	err := client.PutFile(context.Background(), testRepo, "Two Sum.py", model.FilePut{
		Message: "Two Sum Solved",
		Content: []byte("print(1)"),
		Branch:  "main",
	})

	require.NoError(t, err)
	assert.Equal(t, "Two Sum Solved", got.Message)
	assert.Equal(t, "main", got.Branch)
	assert.Empty(t, got.SHA)

	decoded, decodeErr := base64.StdEncoding.DecodeString(got.Content)
	require.NoError(t, decodeErr)
	assert.Equal(t, []byte("print(1)"), decoded)
}

func TestPutFile_UpdateCarriesSHA(t *testing.T) {
	var got putBody
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"content":{"sha":"new456"}}`))
	})

	client := newTestClient(t, handler)
	err := client.PutFile(context.Background(), testRepo, "Two Sum.py", model.FilePut{
		Message: "Two Sum Solved",
		Content: []byte("print(2)"),
		Branch:  "main",
		SHA:     "abc123",
	})

	require.NoError(t, err)
	assert.Equal(t, "abc123", got.SHA)
}

func TestPutFile_Unauthorized(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"Bad credentials"}`))
	})

	client := newTestClient(t, handler)
	err := client.PutFile(context.Background(), testRepo, "Two Sum.py", model.FilePut{
		Message: "Two Sum Solved",
		Content: []byte("print(1)"),
		Branch:  "main",
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, driven.ErrUnauthorized)
}

func TestPutFile_RemoteRejectionCarriesMessage(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"message":"Two Sum.py does not match abc123"}`))
	})

	client := newTestClient(t, handler)
	err := client.PutFile(context.Background(), testRepo, "Two Sum.py", model.FilePut{
		Message: "Two Sum Solved",
		Content: []byte("print(2)"),
		Branch:  "main",
		SHA:     "abc123",
	})

	require.Error(t, err)
	var remoteErr *model.RemoteError
	require.ErrorAs(t, err, &remoteErr)
	assert.Equal(t, http.StatusConflict, remoteErr.StatusCode)
	assert.Contains(t, remoteErr.Message, "does not match")
}
