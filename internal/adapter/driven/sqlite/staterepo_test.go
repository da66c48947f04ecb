package sqlite

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AranL152/GeetCode/internal/domain/port/driven"
)

func testKey(t *testing.T) []byte {
	t.Helper()
	key := make([]byte, 32)
	_, err := rand.Read(key)
	require.NoError(t, err)
	return key
}

func TestStateRepo_SetGetRoundTrip(t *testing.T) {
	db := setupTestDB(t)
	repo := NewStateRepo(db, nil)
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, driven.KeyLatestSubmission, `{"problem_title":"Two Sum"}`))

	got, err := repo.Get(ctx, driven.KeyLatestSubmission)
	require.NoError(t, err)
	assert.Equal(t, `{"problem_title":"Two Sum"}`, got)
}

func TestStateRepo_GetAbsentKey(t *testing.T) {
	db := setupTestDB(t)
	repo := NewStateRepo(db, nil)

	got, err := repo.Get(context.Background(), driven.KeyToken)
	require.NoError(t, err)
	assert.Equal(t, "", got)
}

func TestStateRepo_SetReplacesExisting(t *testing.T) {
	db := setupTestDB(t)
	repo := NewStateRepo(db, nil)
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, driven.KeyTokenCreatedAt, "2026-01-01T00:00:00Z"))
	require.NoError(t, repo.Set(ctx, driven.KeyTokenCreatedAt, "2026-02-01T00:00:00Z"))

	got, err := repo.Get(ctx, driven.KeyTokenCreatedAt)
	require.NoError(t, err)
	assert.Equal(t, "2026-02-01T00:00:00Z", got)
}

func TestStateRepo_Delete(t *testing.T) {
	db := setupTestDB(t)
	repo := NewStateRepo(db, nil)
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, driven.KeyToken, "ghp_secret"))
	require.NoError(t, repo.Delete(ctx, driven.KeyToken))

	got, err := repo.Get(ctx, driven.KeyToken)
	require.NoError(t, err)
	assert.Equal(t, "", got)
}

func TestStateRepo_DeleteAbsentKeyIsNoOp(t *testing.T) {
	db := setupTestDB(t)
	repo := NewStateRepo(db, nil)

	require.NoError(t, repo.Delete(context.Background(), driven.KeyToken))
}

func TestStateRepo_TokenEncryptedAtRest(t *testing.T) {
	db := setupTestDB(t)
	repo := NewStateRepo(db, testKey(t))
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, driven.KeyToken, "ghp_secret"))

	// The raw row must not contain the plaintext token.
	var raw string
	err := db.Reader.QueryRowContext(ctx, `SELECT value FROM app_state WHERE key = ?`, driven.KeyToken).Scan(&raw)
	require.NoError(t, err)
	assert.NotEqual(t, "ghp_secret", raw)
	assert.NotContains(t, raw, "ghp_secret")
	_, err = base64.StdEncoding.DecodeString(raw)
	assert.NoError(t, err, "stored value should be base64 ciphertext")

	got, err := repo.Get(ctx, driven.KeyToken)
	require.NoError(t, err)
	assert.Equal(t, "ghp_secret", got)
}

func TestStateRepo_NonSensitiveKeysStayPlaintext(t *testing.T) {
	db := setupTestDB(t)
	repo := NewStateRepo(db, testKey(t))
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, driven.KeySelectedRepository, `{"owner":"alice","name":"solutions"}`))

	var raw string
	err := db.Reader.QueryRowContext(ctx, `SELECT value FROM app_state WHERE key = ?`, driven.KeySelectedRepository).Scan(&raw)
	require.NoError(t, err)
	assert.Equal(t, `{"owner":"alice","name":"solutions"}`, raw)
}

func TestStateRepo_DecryptWithWrongKeyFails(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	writerRepo := NewStateRepo(db, testKey(t))
	require.NoError(t, writerRepo.Set(ctx, driven.KeyToken, "ghp_secret"))

	readerRepo := NewStateRepo(db, testKey(t))
	_, err := readerRepo.Get(ctx, driven.KeyToken)
	require.Error(t, err)
}

func TestStateRepo_UpdatedAtSet(t *testing.T) {
	db := setupTestDB(t)
	repo := NewStateRepo(db, nil)
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, driven.KeyToken, "ghp_x"))

	var updatedAt sql.NullString
	err := db.Reader.QueryRowContext(ctx, `SELECT updated_at FROM app_state WHERE key = ?`, driven.KeyToken).Scan(&updatedAt)
	require.NoError(t, err)
	assert.True(t, updatedAt.Valid)
	assert.NotEmpty(t, updatedAt.String)
}
