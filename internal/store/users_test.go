package store

import (
	"crypto/rand"
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/netgrid/backend/internal/model"
)

func testKey(t *testing.T) string {
	t.Helper()
	key := make([]byte, 32)
	_, err := rand.Read(key)
	require.NoError(t, err)
	return base64.StdEncoding.EncodeToString(key)
}

func newTestStore(t *testing.T) *UserStore {
	t.Helper()
	s, err := NewUserStore(t.TempDir(), testKey(t))
	require.NoError(t, err)
	return s
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	s := newTestStore(t)

	saved, err := s.Save(model.User{
		ID:       model.UnassignedUserID,
		Username: "operator",
		Password: "secret-pw",
		Role:     model.RoleSupervisor,
		Profiles: []string{"netview"},
	})
	require.NoError(t, err)
	assert.Equal(t, 0, saved.ID)

	users, err := s.LoadAll()
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "operator", users[0].Username)
	assert.Equal(t, "secret-pw", users[0].Password)
	assert.Equal(t, model.RoleSupervisor, users[0].Role)
	assert.Equal(t, []string{"netview"}, users[0].Profiles)
}

func TestUserFileLayout(t *testing.T) {
	dir := t.TempDir()
	s, err := NewUserStore(dir, testKey(t))
	require.NoError(t, err)

	saved, err := s.Save(model.User{ID: model.UnassignedUserID, Username: "admin", Password: "moxa", Role: model.RoleAdmin})
	require.NoError(t, err)

	path := filepath.Join(dir, "0_admin")
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	// The plaintext password never hits disk.
	assert.NotContains(t, string(data), "moxa")
	assert.Equal(t, 0, saved.ID)
}

func TestIDAssignmentSkipsUsed(t *testing.T) {
	s := newTestStore(t)

	a, err := s.Save(model.User{ID: model.UnassignedUserID, Username: "a", Password: "x", Role: model.RoleUser})
	require.NoError(t, err)
	b, err := s.Save(model.User{ID: model.UnassignedUserID, Username: "b", Password: "x", Role: model.RoleUser})
	require.NoError(t, err)
	assert.Equal(t, a.ID+1, b.ID)
}

func TestDelete(t *testing.T) {
	s := newTestStore(t)

	saved, err := s.Save(model.User{ID: model.UnassignedUserID, Username: "gone", Password: "x", Role: model.RoleUser})
	require.NoError(t, err)

	require.NoError(t, s.Delete(saved.ID, "gone"))
	assert.ErrorIs(t, s.Delete(saved.ID, "gone"), ErrUserNotFound)

	users, err := s.LoadAll()
	require.NoError(t, err)
	assert.Empty(t, users)
}

func TestEnsureBuiltins(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.EnsureBuiltins())
	users, err := s.LoadAll()
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "admin", users[0].Username)
	assert.Equal(t, model.RoleAdmin, users[0].Role)
	assert.Equal(t, "user", users[1].Username)
	assert.Equal(t, model.RoleUser, users[1].Role)

	// Second run leaves the set alone, even after mutations.
	require.NoError(t, s.Delete(users[1].ID, users[1].Username))
	require.NoError(t, s.EnsureBuiltins())
	users, err = s.LoadAll()
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestCipherRejectsTamperedData(t *testing.T) {
	c, err := newPasswordCipher(testKey(t))
	require.NoError(t, err)

	sealed, err := c.Seal("pw")
	require.NoError(t, err)

	raw, err := base64.StdEncoding.DecodeString(sealed)
	require.NoError(t, err)
	raw[len(raw)-1] ^= 0xff
	_, err = c.Open(base64.StdEncoding.EncodeToString(raw))
	assert.Error(t, err)
}

func TestCipherKeyValidation(t *testing.T) {
	_, err := newPasswordCipher("")
	assert.Error(t, err)
	_, err = newPasswordCipher("not-base64!!")
	assert.Error(t, err)
	_, err = newPasswordCipher(base64.StdEncoding.EncodeToString([]byte("short")))
	assert.Error(t, err)
}
