package access

import (
	"driveshare/file-api/model"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolver_Owned(t *testing.T) {
	db := setupTestDB(t)
	r := &Resolver{DB: db}

	alice := createTestUser(t, db, "owner1", "Alice", "alice@example.com")
	bob := createTestUser(t, db, "owner2", "Bob", "bob@example.com")

	f1 := createTestFile(t, db, alice.ID, "report.pdf")
	f2 := createTestFile(t, db, alice.ID, "notes.txt")
	createTestFile(t, db, bob.ID, "other.pdf")

	files, err := r.Owned(alice.ID)
	require.NoError(t, err)
	require.Len(t, files, 2)

	ids := map[uint]bool{}
	for _, f := range files {
		ids[f.ID] = true
	}
	assert.True(t, ids[f1.ID])
	assert.True(t, ids[f2.ID])

	empty, err := r.Owned("nobody")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

// The scenario from the sharing flow: Alice uploads report.pdf, shares
// it with Bob, Bob sees exactly one entry with Alice's name on it, and
// after the revoke his view is empty again.
func TestResolver_SharedWithMe(t *testing.T) {
	db := setupTestDB(t)
	r := &Resolver{DB: db}
	m := &ShareManager{DB: db}

	alice := createTestUser(t, db, "owner1", "Alice", "alice@example.com")
	file := createTestFile(t, db, alice.ID, "report.pdf")

	_, err := m.Grant(alice.ID, file.ID, "b@example.com")
	require.NoError(t, err)

	shared, err := r.SharedWithMe("b@example.com")
	require.NoError(t, err)
	require.Len(t, shared, 1)

	entry := shared[0]
	assert.Equal(t, file.ID, entry.FileID)
	assert.Equal(t, "report.pdf", entry.OriginalName)
	assert.Equal(t, "Alice", entry.OwnerName)
	assert.Equal(t, "alice@example.com", entry.OwnerEmail)
	assert.True(t, entry.SharedAt > 0)

	require.NoError(t, m.Revoke(alice.ID, file.ID, "b@example.com"))

	shared, err = r.SharedWithMe("b@example.com")
	require.NoError(t, err)
	assert.Empty(t, shared, "Revoked share must disappear from the recipient's view")
}

func TestResolver_SharedWithMe_NoDuplicateAfterRegrant(t *testing.T) {
	db := setupTestDB(t)
	r := &Resolver{DB: db}
	m := &ShareManager{DB: db}

	alice := createTestUser(t, db, "owner1", "Alice", "alice@example.com")
	file := createTestFile(t, db, alice.ID, "report.pdf")

	_, err := m.Grant(alice.ID, file.ID, "b@example.com")
	require.NoError(t, err)
	require.NoError(t, m.Revoke(alice.ID, file.ID, "b@example.com"))
	_, err = m.Grant(alice.ID, file.ID, "b@example.com")
	require.NoError(t, err)

	shared, err := r.SharedWithMe("b@example.com")
	require.NoError(t, err)
	require.Len(t, shared, 1, "A re-granted file must appear exactly once")
}

func TestResolver_SharedWithMe_NeverContainsOwnFiles(t *testing.T) {
	db := setupTestDB(t)
	r := &Resolver{DB: db}
	m := &ShareManager{DB: db}

	alice := createTestUser(t, db, "owner1", "Alice", "alice@example.com")
	bob := createTestUser(t, db, "owner2", "Bob", "bob@example.com")
	file := createTestFile(t, db, alice.ID, "report.pdf")
	createTestFile(t, db, bob.ID, "bobs.pdf")

	_, err := m.Grant(alice.ID, file.ID, bob.Email)
	require.NoError(t, err)

	shared, err := r.SharedWithMe(alice.Email)
	require.NoError(t, err)
	assert.Empty(t, shared, "An owner is never 'shared with' themself")

	shared, err = r.SharedWithMe(bob.Email)
	require.NoError(t, err)
	require.Len(t, shared, 1)
	assert.Equal(t, file.ID, shared[0].FileID)
}

func TestResolver_SharedByMe(t *testing.T) {
	db := setupTestDB(t)
	r := &Resolver{DB: db}
	m := &ShareManager{DB: db}

	alice := createTestUser(t, db, "owner1", "Alice", "alice@example.com")
	bob := createTestUser(t, db, "recip1", "Bob", "bob@example.com")
	f1 := createTestFile(t, db, alice.ID, "report.pdf")
	f2 := createTestFile(t, db, alice.ID, "notes.txt")

	_, err := m.Grant(alice.ID, f1.ID, bob.Email)
	require.NoError(t, err)
	_, err = m.Grant(alice.ID, f2.ID, "carol@example.com")
	require.NoError(t, err)

	grants, err := r.SharedByMe(alice.ID)
	require.NoError(t, err)
	require.Len(t, grants, 2)

	byFile := map[uint]GrantInfo{}
	for _, g := range grants {
		byFile[g.FileID] = g
	}

	assert.Equal(t, bob.Email, byFile[f1.ID].SharedWithEmail)
	assert.Equal(t, "Bob", byFile[f1.ID].RecipientName, "Registered recipients resolve to their name")
	assert.Equal(t, "carol@example.com", byFile[f2.ID].SharedWithEmail)
	assert.Empty(t, byFile[f2.ID].RecipientName, "Unregistered recipients only have their email")

	require.NoError(t, m.Revoke(alice.ID, f2.ID, "carol@example.com"))

	grants, err = r.SharedByMe(alice.ID)
	require.NoError(t, err)
	require.Len(t, grants, 1)
	assert.Equal(t, f1.ID, grants[0].FileID)
}

func TestResolver_HasAccess(t *testing.T) {
	db := setupTestDB(t)
	r := &Resolver{DB: db}
	m := &ShareManager{DB: db}

	alice := createTestUser(t, db, "owner1", "Alice", "alice@example.com")
	bob := createTestUser(t, db, "recip1", "Bob", "bob@example.com")
	mallory := createTestUser(t, db, "other1", "Mallory", "mallory@example.com")
	file := createTestFile(t, db, alice.ID, "report.pdf")

	_, err := m.Grant(alice.ID, file.ID, bob.Email)
	require.NoError(t, err)

	ok, err := r.HasAccess(file.ID, alice.ID, alice.Email)
	require.NoError(t, err)
	assert.True(t, ok, "Owner always has access")

	ok, err = r.HasAccess(file.ID, bob.ID, bob.Email)
	require.NoError(t, err)
	assert.True(t, ok, "Active share recipient has access")

	ok, err = r.HasAccess(file.ID, mallory.ID, mallory.Email)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, m.Revoke(alice.ID, file.ID, bob.Email))

	ok, err = r.HasAccess(file.ID, bob.ID, bob.Email)
	require.NoError(t, err)
	assert.False(t, ok, "Revoked recipient loses access")

	// A public flag doesn't feed the share-based access path
	require.NoError(t, db.Model(model.File{}).Where("id = ?", file.ID).Update("public", true).Error)
	ok, err = r.HasAccess(file.ID, mallory.ID, mallory.Email)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = r.HasAccess(99999, alice.ID, alice.Email)
	assert.ErrorIs(t, err, ErrFileNotFound)
}

func TestResolver_SharedWithMe_SkipsDanglingFiles(t *testing.T) {
	db := setupTestDB(t)
	r := &Resolver{DB: db}
	m := &ShareManager{DB: db}

	alice := createTestUser(t, db, "owner1", "Alice", "alice@example.com")
	file := createTestFile(t, db, alice.ID, "report.pdf")

	_, err := m.Grant(alice.ID, file.ID, "b@example.com")
	require.NoError(t, err)

	// Delete the file row behind the resolver's back, the grant now
	// points at nothing
	require.NoError(t, db.Where("id = ?", file.ID).Delete(model.File{}).Error)

	shared, err := r.SharedWithMe("b@example.com")
	require.NoError(t, err)
	assert.Empty(t, shared)
}
