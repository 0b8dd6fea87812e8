package access

import (
	"driveshare/file-api/model"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStarManager_Toggle(t *testing.T) {
	db := setupTestDB(t)
	r := &Resolver{DB: db}
	s := &StarManager{DB: db, Resolver: r}

	alice := createTestUser(t, db, "owner1", "Alice", "alice@example.com")
	file := createTestFile(t, db, alice.ID, "report.pdf")

	starred, err := s.Toggle(alice.ID, alice.Email, file.ID)
	require.NoError(t, err)
	assert.True(t, starred, "First toggle stars the file")

	starred, err = s.Toggle(alice.ID, alice.Email, file.ID)
	require.NoError(t, err)
	assert.False(t, starred, "Second toggle removes the star")

	var count int64
	require.NoError(t, db.Model(model.StarredFile{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestStarManager_TogglePrivatePerViewer(t *testing.T) {
	db := setupTestDB(t)
	r := &Resolver{DB: db}
	m := &ShareManager{DB: db}
	s := &StarManager{DB: db, Resolver: r}

	alice := createTestUser(t, db, "owner1", "Alice", "alice@example.com")
	bob := createTestUser(t, db, "recip1", "Bob", "bob@example.com")
	file := createTestFile(t, db, alice.ID, "report.pdf")

	_, err := m.Grant(alice.ID, file.ID, bob.Email)
	require.NoError(t, err)

	// Bob stars the shared file, Alice's view is untouched
	starred, err := s.Toggle(bob.ID, bob.Email, file.ID)
	require.NoError(t, err)
	assert.True(t, starred)

	ownStar, err := s.IsStarred(alice.ID, file.ID)
	require.NoError(t, err)
	assert.False(t, ownStar, "One user's star is invisible to everyone else")

	bobStar, err := s.IsStarred(bob.ID, file.ID)
	require.NoError(t, err)
	assert.True(t, bobStar)
}

func TestStarManager_ToggleRequiresVisibility(t *testing.T) {
	db := setupTestDB(t)
	r := &Resolver{DB: db}
	s := &StarManager{DB: db, Resolver: r}

	alice := createTestUser(t, db, "owner1", "Alice", "alice@example.com")
	mallory := createTestUser(t, db, "other1", "Mallory", "mallory@example.com")
	file := createTestFile(t, db, alice.ID, "report.pdf")

	_, err := s.Toggle(mallory.ID, mallory.Email, file.ID)
	assert.ErrorIs(t, err, ErrNotVisible)

	_, err = s.Toggle(alice.ID, alice.Email, 99999)
	assert.ErrorIs(t, err, ErrFileNotFound)
}

func TestStarManager_Starred(t *testing.T) {
	db := setupTestDB(t)
	r := &Resolver{DB: db}
	s := &StarManager{DB: db, Resolver: r}

	alice := createTestUser(t, db, "owner1", "Alice", "alice@example.com")
	f1 := createTestFile(t, db, alice.ID, "report.pdf")
	f2 := createTestFile(t, db, alice.ID, "notes.txt")

	_, err := s.Toggle(alice.ID, alice.Email, f1.ID)
	require.NoError(t, err)
	_, err = s.Toggle(alice.ID, alice.Email, f2.ID)
	require.NoError(t, err)

	list, err := s.Starred(alice.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)

	byFile := map[uint]StarredFileInfo{}
	for _, e := range list {
		byFile[e.FileID] = e
	}

	assert.Equal(t, "report.pdf", byFile[f1.ID].OriginalName)
	assert.Equal(t, "Alice", byFile[f1.ID].OwnerName)
	assert.True(t, byFile[f1.ID].StarredAt > 0)
}

func TestStarManager_StarredSkipsDeletedFiles(t *testing.T) {
	db := setupTestDB(t)
	r := &Resolver{DB: db}
	s := &StarManager{DB: db, Resolver: r}

	alice := createTestUser(t, db, "owner1", "Alice", "alice@example.com")
	file := createTestFile(t, db, alice.ID, "report.pdf")

	require.NoError(t, db.Create(&model.StarredFile{
		UserID:    alice.ID,
		FileID:    file.ID,
		CreatedAt: time.Now().UnixMilli(),
	}).Error)

	require.NoError(t, db.Where("id = ?", file.ID).Delete(model.File{}).Error)

	list, err := s.Starred(alice.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}
