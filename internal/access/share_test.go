package access

import (
	"driveshare/file-api/model"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// --- Test Setup ---

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "Failed to open in-memory database")

	err = db.AutoMigrate(model.User{}, model.File{}, model.FileShare{}, model.StarredFile{}, model.Stats{})
	require.NoError(t, err, "Failed to automigrate tables")

	return db
}

func createTestUser(t *testing.T, db *gorm.DB, id, name, email string) *model.User {
	user := &model.User{
		ID:                   id,
		FullName:             name,
		Email:                email,
		PasswordHash:         "testhash",
		NotificationsEnabled: true,
		CreatedAt:            time.Now().UnixMilli(),
	}
	require.NoError(t, db.Create(user).Error, "Failed to create test user %s", email)
	return user
}

func createTestFile(t *testing.T, db *gorm.DB, ownerID, name string) *model.File {
	file := &model.File{
		UserID:       ownerID,
		S3Key:        fmt.Sprintf("key-%s", name),
		OriginalName: name,
		Format:       "application/pdf",
		Size:         1024,
		CreatedAt:    time.Now().UnixMilli(),
	}
	require.NoError(t, db.Create(file).Error, "Failed to create test file %s", name)
	require.True(t, file.ID > 0)
	return file
}

// --- Tests ---

func TestShareManager_Grant(t *testing.T) {
	db := setupTestDB(t)
	m := &ShareManager{DB: db}

	owner := createTestUser(t, db, "owner1", "Alice", "alice@example.com")
	file := createTestFile(t, db, owner.ID, "report.pdf")

	share, err := m.Grant(owner.ID, file.ID, "bob@example.com")
	require.NoError(t, err)
	require.NotNil(t, share)

	assert.Equal(t, file.ID, share.FileID)
	assert.Equal(t, owner.ID, share.OwnerID)
	assert.Equal(t, "bob@example.com", share.SharedWithEmail)
	assert.True(t, share.Active())
	assert.True(t, share.GrantedAt > 0)
	assert.Nil(t, share.SharedWithID, "Unregistered recipient should have no user ID")
}

func TestShareManager_GrantIdempotent(t *testing.T) {
	db := setupTestDB(t)
	m := &ShareManager{DB: db}

	owner := createTestUser(t, db, "owner1", "Alice", "alice@example.com")
	file := createTestFile(t, db, owner.ID, "report.pdf")

	first, err := m.Grant(owner.ID, file.ID, "bob@example.com")
	require.NoError(t, err)

	second, err := m.Grant(owner.ID, file.ID, "bob@example.com")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID, "Repeated grant should return the existing record")

	var count int64
	require.NoError(t, db.Model(model.FileShare{}).Count(&count).Error)
	assert.EqualValues(t, 1, count, "Repeated grant must not create a second record")
}

func TestShareManager_GrantResolvesRecipient(t *testing.T) {
	db := setupTestDB(t)
	m := &ShareManager{DB: db}

	owner := createTestUser(t, db, "owner1", "Alice", "alice@example.com")
	recipient := createTestUser(t, db, "recip1", "Bob", "bob@example.com")
	file := createTestFile(t, db, owner.ID, "report.pdf")

	share, err := m.Grant(owner.ID, file.ID, recipient.Email)
	require.NoError(t, err)
	require.NotNil(t, share.SharedWithID)
	assert.Equal(t, recipient.ID, *share.SharedWithID)
}

func TestShareManager_GrantFailures(t *testing.T) {
	db := setupTestDB(t)
	m := &ShareManager{DB: db}

	owner := createTestUser(t, db, "owner1", "Alice", "alice@example.com")
	stranger := createTestUser(t, db, "other1", "Mallory", "mallory@example.com")
	file := createTestFile(t, db, owner.ID, "report.pdf")

	_, err := m.Grant(stranger.ID, file.ID, "bob@example.com")
	assert.ErrorIs(t, err, ErrNotOwner)

	_, err = m.Grant(owner.ID, file.ID, "not-an-email")
	assert.ErrorIs(t, err, ErrInvalidRecipient)

	_, err = m.Grant(owner.ID, file.ID, "")
	assert.ErrorIs(t, err, ErrInvalidRecipient)

	_, err = m.Grant(owner.ID, 99999, "bob@example.com")
	assert.ErrorIs(t, err, ErrFileNotFound)

	// Sharing with your own email is rejected
	_, err = m.Grant(owner.ID, file.ID, owner.Email)
	assert.ErrorIs(t, err, ErrInvalidRecipient)

	var count int64
	require.NoError(t, db.Model(model.FileShare{}).Count(&count).Error)
	assert.EqualValues(t, 0, count, "Failed grants must not leave records behind")
}

func TestShareManager_GrantFiresNotification(t *testing.T) {
	db := setupTestDB(t)

	notified := make(chan string, 1)
	m := &ShareManager{
		DB: db,
		Notify: func(recipientEmail, ownerName, fileName string) {
			notified <- fmt.Sprintf("%s|%s|%s", recipientEmail, ownerName, fileName)
		},
	}

	owner := createTestUser(t, db, "owner1", "Alice", "alice@example.com")
	file := createTestFile(t, db, owner.ID, "report.pdf")

	_, err := m.Grant(owner.ID, file.ID, "bob@example.com")
	require.NoError(t, err)

	select {
	case got := <-notified:
		assert.Equal(t, "bob@example.com|Alice|report.pdf", got)
	case <-time.After(time.Second):
		t.Fatal("Notification hook was never called")
	}
}

func TestShareManager_Revoke(t *testing.T) {
	db := setupTestDB(t)
	m := &ShareManager{DB: db}

	owner := createTestUser(t, db, "owner1", "Alice", "alice@example.com")
	file := createTestFile(t, db, owner.ID, "report.pdf")

	_, err := m.Grant(owner.ID, file.ID, "bob@example.com")
	require.NoError(t, err)

	require.NoError(t, m.Revoke(owner.ID, file.ID, "bob@example.com"))

	var share model.FileShare
	require.NoError(t, db.First(&share).Error)
	assert.False(t, share.Active(), "Revoked share should keep its row with revoked_at set")
	require.NotNil(t, share.RevokedAt)

	// Revoking again must fail, there is no active share anymore
	err = m.Revoke(owner.ID, file.ID, "bob@example.com")
	assert.ErrorIs(t, err, ErrNoActiveShare)
}

func TestShareManager_RevokeFailures(t *testing.T) {
	db := setupTestDB(t)
	m := &ShareManager{DB: db}

	owner := createTestUser(t, db, "owner1", "Alice", "alice@example.com")
	stranger := createTestUser(t, db, "other1", "Mallory", "mallory@example.com")
	file := createTestFile(t, db, owner.ID, "report.pdf")

	err := m.Revoke(owner.ID, file.ID, "bob@example.com")
	assert.ErrorIs(t, err, ErrNoActiveShare, "Revoking a never-granted pair should fail")

	_, err = m.Grant(owner.ID, file.ID, "bob@example.com")
	require.NoError(t, err)

	err = m.Revoke(stranger.ID, file.ID, "bob@example.com")
	assert.ErrorIs(t, err, ErrNotOwner)

	err = m.Revoke(owner.ID, 99999, "bob@example.com")
	assert.ErrorIs(t, err, ErrFileNotFound)
}

func TestShareManager_RegrantAfterRevoke(t *testing.T) {
	db := setupTestDB(t)
	m := &ShareManager{DB: db}

	owner := createTestUser(t, db, "owner1", "Alice", "alice@example.com")
	file := createTestFile(t, db, owner.ID, "report.pdf")

	first, err := m.Grant(owner.ID, file.ID, "bob@example.com")
	require.NoError(t, err)

	require.NoError(t, m.Revoke(owner.ID, file.ID, "bob@example.com"))

	second, err := m.Grant(owner.ID, file.ID, "bob@example.com")
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID, "Re-grant should create a fresh record, not revive the old one")
	assert.True(t, second.Active())

	// History is preserved: one revoked record plus one active record
	var total, active int64
	require.NoError(t, db.Model(model.FileShare{}).Count(&total).Error)
	require.NoError(t, db.Model(model.FileShare{}).Where("revoked_at IS NULL").Count(&active).Error)
	assert.EqualValues(t, 2, total)
	assert.EqualValues(t, 1, active)
}

func TestPurgeFile(t *testing.T) {
	db := setupTestDB(t)
	m := &ShareManager{DB: db}
	r := &Resolver{DB: db}

	owner := createTestUser(t, db, "owner1", "Alice", "alice@example.com")
	file := createTestFile(t, db, owner.ID, "report.pdf")
	keep := createTestFile(t, db, owner.ID, "other.pdf")

	_, err := m.Grant(owner.ID, file.ID, "bob@example.com")
	require.NoError(t, err)
	_, err = m.Grant(owner.ID, keep.ID, "bob@example.com")
	require.NoError(t, err)

	require.NoError(t, db.Create(&model.StarredFile{
		UserID:    owner.ID,
		FileID:    file.ID,
		CreatedAt: time.Now().UnixMilli(),
	}).Error)

	require.NoError(t, PurgeFile(db, file.ID))
	require.NoError(t, db.Where("id = ?", file.ID).Delete(model.File{}).Error)

	var shares, stars int64
	require.NoError(t, db.Model(model.FileShare{}).Where("file_id = ?", file.ID).Count(&shares).Error)
	require.NoError(t, db.Model(model.StarredFile{}).Where("file_id = ?", file.ID).Count(&stars).Error)
	assert.EqualValues(t, 0, shares, "Purge should remove the file's share records")
	assert.EqualValues(t, 0, stars, "Purge should remove the file's star records")

	// Former recipients no longer see the file, unrelated shares survive
	sharedWith, err := r.SharedWithMe("bob@example.com")
	require.NoError(t, err)
	require.Len(t, sharedWith, 1)
	assert.Equal(t, keep.ID, sharedWith[0].FileID)
}
