package access

import (
	"driveshare/file-api/model"
	"driveshare/file-api/validators"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// NotifyFunc tells a recipient that a file was shared with them. Called
// in a goroutine, failures must be handled by the hook itself.
type NotifyFunc func(recipientEmail, ownerName, fileName string)

// ShareManager owns the grant/revoke lifecycle of file shares
type ShareManager struct {
	DB     *gorm.DB
	Notify NotifyFunc
}

// Grant shares a file with a recipient email. Granting a share that is
// already active returns the existing record unchanged instead of
// creating a duplicate. A revoked pair can be granted again, which
// creates a fresh record and leaves the revoked one in place.
func (m *ShareManager) Grant(ownerID string, fileID uint, recipientEmail string) (*model.FileShare, error) {
	if err := validators.EmailValidator(recipientEmail); err != nil {
		return nil, ErrInvalidRecipient
	}

	var file model.File

	err := m.DB.Where("id = ?", fileID).First(&file).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrFileNotFound
		}
		return nil, err
	}

	if file.UserID != ownerID {
		return nil, ErrNotOwner
	}

	var owner model.User

	err = m.DB.Where("id = ?", ownerID).First(&owner).Error
	if err != nil && err != gorm.ErrRecordNotFound {
		return nil, err
	}

	// Sharing a file with yourself would make it show up in your own
	// shared-with-me view
	if owner.Email == recipientEmail {
		return nil, ErrInvalidRecipient
	}

	var existing model.FileShare

	err = m.DB.
		Where("file_id = ? AND shared_with_email = ? AND revoked_at IS NULL", fileID, recipientEmail).
		First(&existing).
		Error
	if err == nil {
		return &existing, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	share := model.FileShare{
		FileID:          fileID,
		OwnerID:         ownerID,
		SharedWithEmail: recipientEmail,
		GrantedAt:       time.Now().UnixMilli(),
	}

	var recipient model.User

	err = m.DB.Where("email = ?", recipientEmail).First(&recipient).Error
	if err == nil {
		share.SharedWithID = &recipient.ID
	} else if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	if err := m.DB.Create(&share).Error; err != nil {
		// Two grants for the same pair can race past the lookup above.
		// The partial unique index rejects the loser, whose result is
		// then the record that won
		var winner model.FileShare

		lookupErr := m.DB.
			Where("file_id = ? AND shared_with_email = ? AND revoked_at IS NULL", fileID, recipientEmail).
			First(&winner).
			Error
		if lookupErr == nil {
			return &winner, nil
		}

		return nil, err
	}

	if m.Notify != nil {
		ownerName := owner.FullName
		if ownerName == "" {
			ownerName = "A user"
		}

		go m.Notify(recipientEmail, ownerName, file.OriginalName)
	}

	return &share, nil
}

// Revoke deactivates the active share for the given pair. Revoking a
// pair with no active share fails with ErrNoActiveShare, including right
// after a successful revoke, so callers can detect stale state.
func (m *ShareManager) Revoke(ownerID string, fileID uint, recipientEmail string) error {
	var file model.File

	err := m.DB.Where("id = ?", fileID).First(&file).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return ErrFileNotFound
		}
		return err
	}

	if file.UserID != ownerID {
		return ErrNotOwner
	}

	res := m.DB.
		Model(model.FileShare{}).
		Where("file_id = ? AND shared_with_email = ? AND revoked_at IS NULL", fileID, recipientEmail).
		Update("revoked_at", time.Now().UnixMilli())
	if res.Error != nil {
		return res.Error
	}

	if res.RowsAffected == 0 {
		return ErrNoActiveShare
	}

	return nil
}

// PurgeFile removes every share and star of a deleted file so that no
// record references a file that no longer exists. This is the only path
// that physically deletes share rows.
func PurgeFile(db *gorm.DB, fileID uint) error {
	err := db.Where("file_id = ?", fileID).Delete(model.FileShare{}).Error
	if err != nil {
		return err
	}

	err = db.Where("file_id = ?", fileID).Delete(model.StarredFile{}).Error
	if err != nil {
		return err
	}

	zap.L().Debug("Purged share and star records", zap.Uint("fileID", fileID))
	return nil
}
