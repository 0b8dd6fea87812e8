package access

import (
	"driveshare/file-api/model"

	"gorm.io/gorm"
)

// Resolver computes the file views for one requesting identity. It only
// reads, all mutations go through ShareManager and StarManager.
type Resolver struct {
	DB *gorm.DB
}

// SharedFile is one entry of the shared-with-me view, file metadata
// joined with the grant and the owner's display info
type SharedFile struct {
	FileID       uint   `json:"id"`
	OriginalName string `json:"name"`
	Format       string `json:"format"`
	Size         int64  `json:"size"`
	UploadedAt   int64  `json:"uploaded_at"`
	OwnerName    string `json:"ownerName"`
	OwnerEmail   string `json:"ownerEmail"`
	SharedAt     int64  `json:"sharedAt"`
}

// GrantInfo is one entry of the shared-by-me view, used to manage
// outgoing shares
type GrantInfo struct {
	FileID          uint   `json:"id"`
	OriginalName    string `json:"name"`
	Format          string `json:"format"`
	Size            int64  `json:"size"`
	SharedWithEmail string `json:"sharedWithEmail"`
	RecipientName   string `json:"recipientName,omitempty"`
	SharedAt        int64  `json:"sharedAt"`
}

// Owned returns every file the user uploaded, in no particular order
func (r *Resolver) Owned(userID string) ([]model.File, error) {
	var files []model.File

	err := r.DB.
		Where("user_id = ?", userID).
		Find(&files).
		Error

	return files, err
}

// SharedWithMe returns the files other users actively share with this
// email. Because only one active grant can exist per (file, recipient)
// pair a file never shows up twice. Grants whose file disappeared are
// skipped, deleting a file purges its grants so this shouldn't happen
func (r *Resolver) SharedWithMe(email string) ([]SharedFile, error) {
	var shares []model.FileShare

	err := r.DB.
		Where("shared_with_email = ? AND revoked_at IS NULL", email).
		Find(&shares).
		Error
	if err != nil {
		return nil, err
	}

	result := make([]SharedFile, 0, len(shares))

	for _, share := range shares {
		var file model.File

		err := r.DB.Where("id = ?", share.FileID).First(&file).Error
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				continue
			}
			return nil, err
		}

		entry := SharedFile{
			FileID:       file.ID,
			OriginalName: file.OriginalName,
			Format:       file.Format,
			Size:         file.Size,
			UploadedAt:   file.CreatedAt,
			SharedAt:     share.GrantedAt,
		}

		var owner model.User
		err = r.DB.Where("id = ?", share.OwnerID).First(&owner).Error
		if err != nil && err != gorm.ErrRecordNotFound {
			return nil, err
		}
		if err == nil {
			entry.OwnerName = owner.FullName
			entry.OwnerEmail = owner.Email
		}

		result = append(result, entry)
	}

	return result, nil
}

// SharedByMe returns every active grant the user handed out, joined with
// file metadata and the recipient's name when they have an account
func (r *Resolver) SharedByMe(ownerID string) ([]GrantInfo, error) {
	var shares []model.FileShare

	err := r.DB.
		Where("owner_id = ? AND revoked_at IS NULL", ownerID).
		Find(&shares).
		Error
	if err != nil {
		return nil, err
	}

	result := make([]GrantInfo, 0, len(shares))

	for _, share := range shares {
		var file model.File

		err := r.DB.Where("id = ?", share.FileID).First(&file).Error
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				continue
			}
			return nil, err
		}

		entry := GrantInfo{
			FileID:          file.ID,
			OriginalName:    file.OriginalName,
			Format:          file.Format,
			Size:            file.Size,
			SharedWithEmail: share.SharedWithEmail,
			SharedAt:        share.GrantedAt,
		}

		if share.SharedWithID != nil {
			var recipient model.User
			err = r.DB.Where("id = ?", *share.SharedWithID).First(&recipient).Error
			if err != nil && err != gorm.ErrRecordNotFound {
				return nil, err
			}
			if err == nil {
				entry.RecipientName = recipient.FullName
			}
		}

		result = append(result, entry)
	}

	return result, nil
}

// HasAccess reports whether the user may read the file, either as its
// owner or through an active grant addressed to their email. Public
// files are deliberately not considered here, that access path only
// applies to direct serving and never feeds the shared views
func (r *Resolver) HasAccess(fileID uint, userID, email string) (bool, error) {
	var file model.File

	err := r.DB.Where("id = ?", fileID).First(&file).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return false, ErrFileNotFound
		}
		return false, err
	}

	if file.UserID == userID {
		return true, nil
	}

	var shared bool
	err = r.DB.
		Model(model.FileShare{}).
		Where("file_id = ? AND shared_with_email = ? AND revoked_at IS NULL", fileID, email).
		Select("count(*) > 0").
		Find(&shared).
		Error
	if err != nil {
		return false, err
	}

	return shared, nil
}
