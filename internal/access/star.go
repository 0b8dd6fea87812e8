package access

import (
	"driveshare/file-api/model"
	"time"

	"gorm.io/gorm"
)

// StarManager flips per-viewer bookmarks. Anyone who can see a file may
// star it for themselves, stars never affect what other users see.
type StarManager struct {
	DB       *gorm.DB
	Resolver *Resolver
}

// StarredFileInfo is one entry of a user's starred listing
type StarredFileInfo struct {
	FileID       uint   `json:"id"`
	OriginalName string `json:"name"`
	Format       string `json:"format"`
	Size         int64  `json:"size"`
	UploadedAt   int64  `json:"uploaded_at"`
	OwnerName    string `json:"ownerName"`
	StarredAt    int64  `json:"starredAt"`
}

// Toggle stars the file if it isn't starred by the user yet and unstars
// it otherwise, returning the new state
func (m *StarManager) Toggle(userID, userEmail string, fileID uint) (bool, error) {
	ok, err := m.Resolver.HasAccess(fileID, userID, userEmail)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, ErrNotVisible
	}

	var star model.StarredFile

	err = m.DB.
		Where("user_id = ? AND file_id = ?", userID, fileID).
		First(&star).
		Error
	if err == nil {
		err = m.DB.Delete(&star).Error
		if err != nil {
			return false, err
		}
		return false, nil
	}
	if err != gorm.ErrRecordNotFound {
		return false, err
	}

	err = m.DB.Create(&model.StarredFile{
		UserID:    userID,
		FileID:    fileID,
		CreatedAt: time.Now().UnixMilli(),
	}).Error
	if err != nil {
		return false, err
	}

	return true, nil
}

// Starred returns the user's starred files with their metadata. Stars
// pointing at deleted files are skipped
func (m *StarManager) Starred(userID string) ([]StarredFileInfo, error) {
	var stars []model.StarredFile

	err := m.DB.
		Where("user_id = ?", userID).
		Find(&stars).
		Error
	if err != nil {
		return nil, err
	}

	result := make([]StarredFileInfo, 0, len(stars))

	for _, star := range stars {
		var file model.File

		err := m.DB.Where("id = ?", star.FileID).First(&file).Error
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				continue
			}
			return nil, err
		}

		entry := StarredFileInfo{
			FileID:       file.ID,
			OriginalName: file.OriginalName,
			Format:       file.Format,
			Size:         file.Size,
			UploadedAt:   file.CreatedAt,
			StarredAt:    star.CreatedAt,
		}

		var owner model.User
		if err := m.DB.Where("id = ?", file.UserID).First(&owner).Error; err == nil {
			entry.OwnerName = owner.FullName
		}

		result = append(result, entry)
	}

	return result, nil
}

// IsStarred reports whether the user starred the file
func (m *StarManager) IsStarred(userID string, fileID uint) (bool, error) {
	var starred bool

	err := m.DB.
		Model(model.StarredFile{}).
		Where("user_id = ? AND file_id = ?", userID, fileID).
		Select("count(*) > 0").
		Find(&starred).
		Error

	return starred, err
}
