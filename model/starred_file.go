package model

// StarredFile is a private per-viewer bookmark. It has no effect on
// sharing or ownership and is never visible to other users.
type StarredFile struct {
	ID     uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID string `gorm:"not null;uniqueIndex:idx_user_file" json:"-"`
	FileID uint   `gorm:"not null;uniqueIndex:idx_user_file" json:"fileId"`
	// Unix millisecond timestamp
	CreatedAt int64 `gorm:"not null" json:"created_at"`
}
