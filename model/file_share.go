package model

// FileShare is a grant giving one recipient read access to one file.
// Revoking never deletes the row, it only sets RevokedAt, so the full
// share history of a file is kept around. The partial unique index
// guarantees a single live grant per (file, recipient) pair even when
// two grant requests race.
type FileShare struct {
	ID     uint `gorm:"primaryKey;autoIncrement" json:"id"`
	FileID uint `gorm:"not null;index;uniqueIndex:idx_active_share,where:revoked_at IS NULL" json:"fileId"`

	// Copied from the file at grant time so ownership checks don't need a join
	OwnerID string `gorm:"not null;index" json:"-"`

	// Recipients are addressed by email, they don't need an account yet
	SharedWithEmail string `gorm:"not null;index;uniqueIndex:idx_active_share,where:revoked_at IS NULL" json:"sharedWithEmail"`
	// Filled in when the recipient already has an account at grant time
	SharedWithID *string `json:"-"`

	// Unix millisecond timestamps
	GrantedAt int64  `gorm:"not null" json:"grantedAt"`
	RevokedAt *int64 `json:"revokedAt,omitempty"`
}

// Active reports whether the grant still gives the recipient access
func (s *FileShare) Active() bool {
	return s.RevokedAt == nil
}
