package model

type File struct {
	ID     uint   `gorm:"primaryKey;autoIncrement;index" json:"id"`
	UserID string `gorm:"not null;index" json:"-"`

	// Since we want to allow different users to have files with the same name we
	// need to keep the S3 objects under a different key
	S3Key string `json:"-"`

	// Original file name as the user uploaded it
	OriginalName string `json:"name"`
	Format       string `json:"format"`
	Size         int64  `json:"size"`
	// Public files can be served without a grant. Completely separate from
	// email shares, a public file still needs explicit grants to show up in
	// anyone's shared-with-me view
	Public bool  `json:"public"`
	Views  int32 `json:"views"`
	// Unix millisecond timestamp
	CreatedAt int64 `gorm:"not null" json:"created_at"`
}
