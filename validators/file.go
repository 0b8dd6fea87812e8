package validators

import (
	"driveshare/file-api/model"
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gabriel-vasile/mimetype"
	"github.com/spf13/viper"
	"gorm.io/gorm"
)

var (
	ErrFileTooLarge    = errors.New("file too large")
	ErrFileNameTooLong = errors.New("file name is too long")
	ErrNoFile          = errors.New("no file provided")
	ErrNoSpace         = errors.New("not enough space")
)

const maxFileNameSize = 255

// FileValidator checks an uploaded file against the name, size and quota
// limits and sniffs its real content type. Returns the detected type and
// an open handle positioned at the start of the file.
func FileValidator(fh *multipart.FileHeader, db *gorm.DB, userID string) (int, string, multipart.File, error) {
	if fh == nil {
		return http.StatusBadRequest, "", nil, ErrNoFile
	}

	if len(fh.Filename) > maxFileNameSize {
		return http.StatusBadRequest, "", nil, ErrFileNameTooLong
	}

	maxFileSize := viper.GetInt64("upload.max_size")
	if fh.Size > maxFileSize {
		return http.StatusRequestEntityTooLarge, "", nil, ErrFileTooLarge
	}

	if db != nil {
		var usedSpace int64
		err := db.
			Model(model.Stats{}).
			Where("user_id = ? ", userID).
			Select("used_storage").
			First(&usedSpace).
			Error
		if err != nil {
			return http.StatusInternalServerError, "", nil, err
		}

		if usedSpace+fh.Size > viper.GetInt64("storage.max_usage") {
			return http.StatusConflict, "", nil, ErrNoSpace
		}
	}

	// Don't trust the Content-Type header, sniff the actual bytes
	f, err := fh.Open()
	if err != nil {
		return http.StatusInternalServerError, "", nil, err
	}

	mime, err := mimetype.DetectReader(f)
	if err != nil {
		return http.StatusInternalServerError, "", nil, err
	}

	f.Seek(0, io.SeekStart)

	return 0, mime.String(), f, nil
}
