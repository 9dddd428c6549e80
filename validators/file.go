package validators

import (
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/gabriel-vasile/mimetype"
	"github.com/spf13/viper"
)

var (
	ErrFileTooLarge    = errors.New("file too large")
	ErrFileNameTooLong = errors.New("file name is too long")
	ErrNoFile          = errors.New("no file provided")
)

const maxFileNameSize = 255

// FileValidator checks an uploaded file against the configured limits and
// returns the MIME type to record. The client-supplied Content-Type is
// trusted when present; otherwise the content is sniffed, since any file
// type is accepted and the type is only metadata here.
func FileValidator(fh *multipart.FileHeader) (int, string, error) {
	if fh == nil {
		return http.StatusBadRequest, "", ErrNoFile
	}

	if len(fh.Filename) > maxFileNameSize {
		return http.StatusBadRequest, "", ErrFileNameTooLong
	}

	if fh.Size > viper.GetInt64("upload.max_size") {
		return http.StatusRequestEntityTooLarge, "", ErrFileTooLarge
	}

	if ct := fh.Header.Get("Content-Type"); ct != "" {
		return 0, ct, nil
	}

	f, err := fh.Open()
	if err != nil {
		return http.StatusInternalServerError, "", err
	}
	defer f.Close()

	mime, err := mimetype.DetectReader(f)
	if err != nil {
		return http.StatusInternalServerError, "", err
	}

	return 0, mime.String(), nil
}
