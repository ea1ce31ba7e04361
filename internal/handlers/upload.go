package handlers

import (
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const maxCoverSize = 5 * 1024 * 1024 // 5MB

var allowedCoverExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
}

// coverFileName builds the stored filename: <uuid>_<unix>.<ext>.
func coverFileName(originalName string, now time.Time) string {
	ext := strings.ToLower(filepath.Ext(originalName))
	return fmt.Sprintf("%s_%d%s", uuid.New().String(), now.Unix(), ext)
}

// coverUploadDir is the date-partitioned directory covers land in:
// uploads/<year>/<month>/<day>.
func coverUploadDir(root string, now time.Time) string {
	return filepath.Join(root, now.Format("2006"), now.Format("01"), now.Format("02"))
}

// validateCoverUpload enforces the extension and size rules. It returns
// a user-facing Indonesian message, empty when the file is acceptable.
func validateCoverUpload(filename string, size int64) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedCoverExtensions[ext] {
		return "Format file tidak didukung. Gunakan JPG, PNG, atau GIF."
	}
	if size > maxCoverSize {
		return "Ukuran file terlalu besar. Maksimal 5MB."
	}
	return ""
}

// saveCoverImage stores an uploaded cover under the dated uploads tree
// and returns its public URL. The returned message is non-empty when
// the file was rejected.
func (h *Handlers) saveCoverImage(c *gin.Context, file *multipart.FileHeader) (url string, errMsg string, err error) {
	now := time.Now()

	if msg := validateCoverUpload(file.Filename, file.Size); msg != "" {
		return "", msg, nil
	}

	dir := coverUploadDir("./uploads", now)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", "", err
	}

	name := coverFileName(file.Filename, now)
	if err := c.SaveUploadedFile(file, filepath.Join(dir, name)); err != nil {
		return "", "", err
	}

	baseURL := os.Getenv("BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	return fmt.Sprintf("%s/uploads/%s/%s/%s/%s",
		baseURL, now.Format("2006"), now.Format("01"), now.Format("02"), name), "", nil
}
