package handlers

import (
	"fmt"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// maxUploadSize caps individual image uploads at 5 MiB.
const maxUploadSize = 5 << 20

var allowedImageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// saveUploadedImage stores a multipart image under uploadsDir (plus an
// optional subdirectory) with a random filename and returns the public
// URL path. A missing file is not an error; both return values are
// empty.
func saveUploadedImage(c *gin.Context, formField, uploadsDir, subdir string) (string, error) {
	file, err := c.FormFile(formField)
	if err != nil {
		return "", nil
	}
	return storeImage(c, file, uploadsDir, subdir)
}

func storeImage(c *gin.Context, file *multipart.FileHeader, uploadsDir, subdir string) (string, error) {
	if file.Size > maxUploadSize {
		return "", fmt.Errorf("file too large: %d bytes", file.Size)
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedImageExtensions[ext] {
		return "", fmt.Errorf("unsupported file type %q", ext)
	}

	dir := filepath.Join(uploadsDir, subdir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}

	filename := uuid.New().String() + ext
	if err := c.SaveUploadedFile(file, filepath.Join(dir, filename)); err != nil {
		return "", fmt.Errorf("failed to save upload: %w", err)
	}

	return path.Join("/uploads", subdir, filename), nil
}
