package utils

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

const MaxImageSize = 5 << 20 // 5 MB

// SaveImage stores an uploaded image under dir and returns the public path.
func SaveImage(file multipart.File, header *multipart.FileHeader, dir string) (string, error) {
	if header.Size > MaxImageSize {
		return "", NewValidationError("logo", fmt.Sprintf("file size exceeds maximum limit of %d MB", MaxImageSize/(1<<20)))
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !isValidImageType(ext) {
		return "", NewValidationError("logo", fmt.Sprintf("invalid file type: %s", ext))
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}

	filename := fmt.Sprintf("%s-%s%s",
		time.Now().Format("20060102"),
		uuid.New().String(),
		ext,
	)

	dst, err := os.Create(filepath.Join(dir, filename))
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		return "", fmt.Errorf("failed to save file: %w", err)
	}

	return "/images/" + filename, nil
}

func isValidImageType(ext string) bool {
	switch ext {
	case ".jpg", ".jpeg", ".png", ".gif", ".webp":
		return true
	}
	return false
}

// DeleteImage removes a previously saved image; a missing file is not an error.
func DeleteImage(imageURL, dir string) error {
	if imageURL == "" {
		return nil
	}
	filePath := filepath.Join(dir, filepath.Base(imageURL))
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return nil
	}
	return os.Remove(filePath)
}
