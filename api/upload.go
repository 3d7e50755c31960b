package api

import (
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
)

const maxThumbnailSize = 5 << 20 // 5MB

var allowedThumbnailExts = map[string]bool{
	".jpeg": true,
	".jpg":  true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// saveThumbnail stores an uploaded thumbnail image under the upload
// directory and returns its public URL path. Returns uploaded=false when
// the form carries no thumbnail file.
func saveThumbnail(r *http.Request, uploadDir string) (string, bool, error) {
	file, header, err := r.FormFile("thumbnail")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return "", false, nil
		}
		return "", false, err
	}
	defer file.Close()

	if header.Size > maxThumbnailSize {
		return "", false, fmt.Errorf("thumbnail exceeds the %dMB size limit", maxThumbnailSize>>20)
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedThumbnailExts[ext] {
		return "", false, fmt.Errorf("only image files are allowed")
	}

	dir := filepath.Join(uploadDir, "projects")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", false, err
	}

	name := fmt.Sprintf("thumbnail-%d-%d%s", time.Now().UnixMilli(), rand.Intn(1_000_000_000), ext)
	dst, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return "", false, err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		return "", false, err
	}

	return path.Join("/uploads/projects", name), true, nil
}
