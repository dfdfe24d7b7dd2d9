// services/asset_service.go
package services

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// AssetService stores identity-document images addressed by an opaque public
// identifier. Upload returns the identifier; deletion is by identifier and
// callers treat failures as non-fatal.
type AssetService struct {
	BaseDir string
}

const documentSubdir = "documents"

func NewAssetService(baseDir string) *AssetService {
	if strings.TrimSpace(baseDir) == "" {
		baseDir = "uploads"
	}
	return &AssetService{BaseDir: baseDir}
}

// SaveBase64Document decodes a (possibly data-URL prefixed) base64 image and
// stores it under a fresh public ID.
func (s *AssetService) SaveBase64Document(b64 string) (string, error) {
	if idx := strings.Index(b64, "base64,"); idx >= 0 {
		b64 = b64[idx+7:]
	}

	data, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return "", fmt.Errorf("decode base64: %w", err)
	}
	if len(data) == 0 {
		return "", validationErr("document", "empty document payload")
	}

	dir := filepath.Join(s.BaseDir, documentSubdir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("mkdir uploads dir: %w", err)
	}

	id := uuid.NewString()
	if err := os.WriteFile(filepath.Join(dir, id+".jpg"), data, 0644); err != nil {
		return "", fmt.Errorf("write file: %w", err)
	}
	return id, nil
}

// PublicPath is the URL path the router serves the document at.
func (s *AssetService) PublicPath(id string) string {
	return "/" + path(s.BaseDir, documentSubdir, id+".jpg")
}

func path(parts ...string) string {
	return filepath.ToSlash(filepath.Join(parts...))
}

// Delete removes a stored document by public ID. A missing file counts as
// success; the ID must parse as a UUID so nothing outside the uploads dir is
// reachable.
func (s *AssetService) Delete(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("invalid asset id: %w", err)
	}
	err := os.Remove(filepath.Join(s.BaseDir, documentSubdir, id+".jpg"))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
