package site

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
}

// errUnsupportedImage is reported to the reader as a form error.
var errUnsupportedImage = errors.New("unsupported image type")

// saveUpload stores the optional image of field under a random name and
// returns that name, or nil when nothing was uploaded.
func (s *Site) saveUpload(c *fiber.Ctx, field string) (*string, error) {
	header, err := c.FormFile(field)
	if err != nil || header.Size == 0 {
		return nil, nil
	}

	file, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	sniff := make([]byte, 512)
	n, _ := file.Read(sniff)
	_ = file.Close()

	ext, ok := allowedImageTypes[http.DetectContentType(sniff[:n])]
	if !ok {
		return nil, errUnsupportedImage
	}
	if declared := strings.ToLower(filepath.Ext(header.Filename)); declared == ".jpeg" {
		ext = declared
	}

	name := uuid.NewString() + ext
	if err := c.SaveFile(header, filepath.Join(s.config.UploadDir, name)); err != nil {
		return nil, fmt.Errorf("save upload: %w", err)
	}
	return &name, nil
}
