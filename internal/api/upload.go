package api

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// saveUpload stores an attached "file" multipart field under the upload
// directory and returns the stored path. Returns (nil, nil) when the
// request carries no file; only the path handle is ever persisted on the
// task, never the bytes.
func (s *Server) saveUpload(c echo.Context) (*string, error) {
	header, err := c.FormFile("file")
	if err != nil {
		// Not a multipart request, or no file attached.
		return nil, nil
	}

	src, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open upload: %w", err)
	}
	defer src.Close()

	if err := os.MkdirAll(s.uploadDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}

	name := fmt.Sprintf("%d-%s%s", time.Now().UnixMilli(), uuid.NewString(), filepath.Ext(header.Filename))
	path := filepath.Join(s.uploadDir, name)

	dst, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create upload file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return nil, fmt.Errorf("failed to write upload: %w", err)
	}
	return &path, nil
}
