package storage

import (
	"fmt"
	"io"
	"mime/multipart"
)

// ReadUpload reads a multipart file, enforcing the policy size before and after reading.
func ReadUpload(fh *multipart.FileHeader, p Policy) ([]byte, string, string, error) {
	if p.MaxSize > 0 && fh.Size > p.MaxSize {
		return nil, "", "", ErrTooLarge
	}
	f, err := fh.Open()
	if err != nil {
		return nil, "", "", fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	limit := p.MaxSize
	if limit <= 0 {
		limit = 32 << 20
	}
	data, err := io.ReadAll(io.LimitReader(f, limit+1))
	if err != nil {
		return nil, "", "", fmt.Errorf("read upload: %w", err)
	}
	contentType, ext, err := p.Check(data)
	if err != nil {
		return nil, "", "", err
	}
	return data, contentType, ext, nil
}
