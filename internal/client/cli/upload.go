package cli

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"
)

func (a *App) runUpload(ctx context.Context, shareID, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	password, err := GetPassword("Upload password", a.out)
	if err != nil {
		return err
	}
	if err := a.client.Authenticate(ctx, shareID, password); err != nil {
		return err
	}

	fileName := filepath.Base(path)
	contentType := mime.TypeByExtension(filepath.Ext(path))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	if len(data) > multipartThreshold {
		return a.uploadMultipart(ctx, shareID, fileName, contentType, data)
	}
	return a.uploadSingle(ctx, shareID, fileName, contentType, data)
}

func (a *App) uploadSingle(ctx context.Context, shareID, fileName, contentType string, data []byte) error {
	ticket, err := a.client.UploadURL(ctx, shareID, fileName, contentType, int64(len(data)))
	if err != nil {
		return err
	}
	if err := a.client.TransferBytes(ctx, ticket.URL, data); err != nil {
		return err
	}
	if err := a.client.CompleteUpload(ctx, shareID, ticket.FileID, int64(len(data))); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Uploaded %s (%d bytes), file id %s\n", fileName, len(data), ticket.FileID)
	return nil
}

func (a *App) uploadMultipart(ctx context.Context, shareID, fileName, contentType string, data []byte) error {
	ticket, err := a.client.InitMultipart(ctx, shareID, fileName, contentType)
	if err != nil {
		return err
	}

	var parts []int
	for offset, n := 0, 1; offset < len(data); offset, n = offset+partSize, n+1 {
		end := offset + partSize
		if end > len(data) {
			end = len(data)
		}

		signed, err := a.client.PartURL(ctx, shareID, ticket.UploadID, n)
		if err != nil {
			return fmt.Errorf("part %d: %w", n, err)
		}
		if err := a.client.TransferBytes(ctx, signed.URL, data[offset:end]); err != nil {
			return fmt.Errorf("part %d: %w", n, err)
		}
		parts = append(parts, n)
		fmt.Fprintf(a.out, "Uploaded part %d (%d bytes)\n", n, end-offset)
	}

	if err := a.client.CompleteMultipart(ctx, shareID, ticket.UploadID, parts); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Uploaded %s (%d bytes in %d parts), file id %s\n", fileName, len(data), len(parts), ticket.FileID)
	return nil
}
