package cli

import (
	"context"
	"fmt"
	"os"
)

func (a *App) runDownload(ctx context.Context, shareID, fileID, dest string) error {
	password, err := GetPassword("Download password", a.out)
	if err != nil {
		return err
	}
	if err := a.client.AuthenticateDownload(ctx, shareID, password); err != nil {
		return err
	}

	info, err := a.client.DownloadURL(ctx, shareID, fileID)
	if err != nil {
		return err
	}

	if dest == "" {
		dest = info.FileName
	}

	f, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("creating %s: %w", dest, err)
	}
	defer f.Close()

	n, err := a.client.Download(ctx, info.URL, f)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Downloaded %s (%d bytes) to %s\n", info.FileName, n, dest)
	return nil
}
