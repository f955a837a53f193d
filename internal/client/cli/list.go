package cli

import (
	"context"
	"fmt"
)

func (a *App) runList(ctx context.Context, shareID string) error {
	password, err := GetPassword("Download password", a.out)
	if err != nil {
		return err
	}
	if err := a.client.AuthenticateDownload(ctx, shareID, password); err != nil {
		return err
	}

	files, err := a.client.ListFiles(ctx, shareID)
	if err != nil {
		return err
	}

	if len(files) == 0 {
		fmt.Fprintln(a.out, "No files in this share.")
		return nil
	}

	for _, f := range files {
		fmt.Fprintf(a.out, "%s  %10d  %-25s  %s\n", f.ID, f.Size, f.ContentType, f.Name)
	}
	return nil
}
