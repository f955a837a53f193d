package cli

import (
	"context"
	"fmt"
)

func (a *App) runCreate(ctx context.Context) error {
	name, err := GetSimpleText(a.reader, "Share name", a.out)
	if err != nil {
		return err
	}

	password, err := GetPassword("Upload password", a.out)
	if err != nil {
		return err
	}
	downloadPassword, err := GetPassword("Download password", a.out)
	if err != nil {
		return err
	}

	info, err := a.client.CreateShare(ctx, name, password, downloadPassword)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Share created: %s\n", info.ShareID)
	fmt.Fprintf(a.out, "Upload link:   %s\n", info.UploadLink)
	fmt.Fprintf(a.out, "Download link: %s\n", info.DownloadLink)
	return nil
}
