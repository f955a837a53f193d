// Package cli implements the interactive command-line tool: creating
// shares, uploading files (multipart for large ones), listing and
// downloading.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/sharedrop/internal/client"
)

// Files above multipartThreshold are uploaded in partSize chunks.
const (
	multipartThreshold = 8 << 20
	partSize           = 5 << 20
)

type App struct {
	client *client.Client
	reader *bufio.Reader
	out    io.Writer
}

func NewApp(serverAddr string) *App {
	return &App{
		client: client.New(serverAddr),
		reader: bufio.NewReader(os.Stdin),
		out:    os.Stdout,
	}
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  create                           create a new share")
	fmt.Fprintln(w, "  upload <share-id> <path>         upload a file to a share")
	fmt.Fprintln(w, "  list <share-id>                  list files in a share")
	fmt.Fprintln(w, "  download <share-id> <file-id> [dest]  download a file")
}

func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		usage(a.out)
		return fmt.Errorf("no command given")
	}

	switch args[0] {
	case "create":
		return a.runCreate(ctx)
	case "upload":
		if len(args) < 3 {
			return fmt.Errorf("usage: upload <share-id> <path>")
		}
		return a.runUpload(ctx, args[1], args[2])
	case "list":
		if len(args) < 2 {
			return fmt.Errorf("usage: list <share-id>")
		}
		return a.runList(ctx, args[1])
	case "download":
		dest := ""
		if len(args) >= 4 {
			dest = args[3]
		}
		if len(args) < 3 {
			return fmt.Errorf("usage: download <share-id> <file-id> [dest]")
		}
		return a.runDownload(ctx, args[1], args[2], dest)
	default:
		usage(a.out)
		return fmt.Errorf("unknown command %q", args[0])
	}
}
