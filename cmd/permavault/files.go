package main

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/urfave/cli/v2"
)

var files = cli.Command{
	Name:  "files",
	Usage: "manage the encrypted files of the vault",
	Subcommands: []*cli.Command{
		{
			Name:  "list",
			Usage: "list the stored files, newest first",
			Flags: []cli.Flag{
				&cli.IntFlag{Name: "page", Value: 1},
				&cli.IntFlag{Name: "size", Value: 20},
			},
			Action: listFilesAction,
		},
		{
			Name:      "upload",
			Usage:     "encrypt and store a local file",
			ArgsUsage: "<path>",
			Action:    uploadFileAction,
		},
		{
			Name:      "download",
			Usage:     "decrypt a stored file",
			ArgsUsage: "<file id>",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "out",
					Usage: "destination path, defaults to the stored file name",
				},
			},
			Action: downloadFileAction,
		},
		{
			Name:      "delete",
			Usage:     "remove a file from the index",
			ArgsUsage: "<file id>",
			Action:    deleteFileAction,
		},
		{
			Name:      "price",
			Usage:     "show the cost of storing the given number of bytes",
			ArgsUsage: "<size>",
			Action:    filePriceAction,
		},
	},
}

type fileInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	ContentType string `json:"contentType"`
	Size        int64  `json:"size"`
	BlobID      string `json:"blobId"`
	CreatedAt   int64  `json:"createdAt"`
}

func listFilesAction(ctx *cli.Context) error {
	client, err := getClient()
	if err != nil {
		return err
	}

	path := fmt.Sprintf("/files?page=%d&size=%d", ctx.Int("page"), ctx.Int("size"))
	var resp struct {
		Files []fileInfo `json:"files"`
	}
	if err := client.call(http.MethodGet, path, nil, &resp); err != nil {
		return err
	}

	t := newTable(ctx)
	t.AppendHeader(table.Row{"ID", "Name", "Type", "Size", "Created"})
	for _, f := range resp.Files {
		t.AppendRow(table.Row{
			f.ID, f.Name, f.ContentType, f.Size,
			time.UnixMilli(f.CreatedAt).Format(time.DateTime),
		})
	}
	t.Render()
	return nil
}

func uploadFileAction(ctx *cli.Context) error {
	if ctx.NArg() < 1 {
		return &invalidUsageError{ctx, ctx.Command.Name}
	}
	path := ctx.Args().First()
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	client, err := getClient()
	if err != nil {
		return err
	}

	var f fileInfo
	if err := client.upload("/files", filepath.Base(path), data, &f); err != nil {
		return err
	}
	return printJSON(ctx.App.Writer, f)
}

func downloadFileAction(ctx *cli.Context) error {
	if ctx.NArg() < 1 {
		return &invalidUsageError{ctx, ctx.Command.Name}
	}
	id := ctx.Args().First()
	client, err := getClient()
	if err != nil {
		return err
	}

	out := ctx.String("out")
	if out == "" {
		var files struct {
			Files []fileInfo `json:"files"`
		}
		if err := client.call(
			http.MethodGet, "/files?size=500", nil, &files,
		); err != nil {
			return err
		}
		for _, f := range files.Files {
			if f.ID == id {
				out = filepath.Base(f.Name)
				break
			}
		}
		if out == "" {
			out = id
		}
	}

	data, err := client.raw(http.MethodGet, "/files/"+id, "", nil)
	if err != nil {
		return err
	}
	if err := os.WriteFile(out, data, 0600); err != nil {
		return err
	}
	fmt.Fprintf(ctx.App.Writer, "file saved to %s\n", out)
	return nil
}

func deleteFileAction(ctx *cli.Context) error {
	if ctx.NArg() < 1 {
		return &invalidUsageError{ctx, ctx.Command.Name}
	}
	client, err := getClient()
	if err != nil {
		return err
	}

	id := ctx.Args().First()
	if err := client.call(http.MethodDelete, "/files/"+id, nil, nil); err != nil {
		return err
	}
	fmt.Fprintf(ctx.App.Writer, "file %s deleted\n", id)
	return nil
}

func filePriceAction(ctx *cli.Context) error {
	if ctx.NArg() < 1 {
		return &invalidUsageError{ctx, ctx.Command.Name}
	}
	size, err := strconv.ParseInt(ctx.Args().First(), 10, 64)
	if err != nil {
		return fmt.Errorf("invalid size %q", ctx.Args().First())
	}
	client, err := getClient()
	if err != nil {
		return err
	}

	var price struct {
		Amount string `json:"amount"`
		Unit   string `json:"unit"`
	}
	if err := client.call(
		http.MethodGet, "/files/price?size="+strconv.FormatInt(size, 10), nil, &price,
	); err != nil {
		return err
	}
	return printJSON(ctx.App.Writer, price)
}
