package main

import (
	"fmt"
	"net/http"
	"os"
	"strconv"

	"github.com/urfave/cli/v2"
)

var export = cli.Command{
	Name:  "export",
	Usage: "export the wallets and settings of the vault to a JSON file",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "out",
			Usage: "destination file, the backup is printed if not given",
		},
	},
	Action: exportAction,
}

var importBackup = cli.Command{
	Name:      "import-backup",
	Usage:     "import a JSON backup produced by export",
	ArgsUsage: "<backup file>",
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:  "merge",
			Usage: "move the imported wallets into the unlocked vault",
		},
	},
	Action: importBackupAction,
}

func exportAction(ctx *cli.Context) error {
	client, err := getClient()
	if err != nil {
		return err
	}

	backup, err := client.raw(http.MethodGet, "/backup/export", "", nil)
	if err != nil {
		return err
	}

	path := ctx.String("out")
	if path == "" {
		_, err := fmt.Fprintln(ctx.App.Writer, string(backup))
		return err
	}
	if err := os.WriteFile(path, backup, 0600); err != nil {
		return err
	}
	fmt.Fprintf(ctx.App.Writer, "backup saved to %s\n", path)
	return nil
}

func importBackupAction(ctx *cli.Context) error {
	if ctx.NArg() < 1 {
		return &invalidUsageError{ctx, ctx.Command.Name}
	}
	data, err := os.ReadFile(ctx.Args().First())
	if err != nil {
		return err
	}
	client, err := getClient()
	if err != nil {
		return err
	}

	path := "/backup/import?merge=" + strconv.FormatBool(ctx.Bool("merge"))
	resp, err := client.raw(http.MethodPost, path, "application/json", data)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(ctx.App.Writer, string(resp))
	return err
}
