package main

import (
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/mdp/qrterminal/v3"
	"github.com/urfave/cli/v2"
)

var (
	chainFlag = cli.StringFlag{
		Name:  "chain",
		Usage: "one of ethereum, bitcoin, solana, sui, arweave",
	}
	aliasFlag = cli.StringFlag{
		Name:  "alias",
		Usage: "a human readable name for the wallet",
	}
)

var create = cli.Command{
	Name:   "create",
	Usage:  "generate a new wallet for the given chain",
	Flags:  []cli.Flag{&chainFlag, &aliasFlag},
	Action: createAction,
}

var importWallet = cli.Command{
	Name:      "import",
	Usage:     "import a private key or mnemonic, the chain is detected from the key",
	ArgsUsage: "<key>",
	Flags: []cli.Flag{
		&aliasFlag,
		&cli.StringFlag{
			Name:  "chain",
			Usage: "chain to derive a mnemonic for, defaults to ethereum",
		},
	},
	Action: importWalletAction,
}

var list = cli.Command{
	Name:   "list",
	Usage:  "list the wallets of the unlocked vault",
	Action: listAction,
}

var reveal = cli.Command{
	Name:      "reveal",
	Usage:     "decrypt and print the secret of a wallet",
	ArgsUsage: "<wallet id>",
	Flags:     []cli.Flag{&passwordFlag},
	Action:    revealAction,
}

var alias = cli.Command{
	Name:      "alias",
	Usage:     "rename a wallet",
	ArgsUsage: "<wallet id> <alias>",
	Action:    aliasAction,
}

var deleteWallet = cli.Command{
	Name:      "delete",
	Usage:     "delete a wallet, or all wallets of the vault with --all",
	ArgsUsage: "<wallet id>",
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:  "all",
			Usage: "delete every wallet and setting of the vault",
		},
	},
	Action: deleteWalletAction,
}

var receive = cli.Command{
	Name:      "receive",
	Usage:     "show the address of a wallet as a QR code",
	ArgsUsage: "<wallet id>",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "png",
			Usage: "also save the QR code as PNG to the given path",
		},
	},
	Action: receiveAction,
}

var balances = cli.Command{
	Name:   "balances",
	Usage:  "show the balance of every wallet",
	Action: balancesAction,
}

type walletInfo struct {
	ID        uint64 `json:"id"`
	Chain     string `json:"chain"`
	Address   string `json:"address"`
	Alias     string `json:"alias"`
	CreatedAt int64  `json:"createdAt"`
}

type walletBalance struct {
	WalletID      uint64 `json:"walletId"`
	Chain         string `json:"chain"`
	Address       string `json:"address"`
	Symbol        string `json:"symbol"`
	DisplayAmount string `json:"displayAmount"`
	Error         string `json:"error"`
}

func createAction(ctx *cli.Context) error {
	client, err := getClient()
	if err != nil {
		return err
	}

	var w walletInfo
	if err := client.call(http.MethodPost, "/wallets", map[string]string{
		"chain": ctx.String(chainFlag.Name),
		"alias": ctx.String(aliasFlag.Name),
	}, &w); err != nil {
		return err
	}
	return printJSON(ctx.App.Writer, w)
}

func importWalletAction(ctx *cli.Context) error {
	if ctx.NArg() < 1 {
		return &invalidUsageError{ctx, ctx.Command.Name}
	}
	client, err := getClient()
	if err != nil {
		return err
	}

	var w walletInfo
	if err := client.call(http.MethodPost, "/wallets/import", map[string]string{
		"key":   ctx.Args().First(),
		"alias": ctx.String(aliasFlag.Name),
		"chain": ctx.String("chain"),
	}, &w); err != nil {
		return err
	}
	return printJSON(ctx.App.Writer, w)
}

func listAction(ctx *cli.Context) error {
	client, err := getClient()
	if err != nil {
		return err
	}

	var resp struct {
		Wallets []walletInfo `json:"wallets"`
	}
	if err := client.call(http.MethodGet, "/wallets", nil, &resp); err != nil {
		return err
	}

	t := newTable(ctx)
	t.AppendHeader(table.Row{"ID", "Chain", "Address", "Alias", "Created"})
	for _, w := range resp.Wallets {
		t.AppendRow(table.Row{
			w.ID, w.Chain, w.Address, w.Alias,
			time.UnixMilli(w.CreatedAt).Format(time.DateTime),
		})
	}
	t.Render()
	return nil
}

func revealAction(ctx *cli.Context) error {
	id, err := walletIDArg(ctx)
	if err != nil {
		return err
	}
	password, err := getPassword(ctx)
	if err != nil {
		return err
	}
	client, err := getClient()
	if err != nil {
		return err
	}

	var secret struct {
		Key      string `json:"key"`
		Mnemonic string `json:"mnemonic,omitempty"`
	}
	if err := client.call(
		http.MethodPost, walletPath(id)+"/reveal",
		map[string]string{"password": password}, &secret,
	); err != nil {
		return err
	}
	return printJSON(ctx.App.Writer, secret)
}

func aliasAction(ctx *cli.Context) error {
	if ctx.NArg() < 2 {
		return &invalidUsageError{ctx, ctx.Command.Name}
	}
	id, err := walletIDArg(ctx)
	if err != nil {
		return err
	}
	client, err := getClient()
	if err != nil {
		return err
	}

	var w walletInfo
	if err := client.call(
		http.MethodPatch, walletPath(id),
		map[string]string{"alias": ctx.Args().Get(1)}, &w,
	); err != nil {
		return err
	}
	return printJSON(ctx.App.Writer, w)
}

func deleteWalletAction(ctx *cli.Context) error {
	client, err := getClient()
	if err != nil {
		return err
	}

	if ctx.Bool("all") {
		var resp struct {
			Deleted int `json:"deleted"`
		}
		if err := client.call(http.MethodDelete, "/wallets", nil, &resp); err != nil {
			return err
		}
		fmt.Fprintf(ctx.App.Writer, "deleted %d wallets\n", resp.Deleted)
		return nil
	}

	id, err := walletIDArg(ctx)
	if err != nil {
		return err
	}
	if err := client.call(http.MethodDelete, walletPath(id), nil, nil); err != nil {
		return err
	}
	fmt.Fprintf(ctx.App.Writer, "wallet %d deleted\n", id)
	return nil
}

func receiveAction(ctx *cli.Context) error {
	id, err := walletIDArg(ctx)
	if err != nil {
		return err
	}
	client, err := getClient()
	if err != nil {
		return err
	}

	var w walletInfo
	if err := client.call(http.MethodGet, walletPath(id), nil, &w); err != nil {
		return err
	}

	qrterminal.GenerateHalfBlock(w.Address, qrterminal.L, ctx.App.Writer)
	fmt.Fprintf(ctx.App.Writer, "%s address: %s\n", w.Chain, w.Address)

	if path := ctx.String("png"); path != "" {
		png, err := client.raw(http.MethodGet, walletPath(id)+"/qr", "", nil)
		if err != nil {
			return err
		}
		if err := os.WriteFile(path, png, 0644); err != nil {
			return err
		}
		fmt.Fprintf(ctx.App.Writer, "QR code saved to %s\n", path)
	}
	return nil
}

func balancesAction(ctx *cli.Context) error {
	client, err := getClient()
	if err != nil {
		return err
	}

	var resp struct {
		Balances []walletBalance `json:"balances"`
	}
	if err := client.call(http.MethodGet, "/balances", nil, &resp); err != nil {
		return err
	}

	t := newTable(ctx)
	t.AppendHeader(table.Row{"ID", "Chain", "Address", "Balance"})
	for _, b := range resp.Balances {
		amount := b.DisplayAmount + " " + b.Symbol
		if b.Error != "" {
			amount = "error: " + b.Error
		}
		t.AppendRow(table.Row{b.WalletID, b.Chain, b.Address, amount})
	}
	t.Render()
	return nil
}

func walletIDArg(ctx *cli.Context) (uint64, error) {
	if ctx.NArg() < 1 {
		return 0, &invalidUsageError{ctx, ctx.Command.Name}
	}
	id, err := strconv.ParseUint(ctx.Args().First(), 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid wallet id %q", ctx.Args().First())
	}
	return id, nil
}

func walletPath(id uint64) string {
	return "/wallets/" + strconv.FormatUint(id, 10)
}

func newTable(ctx *cli.Context) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(ctx.App.Writer)
	t.SetStyle(table.StyleLight)
	return t
}
