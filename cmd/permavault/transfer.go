package main

import (
	"net/http"

	"github.com/permavault/permavault-daemon/pkg/mathutil"
	"github.com/urfave/cli/v2"
)

var transferFlags = []cli.Flag{
	&cli.Uint64Flag{
		Name:     "wallet",
		Usage:    "id of the bitcoin wallet to spend from",
		Required: true,
	},
	&cli.StringFlag{
		Name:     "to",
		Usage:    "the recipient bitcoin address",
		Required: true,
	},
	&cli.StringFlag{
		Name:     "amount",
		Usage:    "the amount to send in BTC, e.g. 0.0015",
		Required: true,
	},
}

var quote = cli.Command{
	Name:   "quote",
	Usage:  "preview the fee and change of a bitcoin transfer",
	Flags:  transferFlags,
	Action: quoteAction,
}

var send = cli.Command{
	Name:   "send",
	Usage:  "sign and broadcast a bitcoin transfer",
	Flags:  append(append([]cli.Flag{}, transferFlags...), &passwordFlag),
	Action: sendAction,
}

type transferParams struct {
	WalletID uint64 `json:"walletId"`
	To       string `json:"to"`
	Amount   uint64 `json:"amount"`
	Password string `json:"password,omitempty"`
}

func parseTransferParams(ctx *cli.Context) (*transferParams, error) {
	amount, err := mathutil.BTCToSats(ctx.String("amount"))
	if err != nil {
		return nil, err
	}
	return &transferParams{
		WalletID: ctx.Uint64("wallet"),
		To:       ctx.String("to"),
		Amount:   amount,
	}, nil
}

func quoteAction(ctx *cli.Context) error {
	params, err := parseTransferParams(ctx)
	if err != nil {
		return err
	}
	client, err := getClient()
	if err != nil {
		return err
	}

	var preview map[string]interface{}
	if err := client.call(
		http.MethodPost, "/bitcoin/quote", params, &preview,
	); err != nil {
		return err
	}
	return printJSON(ctx.App.Writer, preview)
}

func sendAction(ctx *cli.Context) error {
	params, err := parseTransferParams(ctx)
	if err != nil {
		return err
	}
	if params.Password, err = getPassword(ctx); err != nil {
		return err
	}
	client, err := getClient()
	if err != nil {
		return err
	}

	var resp struct {
		TxID string `json:"txid"`
	}
	if err := client.call(
		http.MethodPost, "/bitcoin/send", params, &resp,
	); err != nil {
		return err
	}
	return printJSON(ctx.App.Writer, resp)
}
