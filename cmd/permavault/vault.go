package main

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"syscall"

	"github.com/urfave/cli/v2"
	"golang.org/x/term"
)

var passwordFlag = cli.StringFlag{
	Name:  "password",
	Usage: "the vault password, prompted if not given",
}

var status = cli.Command{
	Name:   "status",
	Usage:  "show whether the vault is locked and how many wallets it holds",
	Action: statusAction,
}

var unlock = cli.Command{
	Name:   "unlock",
	Usage:  "unlock the vault with the given password",
	Flags:  []cli.Flag{&passwordFlag},
	Action: unlockAction,
}

var lock = cli.Command{
	Name:   "lock",
	Usage:  "lock the vault and wipe the master key from the daemon memory",
	Action: lockAction,
}

type vaultStatus struct {
	Locked      bool   `json:"locked"`
	VaultID     string `json:"vaultId,omitempty"`
	WalletCount int    `json:"walletCount"`
	HasSalt     bool   `json:"hasSalt"`
}

func statusAction(ctx *cli.Context) error {
	return vaultStatusAction(ctx, http.MethodGet, "/status", nil)
}

func unlockAction(ctx *cli.Context) error {
	password, err := getPassword(ctx)
	if err != nil {
		return err
	}
	return vaultStatusAction(
		ctx, http.MethodPost, "/unlock", map[string]string{"password": password},
	)
}

func lockAction(ctx *cli.Context) error {
	return vaultStatusAction(ctx, http.MethodPost, "/lock", nil)
}

func vaultStatusAction(
	ctx *cli.Context, method, path string, body interface{},
) error {
	client, err := getClient()
	if err != nil {
		return err
	}

	var resp vaultStatus
	if err := client.call(method, path, body, &resp); err != nil {
		return err
	}
	return printJSON(ctx.App.Writer, resp)
}

// getPassword reads the password from the --password flag, then from
// PERMAVAULT_CLI_PASSWORD and, as a last resort, from the terminal.
func getPassword(ctx *cli.Context) (string, error) {
	if password := ctx.String(passwordFlag.Name); password != "" {
		return password, nil
	}
	if env.Password != "" {
		return env.Password, nil
	}
	if !term.IsTerminal(int(syscall.Stdin)) {
		return "", errors.New("password is missing")
	}

	fmt.Fprint(os.Stderr, "Password: ")
	pw, err := term.ReadPassword(int(syscall.Stdin)) // nolint:unconvert
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}
	password := strings.TrimSpace(string(pw))
	if password == "" {
		return "", errors.New("password must not be empty")
	}
	return password, nil
}
