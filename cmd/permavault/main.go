package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/kelseyhightower/envconfig"
	"github.com/urfave/cli/v2"
)

const (
	envPrefix        = "PERMAVAULT_CLI"
	defaultRPCServer = "localhost:9090"
	rpcServerKey     = "rpcserver"
)

var (
	cliDatadir = btcutil.AppDataDir("permavault-cli", false)
	statePath  = filepath.Join(cliDatadir, "state.json")
)

// envOverrides are read from PERMAVAULT_CLI_* variables and take precedence
// over the local state.
type envOverrides struct {
	RPCServer string `envconfig:"RPCSERVER"`
	Password  string `envconfig:"PASSWORD"`
	Datadir   string `envconfig:"DATADIR"`
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fatal(err)
	}
}

func newApp() *cli.App {
	app := cli.NewApp()

	app.Version = "0.1.0"
	app.Name = "permavault"
	app.Usage = "Command line interface for the permavault daemon"
	app.Before = loadEnv
	app.Commands = append(
		app.Commands,
		&config,
		&status,
		&unlock,
		&lock,
		&create,
		&importWallet,
		&list,
		&reveal,
		&alias,
		&deleteWallet,
		&receive,
		&balances,
		&quote,
		&send,
		&export,
		&importBackup,
		&files,
	)
	return app
}

var env envOverrides

func loadEnv(*cli.Context) error {
	if err := envconfig.Process(envPrefix, &env); err != nil {
		return fmt.Errorf("invalid environment: %w", err)
	}
	if env.Datadir != "" {
		cliDatadir = env.Datadir
		statePath = filepath.Join(cliDatadir, "state.json")
	}
	return nil
}

func getState() (map[string]string, error) {
	data := map[string]string{}

	file, err := os.ReadFile(statePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return data, nil
		}
		return nil, fmt.Errorf("get config state error: %w", err)
	}
	if err := json.Unmarshal(file, &data); err != nil {
		return nil, fmt.Errorf("malformed config state, try 'config init': %w", err)
	}
	return data, nil
}

func setState(data map[string]string) error {
	if err := os.MkdirAll(cliDatadir, 0755); err != nil {
		return err
	}

	currentData, err := getState()
	if err != nil {
		return err
	}

	buf, err := json.MarshalIndent(merge(currentData, data), "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(statePath, buf, 0644); err != nil {
		return fmt.Errorf("writing to file: %w", err)
	}
	return nil
}

func merge(maps ...map[string]string) map[string]string {
	merge := make(map[string]string)
	for _, m := range maps {
		for k, v := range m {
			merge[k] = v
		}
	}
	return merge
}

func getRPCServer() (string, error) {
	if env.RPCServer != "" {
		return env.RPCServer, nil
	}
	state, err := getState()
	if err != nil {
		return "", err
	}
	if address, ok := state[rpcServerKey]; ok && address != "" {
		return address, nil
	}
	return defaultRPCServer, nil
}

func printJSON(w io.Writer, v interface{}) error {
	buf, err := json.MarshalIndent(v, "", "\t")
	if err != nil {
		return fmt.Errorf("unable to encode response: %w", err)
	}
	_, err = fmt.Fprintln(w, string(buf))
	return err
}

type invalidUsageError struct {
	ctx     *cli.Context
	command string
}

func (e *invalidUsageError) Error() string {
	return fmt.Sprintf("invalid usage of command %s", e.command)
}

func fatal(err error) {
	var e *invalidUsageError
	if errors.As(err, &e) {
		_ = cli.ShowCommandHelp(e.ctx, e.command)
	} else {
		_, _ = fmt.Fprintf(os.Stderr, "[permavault] %v\n", err)
	}
	os.Exit(1)
}
