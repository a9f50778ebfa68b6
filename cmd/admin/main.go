// Command admin runs maintenance tasks against the booking database.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"
)

const usage = `Usage: admin [--config path] <command> [flags]

Commands:
  seed                               ensure demo users and rooms exist
  import-resources --file path       upsert resources from a YAML file
  export-audit --from D --to D [--out path]
                                     write audit events to an XLSX workbook
  backup                             snapshot the sqlite database
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	flagSet := pflag.NewFlagSet("admin", pflag.ContinueOnError)
	flagSet.SetInterspersed(false)
	configPath := flagSet.String("config", defaultConfigPath(), "path to config.yaml")
	flagSet.Usage = func() { fmt.Fprint(os.Stderr, usage) }

	if err := flagSet.Parse(args); err != nil {
		return err
	}
	rest := flagSet.Args()
	if len(rest) == 0 {
		flagSet.Usage()
		return fmt.Errorf("missing command")
	}

	cmd, ok := commands[rest[0]]
	if !ok {
		flagSet.Usage()
		return fmt.Errorf("unknown command %q", rest[0])
	}

	env, err := newEnv(ctx, *configPath)
	if err != nil {
		return err
	}
	defer env.Close()

	return cmd(ctx, env, rest[1:], stdout)
}

func defaultConfigPath() string {
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		return p
	}
	return "configs/config.yaml"
}
