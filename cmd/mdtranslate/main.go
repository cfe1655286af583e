package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"codeberg.org/snonux/mdtranslate/internal/app"
	"codeberg.org/snonux/mdtranslate/internal/cli"
)

func main() {
	// Create flags instance
	flags := cli.NewFlags()

	// Create root command
	rootCmd := cli.CreateRootCommand(flags, app.New(flags))

	// Set up command initialization
	cobra.OnInitialize(func() {
		if err := cli.LoadEnvFile(flags.EnvFile); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}
		cli.InitConfig(flags.CfgFile)
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Execute command
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
