package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"codeberg.org/snonux/lingoflow/internal/backend"
	"codeberg.org/snonux/lingoflow/internal/cli"
	"codeberg.org/snonux/lingoflow/internal/models"
	"codeberg.org/snonux/lingoflow/internal/processor"
)

func main() {
	// Create flags instance
	flags := cli.NewFlags()

	// Create root command
	rootCmd := cli.CreateRootCommand(flags)

	// Set up command initialization
	cobra.OnInitialize(func() {
		cli.InitConfig(flags.CfgFile)
	})

	// Set the run function
	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		return runCommand(cmd, args, flags)
	}

	// Execute command
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runCommand(cmd *cobra.Command, args []string, flags *cli.Flags) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, err := cli.NewLogger(viper.GetString("log.level"))
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	// Handle --list-models flag
	if flags.ListModels {
		lister := models.NewLister(cli.GetOpenAIKey())
		return lister.ListAvailableModels(ctx)
	}

	config := cli.BackendConfig()
	config.Logger = logger
	client, err := backend.NewClient(ctx, config)
	if err != nil {
		return fmt.Errorf("failed to create %s backend: %w", config.Provider, err)
	}
	logger.Debugw("backend ready", "backend", client.Name())

	// Create processor
	proc := processor.NewProcessor(flags, client, logger)

	switch {
	case flags.BatchFile != "":
		return proc.ProcessBatch(ctx)
	case flags.AudioFile != "":
		return proc.ProcessAudio(ctx, flags.AudioFile)
	case len(args) > 0:
		return proc.ProcessText(ctx, strings.Join(args, " "))
	default:
		// No input provided - launch GUI mode by default
		return proc.RunGUIMode()
	}
}
