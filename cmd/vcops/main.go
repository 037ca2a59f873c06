package main

import (
	"fmt"
	"os"

	"github.com/kubev2v/vcenter-toolkit/internal/cli"
	"github.com/kubev2v/vcenter-toolkit/internal/config"
	"github.com/kubev2v/vcenter-toolkit/pkg/log"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	cfg, err := config.New()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logLvl, err := zap.ParseAtomicLevel(cfg.LogLevel)
	if err != nil {
		logLvl = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	}

	logger := log.InitLog(logLvl)
	defer func() { _ = logger.Sync() }()

	undo := zap.ReplaceGlobals(logger)
	defer undo()

	command := NewVcopsCommand()
	if err := command.Execute(); err != nil {
		os.Exit(1)
	}
}

func NewVcopsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vcops [flags] [options]",
		Short: "vcops automates routine vSphere infrastructure tasks.",
		Run: func(cmd *cobra.Command, args []string) {
			_ = cmd.Help()
			os.Exit(1)
		},
	}
	cmd.AddCommand(cli.NewCmdLogin())
	cmd.AddCommand(cli.NewCmdCapacity())
	cmd.AddCommand(cli.NewCmdAudit())
	cmd.AddCommand(cli.NewCmdNetwork())
	cmd.AddCommand(cli.NewCmdDisks())
	cmd.AddCommand(cli.NewCmdVersion())

	return cmd
}
