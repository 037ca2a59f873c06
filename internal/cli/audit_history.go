package cli

import (
	"context"

	"github.com/kubev2v/vcenter-toolkit/internal/store"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

type AuditHistoryOptions struct {
	GlobalOptions

	Output string
	File   string
}

func DefaultAuditHistoryOptions() *AuditHistoryOptions {
	return &AuditHistoryOptions{
		GlobalOptions: DefaultGlobalOptions(),
		Output:        tableFormat,
	}
}

func NewCmdAuditHistory() *cobra.Command {
	o := DefaultAuditHistoryOptions()
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List saved audit runs.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := o.Complete(cmd, args); err != nil {
				return err
			}
			if err := o.Validate(args); err != nil {
				return err
			}
			return o.Run(cmd.Context(), args)
		},
		SilenceUsage: true,
	}
	o.Bind(cmd.Flags())
	return cmd
}

func (o *AuditHistoryOptions) Bind(fs *pflag.FlagSet) {
	bindOutputFlags(fs, &o.Output, &o.File)
}

func (o *AuditHistoryOptions) Validate(args []string) error {
	return validateOutputFormat(o.Output)
}

func (o *AuditHistoryOptions) Run(ctx context.Context, args []string) error {
	db, err := store.InitDB(o.config.HistoryDBPath())
	if err != nil {
		return err
	}
	s := store.NewStore(db)
	defer func() {
		_ = s.Close()
	}()

	if err := s.InitialMigration(); err != nil {
		return err
	}

	runs, err := s.Audit().List(ctx)
	if err != nil {
		return err
	}

	return writeReport(runs, historyDocument(runs), o.Output, o.File)
}
