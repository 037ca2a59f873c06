package cli

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/kubev2v/vcenter-toolkit/internal/audit"
	"github.com/kubev2v/vcenter-toolkit/internal/store"
	"github.com/kubev2v/vcenter-toolkit/internal/store/model"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

type AuditOptions struct {
	GlobalOptions

	Output string
	File   string
	Save   bool
}

func DefaultAuditOptions() *AuditOptions {
	return &AuditOptions{
		GlobalOptions: DefaultGlobalOptions(),
		Output:        tableFormat,
	}
}

func NewCmdAudit() *cobra.Command {
	o := DefaultAuditOptions()
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Audit host and VM security configuration against the hardening baseline.",
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
	cmd.AddCommand(NewCmdAuditHistory())
	return cmd
}

func (o *AuditOptions) Bind(fs *pflag.FlagSet) {
	o.GlobalOptions.Bind(fs)

	bindOutputFlags(fs, &o.Output, &o.File)
	fs.BoolVar(&o.Save, "save", false, "Save this run to the local audit history")
}

func (o *AuditOptions) Validate(args []string) error {
	if err := o.GlobalOptions.Validate(args); err != nil {
		return err
	}
	return validateOutputFormat(o.Output)
}

func (o *AuditOptions) Run(ctx context.Context, args []string) error {
	creds, err := o.Credentials()
	if err != nil {
		return err
	}

	client, err := o.Connect(ctx)
	if err != nil {
		return err
	}
	defer client.Disconnect(ctx)

	report, err := audit.Run(ctx, client, audit.DefaultBaseline())
	if err != nil {
		return err
	}

	if o.Save {
		if err := o.saveRun(ctx, creds.URL, report); err != nil {
			return err
		}
	}

	if err := writeReport(report, auditDocument(report), o.Output, o.File); err != nil {
		return err
	}

	if report.Failed > 0 {
		return fmt.Errorf("%d checks failed", report.Failed)
	}
	return nil
}

func (o *AuditOptions) saveRun(ctx context.Context, endpoint string, report *audit.Report) error {
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

	run := model.AuditRun{
		ID:       uuid.NewString(),
		Endpoint: endpoint,
		Passed:   report.Passed,
		Failed:   report.Failed,
		Missing:  report.Missing,
	}
	for _, result := range report.Results {
		run.Results = append(run.Results, model.AuditResult{
			CheckID:  result.CheckID,
			Scope:    string(result.Scope),
			Object:   result.Object,
			Key:      result.Key,
			Expected: result.Expected,
			Actual:   result.Actual,
			Status:   string(result.Status),
			Severity: string(result.Severity),
		})
	}

	if _, err := s.Audit().Create(ctx, run); err != nil {
		return fmt.Errorf("failed to save audit run: %w", err)
	}
	zap.S().Named("cli").Infof("audit run %s saved to %s", run.ID, o.config.HistoryDBPath())
	return nil
}
