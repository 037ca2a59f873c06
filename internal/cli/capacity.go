package cli

import (
	"context"

	"github.com/kubev2v/vcenter-toolkit/internal/capacity"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

type CapacityOptions struct {
	GlobalOptions

	Output string
	File   string
}

func DefaultCapacityOptions() *CapacityOptions {
	return &CapacityOptions{
		GlobalOptions: DefaultGlobalOptions(),
		Output:        tableFormat,
	}
}

func NewCmdCapacity() *cobra.Command {
	o := DefaultCapacityOptions()
	cmd := &cobra.Command{
		Use:   "capacity",
		Short: "Report vCPU to physical core allocation ratios per host and cluster.",
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

func (o *CapacityOptions) Bind(fs *pflag.FlagSet) {
	o.GlobalOptions.Bind(fs)

	bindOutputFlags(fs, &o.Output, &o.File)
}

func (o *CapacityOptions) Validate(args []string) error {
	if err := o.GlobalOptions.Validate(args); err != nil {
		return err
	}
	return validateOutputFormat(o.Output)
}

func (o *CapacityOptions) Run(ctx context.Context, args []string) error {
	client, err := o.Connect(ctx)
	if err != nil {
		return err
	}
	defer client.Disconnect(ctx)

	report, err := capacity.Collect(ctx, client)
	if err != nil {
		return err
	}

	return writeReport(report, capacityDocument(report), o.Output, o.File)
}
