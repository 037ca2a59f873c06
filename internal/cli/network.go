package cli

import (
	"context"

	"github.com/kubev2v/vcenter-toolkit/internal/netdiscovery"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

type NetworkOptions struct {
	GlobalOptions

	Output string
	File   string
}

func DefaultNetworkOptions() *NetworkOptions {
	return &NetworkOptions{
		GlobalOptions: DefaultGlobalOptions(),
		Output:        tableFormat,
	}
}

func NewCmdNetwork() *cobra.Command {
	o := DefaultNetworkOptions()
	cmd := &cobra.Command{
		Use:   "network",
		Short: "Discover the physical switch and port behind each host NIC (CDP/LLDP).",
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

func (o *NetworkOptions) Bind(fs *pflag.FlagSet) {
	o.GlobalOptions.Bind(fs)

	bindOutputFlags(fs, &o.Output, &o.File)
}

func (o *NetworkOptions) Validate(args []string) error {
	if err := o.GlobalOptions.Validate(args); err != nil {
		return err
	}
	return validateOutputFormat(o.Output)
}

func (o *NetworkOptions) Run(ctx context.Context, args []string) error {
	client, err := o.Connect(ctx)
	if err != nil {
		return err
	}
	defer client.Disconnect(ctx)

	report, err := netdiscovery.Discover(ctx, client)
	if err != nil {
		return err
	}

	return writeReport(report, networkDocument(report), o.Output, o.File)
}
