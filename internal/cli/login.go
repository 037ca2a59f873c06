package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

type LoginOptions struct {
	GlobalOptions

	Save bool
}

func DefaultLoginOptions() *LoginOptions {
	return &LoginOptions{
		GlobalOptions: DefaultGlobalOptions(),
	}
}

func NewCmdLogin() *cobra.Command {
	o := DefaultLoginOptions()
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Verify vCenter credentials and optionally save them.",
		Example: "vcops login -l https://vcenter01.example.com/sdk " +
			"-u administrator@vsphere.local -p secret --save",
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

func (o *LoginOptions) Bind(fs *pflag.FlagSet) {
	o.GlobalOptions.Bind(fs)

	fs.BoolVar(&o.Save, "save", false, "Save the credentials for later commands")
}

func (o *LoginOptions) Run(ctx context.Context, args []string) error {
	creds, err := o.Credentials()
	if err != nil {
		return err
	}

	client, err := o.Connect(ctx)
	if err != nil {
		return err
	}
	defer client.Disconnect(ctx)

	about := client.About()
	fmt.Printf("Connected to %s\n", creds.URL)
	fmt.Printf("  Product: %s\n", about.FullName)
	fmt.Printf("  Version: %s (build %s)\n", about.Version, about.Build)
	fmt.Printf("  API:     %s %s\n", about.ApiType, about.ApiVersion)

	if o.Save {
		if err := o.config.SaveCredentials(creds); err != nil {
			return err
		}
		zap.S().Named("cli").Infof("credentials saved to %s", o.config.CredentialsPath())
	}
	return nil
}
