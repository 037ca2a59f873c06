package cli

import (
	"context"
	"errors"
	"io/fs"

	"github.com/kubev2v/vcenter-toolkit/internal/config"
	"github.com/kubev2v/vcenter-toolkit/internal/vsphere"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

// GlobalOptions holds the connection flags every command shares. Flag values
// override VCOPS_* environment settings, which override the saved
// credentials file.
type GlobalOptions struct {
	URL      string
	Username string
	Password string
	Insecure bool

	config *config.Config
}

func DefaultGlobalOptions() GlobalOptions {
	return GlobalOptions{}
}

func (o *GlobalOptions) Bind(fs *pflag.FlagSet) {
	fs.StringVarP(&o.URL, "url", "l", o.URL, "vCenter or ESXi URL")
	fs.StringVarP(&o.Username, "username", "u", o.Username, "vSphere username")
	fs.StringVarP(&o.Password, "password", "p", o.Password, "vSphere password")
	fs.BoolVarP(&o.Insecure, "insecure", "k", o.Insecure, "Skip TLS certificate verification")
}

func (o *GlobalOptions) Complete(cmd *cobra.Command, args []string) error {
	cfg, err := config.New()
	if err != nil {
		return err
	}
	o.config = cfg
	return nil
}

func (o *GlobalOptions) Validate(args []string) error {
	return nil
}

// Credentials assembles the effective login from flags, environment and the
// saved credentials file, in that order of precedence.
func (o *GlobalOptions) Credentials() (*config.Credentials, error) {
	creds := &config.Credentials{
		URL:      o.URL,
		Username: o.Username,
		Password: o.Password,
		Insecure: o.Insecure,
	}

	if creds.URL == "" {
		creds.URL = o.config.URL
	}
	if creds.Username == "" {
		creds.Username = o.config.Username
	}
	if creds.Password == "" {
		creds.Password = o.config.Password
	}
	if !creds.Insecure {
		creds.Insecure = o.config.Insecure
	}

	if creds.URL == "" || creds.Username == "" || creds.Password == "" {
		saved, err := o.config.LoadCredentials()
		if err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				return nil, err
			}
		} else {
			if creds.URL == "" {
				creds.URL = saved.URL
			}
			if creds.Username == "" {
				creds.Username = saved.Username
			}
			if creds.Password == "" {
				creds.Password = saved.Password
			}
			if !creds.Insecure {
				creds.Insecure = saved.Insecure
			}
			zap.S().Named("cli").Debugf("using saved credentials from %s", o.config.CredentialsPath())
		}
	}

	return creds, nil
}

// Connect builds credentials and opens the vSphere session.
func (o *GlobalOptions) Connect(ctx context.Context) (*vsphere.Client, error) {
	creds, err := o.Credentials()
	if err != nil {
		return nil, err
	}
	return vsphere.Connect(ctx, creds)
}
