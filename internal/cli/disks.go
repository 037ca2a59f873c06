package cli

import (
	"context"
	"fmt"

	"github.com/kubev2v/vcenter-toolkit/internal/disks"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func NewCmdDisks() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "disks",
		Short: "Manage virtual disks.",
	}
	cmd.AddCommand(NewCmdDisksAdd())
	return cmd
}

type DisksAddOptions struct {
	GlobalOptions

	VMName  string
	Count   int
	SizeGiB int64
	Thin    bool
	Cold    bool
	Force   bool
}

func DefaultDisksAddOptions() *DisksAddOptions {
	return &DisksAddOptions{
		GlobalOptions: DefaultGlobalOptions(),
		Count:         1,
		SizeGiB:       10,
		Thin:          true,
	}
}

func NewCmdDisksAdd() *cobra.Command {
	o := DefaultDisksAddOptions()
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Attach new disks to a VM with deterministic controller/unit placement.",
		Example: "vcops disks add --vm db01 --count 4 --size 100 --cold\n" +
			"vcops disks add --vm app02 --count 1 --size 20",
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

func (o *DisksAddOptions) Bind(fs *pflag.FlagSet) {
	o.GlobalOptions.Bind(fs)

	fs.StringVar(&o.VMName, "vm", o.VMName, "Name or inventory path of the target VM")
	fs.IntVar(&o.Count, "count", o.Count, "Number of disks to add")
	fs.Int64Var(&o.SizeGiB, "size", o.SizeGiB, "Size of each disk in GiB")
	fs.BoolVar(&o.Thin, "thin", o.Thin, "Thin-provision the new disks")
	fs.BoolVar(&o.Cold, "cold", o.Cold, "Shut the guest down before reconfiguring and restart it after")
	fs.BoolVar(&o.Force, "force", o.Force, "Hard power off when the guest shutdown fails or times out")
}

func (o *DisksAddOptions) Validate(args []string) error {
	if err := o.GlobalOptions.Validate(args); err != nil {
		return err
	}
	if o.VMName == "" {
		return fmt.Errorf("--vm is required")
	}
	if o.Count < 1 || o.Count > disks.MaxDisks {
		return fmt.Errorf("--count must be between 1 and %d", disks.MaxDisks)
	}
	if o.Force && !o.Cold {
		return fmt.Errorf("--force only applies together with --cold")
	}
	return nil
}

func (o *DisksAddOptions) Run(ctx context.Context, args []string) error {
	client, err := o.Connect(ctx)
	if err != nil {
		return err
	}
	defer client.Disconnect(ctx)

	provisioner := disks.NewProvisioner(client, o.config.TaskTimeout, o.config.PollInterval)
	result, err := provisioner.AddDisks(ctx, disks.AddRequest{
		VMName:  o.VMName,
		Count:   o.Count,
		SizeGiB: o.SizeGiB,
		Thin:    o.Thin,
		Cold:    o.Cold,
		Force:   o.Force,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Added %d disks to %s", len(result.Added), result.VMName)
	if result.PowerCycled {
		fmt.Printf(" (power cycled)")
	}
	fmt.Println(":")
	for _, disk := range result.Added {
		fmt.Printf("  SCSI %d:%d  %d GiB\n", disk.Slot.Bus, disk.Slot.Unit, disk.CapacityGiB)
	}
	return nil
}
