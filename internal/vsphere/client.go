package vsphere

import (
	"context"
	"fmt"
	"net/url"

	"github.com/kubev2v/vcenter-toolkit/internal/config"
	"github.com/vmware/govmomi"
	"github.com/vmware/govmomi/find"
	"github.com/vmware/govmomi/object"
	"github.com/vmware/govmomi/session"
	"github.com/vmware/govmomi/view"
	"github.com/vmware/govmomi/vim25"
	"github.com/vmware/govmomi/vim25/mo"
	"github.com/vmware/govmomi/vim25/soap"
	"github.com/vmware/govmomi/vim25/types"
	"go.uber.org/zap"
)

// Client wraps a logged-in govmomi session. All vcops commands share this
// single handle; there is no connection pooling or reconnect logic.
type Client struct {
	*govmomi.Client
}

// Connect establishes a vCenter/ESXi session from the given credentials.
func Connect(ctx context.Context, creds *config.Credentials) (*Client, error) {
	if err := creds.Validate(); err != nil {
		return nil, err
	}

	u, err := soap.ParseURL(creds.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse vCenter URL: %w", err)
	}
	u.User = url.UserPassword(creds.Username, creds.Password)

	vimClient, err := vim25.NewClient(ctx, soap.NewClient(u, creds.Insecure))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", u.Host, err)
	}

	client := &govmomi.Client{
		SessionManager: session.NewManager(vimClient),
		Client:         vimClient,
	}

	zap.S().Named("vsphere").Debugf("logging into %s as %s", u.Host, creds.Username)
	if err := client.Login(ctx, u.User); err != nil {
		return nil, fmt.Errorf("login to %s failed: %w", u.Host, err)
	}

	return &Client{Client: client}, nil
}

// Disconnect terminates the session. Errors are logged, not returned; a
// failed logout does not matter to a finished command.
func (c *Client) Disconnect(ctx context.Context) {
	if err := c.Logout(ctx); err != nil {
		zap.S().Named("vsphere").Debugf("logout failed: %v", err)
	}
}

// About returns endpoint identification (product, version, build).
func (c *Client) About() types.AboutInfo {
	return c.ServiceContent.About
}

// Retrieve collects properties of all objects of the given kind under the
// root folder through a container view, the standard bulk-inventory path.
func (c *Client) Retrieve(ctx context.Context, kind []string, props []string, dst interface{}) error {
	m := view.NewManager(c.Client.Client)

	v, err := m.CreateContainerView(ctx, c.ServiceContent.RootFolder, kind, true)
	if err != nil {
		return fmt.Errorf("failed to create container view: %w", err)
	}
	defer func() {
		_ = v.Destroy(ctx)
	}()

	if err := v.Retrieve(ctx, kind, props, dst); err != nil {
		return fmt.Errorf("failed to retrieve %v: %w", kind, err)
	}
	return nil
}

// Hosts returns all host systems with the given properties populated.
func (c *Client) Hosts(ctx context.Context, props ...string) ([]mo.HostSystem, error) {
	var hosts []mo.HostSystem
	if err := c.Retrieve(ctx, []string{"HostSystem"}, props, &hosts); err != nil {
		return nil, err
	}
	return hosts, nil
}

// VirtualMachines returns all virtual machines with the given properties.
func (c *Client) VirtualMachines(ctx context.Context, props ...string) ([]mo.VirtualMachine, error) {
	var vms []mo.VirtualMachine
	if err := c.Retrieve(ctx, []string{"VirtualMachine"}, props, &vms); err != nil {
		return nil, err
	}
	return vms, nil
}

// Clusters returns all cluster compute resources with the given properties.
func (c *Client) Clusters(ctx context.Context, props ...string) ([]mo.ClusterComputeResource, error) {
	var clusters []mo.ClusterComputeResource
	if err := c.Retrieve(ctx, []string{"ClusterComputeResource"}, props, &clusters); err != nil {
		return nil, err
	}
	return clusters, nil
}

// FindVM locates a single VM by inventory path or name.
func (c *Client) FindVM(ctx context.Context, name string) (*object.VirtualMachine, error) {
	finder := find.NewFinder(c.Client.Client, true)

	dc, err := finder.DefaultDatacenter(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to locate datacenter: %w", err)
	}
	finder.SetDatacenter(dc)

	vm, err := finder.VirtualMachine(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("virtual machine %q not found: %w", name, err)
	}
	return vm, nil
}

// HostNetworkSystem returns the network system object of the given host.
func (c *Client) HostNetworkSystem(ctx context.Context, host mo.HostSystem) (*object.HostNetworkSystem, error) {
	hs := object.NewHostSystem(c.Client.Client, host.Reference())
	ns, err := hs.ConfigManager().NetworkSystem(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get network system of host %s: %w", host.Name, err)
	}
	return ns, nil
}
