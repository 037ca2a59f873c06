// Package capacity reports vCPU to physical core allocation ratios per host
// and per cluster.
package capacity

import (
	"context"
	"sort"
	"time"

	"github.com/kubev2v/vcenter-toolkit/internal/vsphere"
	"github.com/vmware/govmomi/vim25/mo"
	"github.com/vmware/govmomi/vim25/types"
	"go.uber.org/zap"
)

type HostCapacity struct {
	Name           string  `json:"name"`
	Cluster        string  `json:"cluster,omitempty"`
	PhysicalCores  int32   `json:"physicalCores"`
	LogicalThreads int32   `json:"logicalThreads"`
	PoweredOnVMs   int     `json:"poweredOnVms"`
	AllocatedVCPUs int32   `json:"allocatedVcpus"`
	Ratio          float64 `json:"ratio"`
}

type ClusterCapacity struct {
	Name           string  `json:"name"`
	Hosts          int     `json:"hosts"`
	PhysicalCores  int32   `json:"physicalCores"`
	AllocatedVCPUs int32   `json:"allocatedVcpus"`
	Ratio          float64 `json:"ratio"`
}

type Report struct {
	GeneratedAt time.Time         `json:"generatedAt"`
	Hosts       []HostCapacity    `json:"hosts"`
	Clusters    []ClusterCapacity `json:"clusters"`
}

var (
	hostProps    = []string{"name", "summary.hardware"}
	vmProps      = []string{"name", "runtime.powerState", "runtime.host", "summary.config.numCpu"}
	clusterProps = []string{"name", "host"}
)

// Collect retrieves hosts, VMs and clusters and computes allocation ratios.
func Collect(ctx context.Context, client *vsphere.Client) (*Report, error) {
	hosts, err := client.Hosts(ctx, hostProps...)
	if err != nil {
		return nil, err
	}
	vms, err := client.VirtualMachines(ctx, vmProps...)
	if err != nil {
		return nil, err
	}
	clusters, err := client.Clusters(ctx, clusterProps...)
	if err != nil {
		return nil, err
	}

	zap.S().Named("capacity").Debugf("retrieved %d hosts, %d vms, %d clusters",
		len(hosts), len(vms), len(clusters))

	return buildReport(hosts, vms, clusters), nil
}

// buildReport computes per-host and per-cluster ratios from raw inventory.
// Only powered-on VMs count against a host's allocation; a host without
// hardware info (disconnected) reports zero cores and a zero ratio.
func buildReport(hosts []mo.HostSystem, vms []mo.VirtualMachine, clusters []mo.ClusterComputeResource) *Report {
	byRef := make(map[types.ManagedObjectReference]*HostCapacity, len(hosts))
	order := make([]types.ManagedObjectReference, 0, len(hosts))

	for _, host := range hosts {
		hc := &HostCapacity{Name: host.Name}
		if hw := host.Summary.Hardware; hw != nil {
			hc.PhysicalCores = int32(hw.NumCpuCores)
			hc.LogicalThreads = int32(hw.NumCpuThreads)
		}
		byRef[host.Reference()] = hc
		order = append(order, host.Reference())
	}

	for _, vm := range vms {
		if vm.Runtime.PowerState != types.VirtualMachinePowerStatePoweredOn || vm.Runtime.Host == nil {
			continue
		}
		hc, ok := byRef[*vm.Runtime.Host]
		if !ok {
			continue
		}
		hc.PoweredOnVMs++
		hc.AllocatedVCPUs += vm.Summary.Config.NumCpu
	}

	report := &Report{GeneratedAt: time.Now().UTC()}

	for _, cluster := range clusters {
		cc := ClusterCapacity{Name: cluster.Name}
		for _, ref := range cluster.Host {
			hc, ok := byRef[ref]
			if !ok {
				continue
			}
			hc.Cluster = cluster.Name
			cc.Hosts++
			cc.PhysicalCores += hc.PhysicalCores
			cc.AllocatedVCPUs += hc.AllocatedVCPUs
		}
		cc.Ratio = ratio(cc.AllocatedVCPUs, cc.PhysicalCores)
		report.Clusters = append(report.Clusters, cc)
	}

	for _, ref := range order {
		hc := byRef[ref]
		hc.Ratio = ratio(hc.AllocatedVCPUs, hc.PhysicalCores)
		report.Hosts = append(report.Hosts, *hc)
	}

	sort.Slice(report.Hosts, func(i, j int) bool { return report.Hosts[i].Name < report.Hosts[j].Name })
	sort.Slice(report.Clusters, func(i, j int) bool { return report.Clusters[i].Name < report.Clusters[j].Name })

	return report
}

func ratio(vcpus, cores int32) float64 {
	if cores == 0 {
		return 0
	}
	return float64(vcpus) / float64(cores)
}
