// Package netdiscovery retrieves physical network topology: the switch and
// port each host NIC is connected to, as observed via CDP or LLDP.
package netdiscovery

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/kubev2v/vcenter-toolkit/internal/vsphere"
	"github.com/vmware/govmomi/vim25/types"
	"go.uber.org/zap"
)

// Neighbor describes one physical NIC and the peer device it is cabled to.
// Protocol is "cdp", "lldp" or empty when the switch advertises neither.
type Neighbor struct {
	Host       string `json:"host"`
	Device     string `json:"device"`
	MAC        string `json:"mac,omitempty"`
	SpeedMb    int32  `json:"speedMb,omitempty"`
	Protocol   string `json:"protocol,omitempty"`
	SwitchID   string `json:"switchId,omitempty"`
	SwitchPort string `json:"switchPort,omitempty"`
	Platform   string `json:"platform,omitempty"`
	Version    string `json:"version,omitempty"`
	VLANs      []int  `json:"vlans,omitempty"`
}

type Report struct {
	GeneratedAt time.Time  `json:"generatedAt"`
	Neighbors   []Neighbor `json:"neighbors"`
}

// Discover queries network hints for every physical NIC of every host.
func Discover(ctx context.Context, client *vsphere.Client) (*Report, error) {
	hosts, err := client.Hosts(ctx, "name", "config.network.pnic")
	if err != nil {
		return nil, err
	}

	report := &Report{GeneratedAt: time.Now().UTC()}

	for _, host := range hosts {
		if host.Config == nil || host.Config.Network == nil {
			continue
		}

		ns, err := client.HostNetworkSystem(ctx, host)
		if err != nil {
			return nil, err
		}

		pnics := make(map[string]types.PhysicalNic, len(host.Config.Network.Pnic))
		devices := make([]string, 0, len(host.Config.Network.Pnic))
		for _, pnic := range host.Config.Network.Pnic {
			pnics[pnic.Device] = pnic
			devices = append(devices, pnic.Device)
		}

		hints, err := ns.QueryNetworkHint(ctx, devices)
		if err != nil {
			return nil, fmt.Errorf("failed to query network hints on host %s: %w", host.Name, err)
		}
		zap.S().Named("network").Debugf("host %s returned %d network hints", host.Name, len(hints))

		for _, hint := range hints {
			report.Neighbors = append(report.Neighbors, mapHint(host.Name, pnics[hint.Device], hint))
		}
	}

	sort.Slice(report.Neighbors, func(i, j int) bool {
		if report.Neighbors[i].Host != report.Neighbors[j].Host {
			return report.Neighbors[i].Host < report.Neighbors[j].Host
		}
		return report.Neighbors[i].Device < report.Neighbors[j].Device
	})

	return report, nil
}

// mapHint folds a pnic and its discovery hint into a Neighbor record. CDP
// wins over LLDP when the peer advertises both, matching what the vSphere
// client shows.
func mapHint(hostName string, pnic types.PhysicalNic, hint types.PhysicalNicHintInfo) Neighbor {
	n := Neighbor{
		Host:   hostName,
		Device: hint.Device,
		MAC:    pnic.Mac,
	}
	if pnic.LinkSpeed != nil {
		n.SpeedMb = pnic.LinkSpeed.SpeedMb
	}

	switch {
	case hint.ConnectedSwitchPort != nil:
		cdp := hint.ConnectedSwitchPort
		n.Protocol = "cdp"
		n.SwitchID = cdp.DevId
		n.SwitchPort = cdp.PortId
		n.Platform = cdp.HardwarePlatform
		n.Version = cdp.SoftwareVersion
	case hint.LldpInfo != nil:
		n.Protocol = "lldp"
		n.SwitchID = hint.LldpInfo.ChassisId
		n.SwitchPort = hint.LldpInfo.PortId
		for _, param := range hint.LldpInfo.Parameter {
			if param.Key != "System Name" {
				continue
			}
			if name, ok := param.Value.(string); ok {
				n.Platform = name
			}
		}
	}

	for _, subnet := range hint.Subnet {
		if subnet.VlanId != 0 {
			n.VLANs = append(n.VLANs, int(subnet.VlanId))
		}
	}
	sort.Ints(n.VLANs)

	return n
}
