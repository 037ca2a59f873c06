package cli

import (
	"fmt"
	"strings"

	"github.com/kubev2v/vcenter-toolkit/internal/audit"
	"github.com/kubev2v/vcenter-toolkit/internal/capacity"
	"github.com/kubev2v/vcenter-toolkit/internal/netdiscovery"
	"github.com/kubev2v/vcenter-toolkit/internal/report/types"
	"github.com/kubev2v/vcenter-toolkit/internal/store/model"
)

func capacityDocument(report *capacity.Report) *types.Document {
	hostRows := make([][]string, 0, len(report.Hosts))
	for _, hc := range report.Hosts {
		hostRows = append(hostRows, []string{
			hc.Name,
			hc.Cluster,
			fmt.Sprintf("%d", hc.PhysicalCores),
			fmt.Sprintf("%d", hc.LogicalThreads),
			fmt.Sprintf("%d", hc.PoweredOnVMs),
			fmt.Sprintf("%d", hc.AllocatedVCPUs),
			fmt.Sprintf("%.2f", hc.Ratio),
		})
	}

	clusterRows := make([][]string, 0, len(report.Clusters))
	for _, cc := range report.Clusters {
		clusterRows = append(clusterRows, []string{
			cc.Name,
			fmt.Sprintf("%d", cc.Hosts),
			fmt.Sprintf("%d", cc.PhysicalCores),
			fmt.Sprintf("%d", cc.AllocatedVCPUs),
			fmt.Sprintf("%.2f", cc.Ratio),
		})
	}

	return &types.Document{
		Title:       "vCPU Allocation Report",
		GeneratedAt: report.GeneratedAt,
		Sections: []types.Section{
			{
				Title:   "Clusters",
				Headers: []string{"CLUSTER", "HOSTS", "CORES", "VCPUS", "RATIO"},
				Rows:    clusterRows,
			},
			{
				Title:   "Hosts",
				Headers: []string{"HOST", "CLUSTER", "CORES", "THREADS", "VMS", "VCPUS", "RATIO"},
				Rows:    hostRows,
			},
		},
	}
}

func auditDocument(report *audit.Report) *types.Document {
	rows := make([][]string, 0, len(report.Results))
	for _, result := range report.Results {
		rows = append(rows, []string{
			result.Object,
			string(result.Scope),
			result.Key,
			result.Expected,
			result.Actual,
			string(result.Severity),
			strings.ToUpper(string(result.Status)),
		})
	}

	return &types.Document{
		Title:       "Security Baseline Audit",
		GeneratedAt: report.GeneratedAt,
		Sections: []types.Section{
			{
				Title:   "Summary",
				Headers: []string{"PASSED", "FAILED", "MISSING"},
				Rows: [][]string{{
					fmt.Sprintf("%d", report.Passed),
					fmt.Sprintf("%d", report.Failed),
					fmt.Sprintf("%d", report.Missing),
				}},
			},
			{
				Title:   "Results",
				Headers: []string{"OBJECT", "SCOPE", "KEY", "EXPECTED", "ACTUAL", "SEVERITY", "STATUS"},
				Rows:    rows,
			},
		},
	}
}

func networkDocument(report *netdiscovery.Report) *types.Document {
	rows := make([][]string, 0, len(report.Neighbors))
	for _, n := range report.Neighbors {
		vlans := make([]string, 0, len(n.VLANs))
		for _, vlan := range n.VLANs {
			vlans = append(vlans, fmt.Sprintf("%d", vlan))
		}
		rows = append(rows, []string{
			n.Host,
			n.Device,
			n.MAC,
			fmt.Sprintf("%d", n.SpeedMb),
			n.Protocol,
			n.SwitchID,
			n.SwitchPort,
			n.Platform,
			strings.Join(vlans, " "),
		})
	}

	return &types.Document{
		Title:       "Physical Network Topology",
		GeneratedAt: report.GeneratedAt,
		Sections: []types.Section{
			{
				Title:   "Neighbors",
				Headers: []string{"HOST", "NIC", "MAC", "SPEED", "PROTO", "SWITCH", "PORT", "PLATFORM", "VLANS"},
				Rows:    rows,
			},
		},
	}
}

func historyDocument(runs []model.AuditRun) *types.Document {
	rows := make([][]string, 0, len(runs))
	for _, run := range runs {
		rows = append(rows, []string{
			run.ID,
			run.CreatedAt.Format("2006-01-02 15:04:05"),
			run.Endpoint,
			fmt.Sprintf("%d", run.Passed),
			fmt.Sprintf("%d", run.Failed),
			fmt.Sprintf("%d", run.Missing),
		})
	}

	doc := &types.Document{
		Title: "Audit History",
		Sections: []types.Section{
			{
				Title:   "Runs",
				Headers: []string{"ID", "CREATED", "ENDPOINT", "PASSED", "FAILED", "MISSING"},
				Rows:    rows,
			},
		},
	}
	if len(runs) > 0 {
		doc.GeneratedAt = runs[0].CreatedAt
	}
	return doc
}
