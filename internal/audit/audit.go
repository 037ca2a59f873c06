// Package audit compares live host and VM security configuration against a
// fixed hardening baseline.
package audit

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/kubev2v/vcenter-toolkit/internal/vsphere"
	"github.com/vmware/govmomi/vim25/mo"
	"github.com/vmware/govmomi/vim25/types"
	"go.uber.org/zap"
)

type Status string

const (
	StatusPass Status = "pass"
	StatusFail Status = "fail"
	// StatusMissing means the key is absent on the object, so the platform
	// default applies. Reported separately from fail on purpose.
	StatusMissing Status = "missing"
)

// Result is the outcome of one check against one object.
type Result struct {
	CheckID     string   `json:"checkId"`
	Scope       Scope    `json:"scope"`
	Object      string   `json:"object"`
	Key         string   `json:"key"`
	Expected    string   `json:"expected"`
	Actual      string   `json:"actual,omitempty"`
	Status      Status   `json:"status"`
	Severity    Severity `json:"severity"`
	Description string   `json:"description"`
}

type Report struct {
	GeneratedAt time.Time `json:"generatedAt"`
	Results     []Result  `json:"results"`
	Passed      int       `json:"passed"`
	Failed      int       `json:"failed"`
	Missing     int       `json:"missing"`
}

// HostFacts is the audited surface of one host.
type HostFacts struct {
	Name     string
	Options  map[string]string
	Services map[string]bool // key -> running
}

// VMFacts is the audited surface of one VM.
type VMFacts struct {
	Name        string
	ExtraConfig map[string]string
}

var (
	hostProps = []string{"name", "config.option", "config.service"}
	vmProps   = []string{"name", "config.template", "config.extraConfig"}
)

// Run fetches live configuration and evaluates it against the baseline.
func Run(ctx context.Context, client *vsphere.Client, baseline []Check) (*Report, error) {
	hosts, err := client.Hosts(ctx, hostProps...)
	if err != nil {
		return nil, err
	}
	vms, err := client.VirtualMachines(ctx, vmProps...)
	if err != nil {
		return nil, err
	}

	hostFacts := make([]HostFacts, 0, len(hosts))
	for _, host := range hosts {
		hostFacts = append(hostFacts, hostToFacts(host))
	}

	vmFacts := make([]VMFacts, 0, len(vms))
	for _, vm := range vms {
		if vm.Config == nil || vm.Config.Template {
			continue
		}
		vmFacts = append(vmFacts, vmToFacts(vm))
	}

	zap.S().Named("audit").Debugf("auditing %d hosts and %d vms against %d checks",
		len(hostFacts), len(vmFacts), len(baseline))

	return Evaluate(baseline, hostFacts, vmFacts), nil
}

// Evaluate runs every baseline check against every applicable object.
func Evaluate(baseline []Check, hosts []HostFacts, vms []VMFacts) *Report {
	report := &Report{GeneratedAt: time.Now().UTC()}

	for _, check := range baseline {
		switch check.Scope {
		case ScopeHost:
			for _, host := range hosts {
				actual, ok := host.Options[check.Key]
				report.add(newResult(check, host.Name, actual, ok))
			}
		case ScopeHostService:
			for _, host := range hosts {
				running, ok := host.Services[check.Key]
				actual := ""
				if ok {
					actual = serviceState(running)
				}
				report.add(newResult(check, host.Name, actual, ok))
			}
		case ScopeVM:
			for _, vm := range vms {
				actual, ok := vm.ExtraConfig[check.Key]
				report.add(newResult(check, vm.Name, actual, ok))
			}
		}
	}

	sort.SliceStable(report.Results, func(i, j int) bool {
		if report.Results[i].Object != report.Results[j].Object {
			return report.Results[i].Object < report.Results[j].Object
		}
		return report.Results[i].CheckID < report.Results[j].CheckID
	})

	return report
}

func newResult(check Check, object, actual string, present bool) Result {
	result := Result{
		CheckID:     check.ID,
		Scope:       check.Scope,
		Object:      object,
		Key:         check.Key,
		Expected:    check.Expected,
		Actual:      actual,
		Severity:    check.Severity,
		Description: check.Description,
	}
	switch {
	case !present:
		result.Status = StatusMissing
	case valuesEqual(check.Expected, actual):
		result.Status = StatusPass
	default:
		result.Status = StatusFail
	}
	return result
}

func (r *Report) add(result Result) {
	switch result.Status {
	case StatusPass:
		r.Passed++
	case StatusFail:
		r.Failed++
	case StatusMissing:
		r.Missing++
	}
	r.Results = append(r.Results, result)
}

// valuesEqual compares setting values case-insensitively and treats the
// boolean spellings "1"/"true" and "0"/"false" as equivalent.
func valuesEqual(expected, actual string) bool {
	e := strings.ToLower(strings.TrimSpace(expected))
	a := strings.ToLower(strings.TrimSpace(actual))
	if e == a {
		return true
	}
	return normalizeBool(e) != "" && normalizeBool(e) == normalizeBool(a)
}

func normalizeBool(v string) string {
	switch v {
	case "1", "true":
		return "true"
	case "0", "false":
		return "false"
	}
	return ""
}

func serviceState(running bool) string {
	if running {
		return "running"
	}
	return "stopped"
}

func hostToFacts(host mo.HostSystem) HostFacts {
	facts := HostFacts{
		Name:     host.Name,
		Options:  map[string]string{},
		Services: map[string]bool{},
	}
	if host.Config == nil {
		return facts
	}
	for _, opt := range host.Config.Option {
		if v := opt.GetOptionValue(); v != nil {
			facts.Options[v.Key] = anyToString(v.Value)
		}
	}
	if host.Config.Service != nil {
		for _, svc := range host.Config.Service.Service {
			facts.Services[svc.Key] = svc.Running
		}
	}
	return facts
}

func vmToFacts(vm mo.VirtualMachine) VMFacts {
	facts := VMFacts{Name: vm.Name, ExtraConfig: map[string]string{}}
	for _, opt := range vm.Config.ExtraConfig {
		if v := opt.GetOptionValue(); v != nil {
			facts.ExtraConfig[v.Key] = anyToString(v.Value)
		}
	}
	return facts
}

func anyToString(v types.AnyType) string {
	switch value := v.(type) {
	case string:
		return value
	case bool:
		return fmt.Sprintf("%t", value)
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", value)
	}
}
