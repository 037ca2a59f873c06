package audit

type Scope string

const (
	// ScopeHost checks a host advanced setting (config.option).
	ScopeHost Scope = "host"
	// ScopeHostService checks the running state of a host service.
	ScopeHostService Scope = "host-service"
	// ScopeVM checks a VM advanced setting (config.extraConfig).
	ScopeVM Scope = "vm"
)

type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Check is one row of the hardening baseline: a configuration key and the
// value it must hold. For host services Expected is "running" or "stopped".
type Check struct {
	ID          string   `json:"id"`
	Scope       Scope    `json:"scope"`
	Key         string   `json:"key"`
	Expected    string   `json:"expected"`
	Severity    Severity `json:"severity"`
	Description string   `json:"description"`
}

// DefaultBaseline is the fixed expected-value table the audit compares
// against. Keys and values follow the vSphere security configuration guide.
func DefaultBaseline() []Check {
	return []Check{
		// Host advanced settings.
		{
			ID: "host-account-lock-failures", Scope: ScopeHost,
			Key: "Security.AccountLockFailures", Expected: "5", Severity: SeverityHigh,
			Description: "Lock local accounts after repeated failed logins",
		},
		{
			ID: "host-account-unlock-time", Scope: ScopeHost,
			Key: "Security.AccountUnlockTime", Expected: "900", Severity: SeverityMedium,
			Description: "Keep locked accounts locked for 15 minutes",
		},
		{
			ID: "host-shell-interactive-timeout", Scope: ScopeHost,
			Key: "UserVars.ESXiShellInteractiveTimeOut", Expected: "900", Severity: SeverityMedium,
			Description: "Terminate idle shell sessions",
		},
		{
			ID: "host-shell-timeout", Scope: ScopeHost,
			Key: "UserVars.ESXiShellTimeOut", Expected: "900", Severity: SeverityMedium,
			Description: "Disable the shell service when left enabled",
		},
		{
			ID: "host-dcui-timeout", Scope: ScopeHost,
			Key: "UserVars.DcuiTimeOut", Expected: "600", Severity: SeverityLow,
			Description: "Terminate idle DCUI sessions",
		},
		{
			ID: "host-suppress-shell-warning", Scope: ScopeHost,
			Key: "UserVars.SuppressShellWarning", Expected: "0", Severity: SeverityLow,
			Description: "Keep the shell-enabled warning visible",
		},
		{
			ID: "host-block-guest-bpdu", Scope: ScopeHost,
			Key: "Net.BlockGuestBPDU", Expected: "1", Severity: SeverityMedium,
			Description: "Block BPDU frames sent by guests",
		},
		{
			ID: "host-mem-share-salting", Scope: ScopeHost,
			Key: "Mem.ShareForceSalting", Expected: "2", Severity: SeverityLow,
			Description: "Restrict transparent page sharing to salted groups",
		},

		// Host services.
		{
			ID: "host-ssh-stopped", Scope: ScopeHostService,
			Key: "TSM-SSH", Expected: "stopped", Severity: SeverityHigh,
			Description: "SSH service must not be running",
		},
		{
			ID: "host-shell-stopped", Scope: ScopeHostService,
			Key: "TSM", Expected: "stopped", Severity: SeverityHigh,
			Description: "ESXi shell service must not be running",
		},
		{
			ID: "host-ntp-running", Scope: ScopeHostService,
			Key: "ntpd", Expected: "running", Severity: SeverityMedium,
			Description: "NTP daemon must be running",
		},

		// VM advanced settings.
		{
			ID: "vm-disable-copy", Scope: ScopeVM,
			Key: "isolation.tools.copy.disable", Expected: "true", Severity: SeverityMedium,
			Description: "Disable console clipboard copy",
		},
		{
			ID: "vm-disable-paste", Scope: ScopeVM,
			Key: "isolation.tools.paste.disable", Expected: "true", Severity: SeverityMedium,
			Description: "Disable console clipboard paste",
		},
		{
			ID: "vm-disable-device-connect", Scope: ScopeVM,
			Key: "isolation.device.connectable.disable", Expected: "true", Severity: SeverityMedium,
			Description: "Prevent guest users from connecting devices",
		},
		{
			ID: "vm-disable-device-edit", Scope: ScopeVM,
			Key: "isolation.device.edit.disable", Expected: "true", Severity: SeverityMedium,
			Description: "Prevent guest users from editing devices",
		},
		{
			ID: "vm-disable-hostinfo", Scope: ScopeVM,
			Key: "tools.guestlib.enableHostInfo", Expected: "false", Severity: SeverityLow,
			Description: "Do not expose host performance data to the guest",
		},
		{
			ID: "vm-log-keep-old", Scope: ScopeVM,
			Key: "log.keepOld", Expected: "10", Severity: SeverityLow,
			Description: "Retain a bounded number of vmx log files",
		},
		{
			ID: "vm-log-rotate-size", Scope: ScopeVM,
			Key: "log.rotateSize", Expected: "2048000", Severity: SeverityLow,
			Description: "Rotate vmx logs at a bounded size",
		},
		{
			ID: "vm-max-console-connections", Scope: ScopeVM,
			Key: "RemoteDisplay.maxConnections", Expected: "1", Severity: SeverityLow,
			Description: "Limit concurrent console connections",
		},
	}
}
