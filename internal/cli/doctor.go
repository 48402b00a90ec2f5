package cli

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/vburojevic/rogcat/internal/adb"
	"github.com/vburojevic/rogcat/internal/config"
	"github.com/vburojevic/rogcat/internal/output"
)

// DoctorCmd checks system requirements and configuration
type DoctorCmd struct{}

// checkResult represents a single diagnostic check
type checkResult struct {
	Name    string `json:"name"`
	Status  string `json:"status"` // "ok", "warning", "error"
	Message string `json:"message,omitempty"`
	Details string `json:"details,omitempty"`
}

// doctorReport is the complete diagnostic report
type doctorReport struct {
	Type          string        `json:"type"`
	SchemaVersion int           `json:"schemaVersion"`
	Timestamp     string        `json:"timestamp"`
	Checks        []checkResult `json:"checks"`
	AllPassed     bool          `json:"all_passed"`
	ErrorCount    int           `json:"error_count"`
	WarnCount     int           `json:"warn_count"`
}

// Run executes the doctor command
func (c *DoctorCmd) Run(globals *Globals) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client := globals.Client()
	checks := []checkResult{
		c.checkAdb(ctx, client),
		c.checkDevices(ctx, client, globals.Serial),
		c.checkConfig(),
		c.checkProfiles(globals.Config),
	}

	errorCount := 0
	warnCount := 0
	for _, check := range checks {
		if check.Status == "error" {
			errorCount++
		} else if check.Status == "warning" {
			warnCount++
		}
	}

	report := doctorReport{
		Type:          "doctor",
		SchemaVersion: output.SchemaVersion,
		Timestamp:     time.Now().Format(time.RFC3339),
		Checks:        checks,
		AllPassed:     errorCount == 0,
		ErrorCount:    errorCount,
		WarnCount:     warnCount,
	}

	if globals.JSON() {
		return output.NewEmitter(globals.Stdout).Raw(report)
	}

	fmt.Fprintln(globals.Stdout, "rogcat Doctor")
	fmt.Fprintln(globals.Stdout, "=============")
	fmt.Fprintln(globals.Stdout)

	for _, check := range checks {
		var icon string
		switch check.Status {
		case "ok":
			icon = "✓"
		case "warning":
			icon = "⚠"
		case "error":
			icon = "✗"
		}

		fmt.Fprintf(globals.Stdout, "%s %s\n", icon, check.Name)
		if check.Message != "" {
			fmt.Fprintf(globals.Stdout, "  %s\n", check.Message)
		}
		if check.Details != "" {
			fmt.Fprintf(globals.Stdout, "  %s\n", check.Details)
		}
	}

	fmt.Fprintln(globals.Stdout)
	if errorCount == 0 && warnCount == 0 {
		fmt.Fprintln(globals.Stdout, "All checks passed!")
	} else {
		fmt.Fprintf(globals.Stdout, "Errors: %d, Warnings: %d\n", errorCount, warnCount)
	}

	return nil
}

func (c *DoctorCmd) checkAdb(ctx context.Context, client *adb.Client) checkResult {
	path, err := client.Path()
	if err != nil {
		return checkResult{
			Name:    "adb",
			Status:  "error",
			Message: "adb not found",
			Details: "Install Android platform-tools or set adb in the config file",
		}
	}

	out, err := exec.CommandContext(ctx, path, "version").Output()
	if err != nil {
		return checkResult{
			Name:    "adb",
			Status:  "error",
			Message: "adb is not working",
			Details: err.Error(),
		}
	}
	version := strings.SplitN(strings.TrimSpace(string(out)), "\n", 2)[0]
	return checkResult{
		Name:    "adb",
		Status:  "ok",
		Message: version,
		Details: path,
	}
}

func (c *DoctorCmd) checkDevices(ctx context.Context, client *adb.Client, serial string) checkResult {
	devices, err := client.Devices(ctx)
	if err != nil {
		return checkResult{
			Name:    "Devices",
			Status:  "error",
			Message: "Failed to list devices",
			Details: err.Error(),
		}
	}
	if len(devices) == 0 {
		return checkResult{
			Name:    "Devices",
			Status:  "warning",
			Message: "No devices attached",
			Details: "Connect a device with USB debugging enabled or start an emulator",
		}
	}

	online := 0
	var states []string
	for _, d := range devices {
		if d.IsOnline() {
			online++
		}
		states = append(states, fmt.Sprintf("%s (%s)", d.Serial, d.State))
	}

	if serial != "" {
		found := false
		for _, d := range devices {
			if d.Serial == serial && d.IsOnline() {
				found = true
			}
		}
		if !found {
			return checkResult{
				Name:    "Devices",
				Status:  "error",
				Message: fmt.Sprintf("Selected device %s is not online", serial),
				Details: strings.Join(states, ", "),
			}
		}
	}

	status := "ok"
	if online == 0 {
		status = "warning"
	}
	return checkResult{
		Name:    "Devices",
		Status:  status,
		Message: fmt.Sprintf("%d attached, %d online", len(devices), online),
		Details: strings.Join(states, ", "),
	}
}

func (c *DoctorCmd) checkConfig() checkResult {
	configPath := config.ConfigFile()
	if configPath == "" {
		return checkResult{
			Name:    "Config",
			Status:  "ok",
			Message: "Using defaults (no config file)",
			Details: "Create with: rogcat config generate > .rogcat.toml",
		}
	}

	cfg, err := config.LoadFromFile(configPath)
	if err != nil {
		return checkResult{
			Name:    "Config",
			Status:  "error",
			Message: "Config file has errors",
			Details: err.Error(),
		}
	}

	absPath, _ := filepath.Abs(configPath)
	return checkResult{
		Name:    "Config",
		Status:  "ok",
		Message: fmt.Sprintf("Loaded from: %s", absPath),
		Details: fmt.Sprintf("Format: %s, Level: %s", orDefault(cfg.Format, "auto"), orDefault(cfg.Level, "all")),
	}
}

func (c *DoctorCmd) checkProfiles(cfg *config.Config) checkResult {
	explicit := ""
	if cfg != nil {
		explicit = cfg.ProfilesPath
	}
	path := config.ProfilesPath(explicit)

	profiles, err := config.LoadProfiles(path)
	if err != nil {
		return checkResult{
			Name:    "Profiles",
			Status:  "error",
			Message: "Profiles file has errors",
			Details: err.Error(),
		}
	}
	names := profiles.Names()
	if len(names) == 0 {
		return checkResult{
			Name:    "Profiles",
			Status:  "ok",
			Message: "No profiles defined",
			Details: path,
		}
	}
	for _, n := range names {
		if _, err := profiles.Resolve(n); err != nil {
			return checkResult{
				Name:    "Profiles",
				Status:  "error",
				Message: fmt.Sprintf("Profile %s is invalid", n),
				Details: err.Error(),
			}
		}
	}
	return checkResult{
		Name:    "Profiles",
		Status:  "ok",
		Message: strings.Join(names, ", "),
		Details: path,
	}
}
