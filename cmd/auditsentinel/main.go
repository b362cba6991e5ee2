// auditsentinel — host-based security sentinel for Linux audit logs.
//
// Reads auditd records via ausearch, correlates authentication,
// privilege-escalation, sensitive-file, and execution events, compares
// them against a rolling per-host baseline, and reports a weighted risk
// score. Exposes the same capability as MCP tools for LLM-driven triage.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dmitriimaksimovdevelop/auditsentinel/internal/baseline"
	"github.com/dmitriimaksimovdevelop/auditsentinel/internal/config"
	auditmcp "github.com/dmitriimaksimovdevelop/auditsentinel/internal/mcp"
	"github.com/dmitriimaksimovdevelop/auditsentinel/internal/probe"
	"github.com/dmitriimaksimovdevelop/auditsentinel/internal/render"
)

var version = "0.1.0"

func main() {
	rootCmd := &cobra.Command{
		Use:   "auditsentinel",
		Short: "Host-based security sentinel for Linux audit logs",
		Long: `auditsentinel — single Go binary for auditd log analysis.

Correlates authentication failures, privilege escalations, sensitive
file access, and suspicious execution against a rolling per-host
baseline, and produces a weighted risk score for the collection
window.`,
		Version: version,
	}

	var (
		probeOutput  string
		probeJSON    bool
		probeUpdate  bool
		probeWindow  int
	)

	probeCmd := &cobra.Command{
		Use:   "probe",
		Short: "Run one audit probe and report the current risk summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			home, err := os.UserHomeDir()
			if err != nil {
				home = ""
			}

			cfg, err := config.Load(home)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			cfg.ApplySalt()
			if probeWindow > 0 {
				cfg.WindowSeconds = probeWindow
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid config: %w", err)
			}

			p := probe.New(cfg, home)
			summary := p.Probe(context.Background())

			if probeUpdate {
				if _, err := p.UpdateBaseline(summary); err != nil {
					fmt.Fprintf(os.Stderr, "warning: update baseline: %v\n", err)
				}
			}

			if probeJSON {
				return render.WriteJSON(summary, probeOutput)
			}
			fmt.Print(render.Text(summary))
			return nil
		},
	}
	probeCmd.Flags().StringVarP(&probeOutput, "output", "o", "-", "Output file path for JSON (- for stdout)")
	probeCmd.Flags().BoolVar(&probeJSON, "json", false, "Emit structured JSON instead of the text report")
	probeCmd.Flags().BoolVar(&probeUpdate, "update-baseline", false, "Fold this probe's sample into the rolling baseline")
	probeCmd.Flags().IntVar(&probeWindow, "window", 0, "Override the collection window in seconds")

	baselineCmd := &cobra.Command{
		Use:   "baseline",
		Short: "Inspect or reset the rolling audit baseline",
	}

	baselineShowCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the current baseline",
		RunE: func(cmd *cobra.Command, args []string) error {
			home, _ := os.UserHomeDir()
			b, err := baseline.Load(home)
			if err != nil {
				if err == baseline.ErrNotFound {
					fmt.Println("no baseline present yet")
					return nil
				}
				return fmt.Errorf("load baseline: %w", err)
			}
			fmt.Printf("sample_count=%d\n", b.SampleCount)
			fmt.Printf("avg_auth_failures=%.2f\n", b.AvgAuthFailures)
			fmt.Printf("avg_sudo_count=%.2f\n", b.AvgSudoCount)
			fmt.Printf("avg_sensitive_access=%.2f\n", b.AvgSensitiveAccess)
			fmt.Printf("avg_tmp_executions=%.2f\n", b.AvgTmpExecutions)
			fmt.Printf("avg_shell_spawns=%.2f\n", b.AvgShellSpawns)
			fmt.Printf("last_updated=%d\n", b.Updated)
			return nil
		},
	}

	baselineResetCmd := &cobra.Command{
		Use:   "reset",
		Short: "Discard the current baseline, starting fresh on the next probe",
		RunE: func(cmd *cobra.Command, args []string) error {
			home, _ := os.UserHomeDir()
			fresh := baseline.New()
			if _, err := baseline.Save(fresh, home); err != nil {
				return fmt.Errorf("reset baseline: %w", err)
			}
			fmt.Println("baseline reset")
			return nil
		},
	}

	baselineCmd.AddCommand(baselineShowCmd, baselineResetCmd)

	serveMCPCmd := &cobra.Command{
		Use:   "serve-mcp",
		Short: "Serve audit probe tools over MCP (stdio)",
		RunE: func(cmd *cobra.Command, args []string) error {
			home, err := os.UserHomeDir()
			if err != nil {
				home = ""
			}
			cfg, err := config.Load(home)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			cfg.ApplySalt()
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid config: %w", err)
			}

			p := probe.New(cfg, home)
			s := auditmcp.NewServer(version, p)
			return s.Start(cmd.Context())
		},
	}

	rootCmd.AddCommand(probeCmd, baselineCmd, serveMCPCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
