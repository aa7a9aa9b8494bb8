package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/hupe1980/uipilot"
	"github.com/hupe1980/uipilot/config"
	"github.com/hupe1980/uipilot/control"
	"github.com/hupe1980/uipilot/core"
)

// runCmd executes one automation request as a full session.
var runCmd = &cobra.Command{
	Use:   "run [request]",
	Short: "Run one automation request against a scripted desktop",
	Long: `Runs a session for the given request. The desktop comes from the
scenario file; models, budgets and safeguards come from the configuration.
Without a scenario file a small built-in notepad desktop is used, without a
configuration the mock provider is used, so the command is runnable out of
the box for wiring checks.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.LoadDotEnv(); err != nil {
			return err
		}

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		driver, err := loadDriver(cmd)
		if err != nil {
			return err
		}

		yes, _ := cmd.Flags().GetBool("yes")

		pilot, host, err := uipilot.FromConfig(cfg, driver, func(o *uipilot.Options) {
			o.Confirmer = newConfirmer(yes)
		})
		if err != nil {
			return err
		}

		if cfg.Metrics.Enabled {
			srv := serveMetrics(cfg.Metrics.Addr)
			defer srv.Shutdown(context.Background()) //nolint:errcheck
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		sessionID, _ := cmd.Flags().GetString("session")

		res, err := pilot.Run(ctx, host, sessionID, strings.Join(args, " "))
		if err != nil {
			return err
		}

		fmt.Printf("session %s: status=%s rounds=%d steps=%d cost=$%.4f\n",
			res.SessionID, res.Status, res.Rounds, res.Steps, res.Cost)

		return nil
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringP("scenario", "s", "", "Path to the scenario YAML describing windows and controls")
	runCmd.Flags().String("session", "", "Session identifier to continue; empty starts a new session")
	runCmd.Flags().BoolP("yes", "y", false, "Approve safeguarded actions without prompting")
}

// loadConfig reads the configured YAML or falls back to a mock-provider
// configuration for request-free wiring checks.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if path != "" {
		return config.Load(path)
	}

	cfg := &config.Config{HostModel: config.Model{Provider: config.ProviderMock}}
	cfg.SetDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadDriver builds the control driver from the scenario file, defaulting to
// a built-in single-editor desktop.
func loadDriver(cmd *cobra.Command) (core.ControlDriver, error) {
	path, _ := cmd.Flags().GetString("scenario")
	if path != "" {
		return control.LoadScenario(path)
	}

	driver := control.NewInMemoryDriver()
	driver.AddWindow(
		core.Window{ID: "notepad", Title: "Untitled - Notepad", Process: "notepad.exe"},
		core.ControlInfo{Label: "1", Text: "Text Editor", Type: "Edit", Enabled: true},
		core.ControlInfo{Label: "2", Text: "Close", Type: "Button", Enabled: true},
	)

	return driver, nil
}

// serveMetrics exposes the Prometheus endpoint for the duration of the run.
func serveMetrics(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: addr, Handler: mux}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			fmt.Fprintln(os.Stderr, "metrics server:", err)
		}
	}()

	return srv
}

// stdinConfirmer asks safeguard questions on the terminal.
type stdinConfirmer struct {
	in *bufio.Reader
}

func (c *stdinConfirmer) AskYesNo(prompt string) bool {
	fmt.Printf("%s [y/N] ", prompt)

	line, err := c.in.ReadString('\n')
	if err != nil {
		return false
	}

	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

// autoConfirmer approves every safeguarded action.
type autoConfirmer struct{}

func (autoConfirmer) AskYesNo(prompt string) bool {
	fmt.Printf("%s [auto-approved]\n", prompt)
	return true
}

func newConfirmer(yes bool) core.Confirmer {
	if yes {
		return autoConfirmer{}
	}
	return &stdinConfirmer{in: bufio.NewReader(os.Stdin)}
}
