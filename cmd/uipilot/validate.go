package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hupe1980/uipilot/config"
	"github.com/hupe1980/uipilot/control"
)

// validateCmd checks configuration and scenario files without running a
// session.
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration and scenario files",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("config")
		if path != "" {
			if _, err := config.Load(path); err != nil {
				return err
			}
			fmt.Printf("config %s: ok\n", path)
		}

		scenario, _ := cmd.Flags().GetString("scenario")
		if scenario != "" {
			driver, err := control.LoadScenario(scenario)
			if err != nil {
				return err
			}
			windows, err := driver.ListWindows(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Printf("scenario %s: ok (%d windows)\n", scenario, len(windows))
		}

		if path == "" && scenario == "" {
			return fmt.Errorf("nothing to validate: pass --config and/or --scenario")
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringP("scenario", "s", "", "Path to the scenario YAML describing windows and controls")
}
