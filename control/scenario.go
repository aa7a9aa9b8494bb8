package control

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/hupe1980/uipilot/core"
)

// Scenario is the YAML description of a scripted desktop: the windows and
// controls an InMemoryDriver serves. Scenario files let demo and test
// sessions describe their target desktop as data instead of AddWindow calls.
type Scenario struct {
	Windows []ScenarioWindow `yaml:"windows"`
}

// ScenarioWindow describes one application window and its controls.
type ScenarioWindow struct {
	ID       string            `yaml:"id"`
	Title    string            `yaml:"title"`
	Process  string            `yaml:"process"`
	Controls []ScenarioControl `yaml:"controls"`
}

// ScenarioControl describes one interactable control. Enabled defaults to
// true when omitted, matching how annotation normally filters controls.
type ScenarioControl struct {
	Label   string `yaml:"label"`
	Text    string `yaml:"text"`
	Type    string `yaml:"type"`
	Enabled *bool  `yaml:"enabled"`
}

// LoadScenario reads a scenario file and builds the driver it describes.
func LoadScenario(path string) (*InMemoryDriver, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("control: read scenario: %w", err)
	}

	return ParseScenario(data)
}

// ParseScenario builds an InMemoryDriver from raw scenario YAML.
func ParseScenario(data []byte) (*InMemoryDriver, error) {
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("control: parse scenario: %w", err)
	}

	return sc.Driver()
}

// Driver materializes the scenario as a fresh InMemoryDriver.
func (sc *Scenario) Driver() (*InMemoryDriver, error) {
	driver := NewInMemoryDriver()

	for i, w := range sc.Windows {
		if w.ID == "" {
			return nil, fmt.Errorf("control: scenario window %d has no id", i+1)
		}

		controls := make([]core.ControlInfo, 0, len(w.Controls))
		for j, c := range w.Controls {
			label := c.Label
			if label == "" {
				label = fmt.Sprintf("%d", j+1)
			}

			enabled := true
			if c.Enabled != nil {
				enabled = *c.Enabled
			}

			controls = append(controls, core.ControlInfo{
				Label:   label,
				Text:    c.Text,
				Type:    c.Type,
				Enabled: enabled,
			})
		}

		driver.AddWindow(core.Window{ID: w.ID, Title: w.Title, Process: w.Process}, controls...)
	}

	return driver, nil
}
