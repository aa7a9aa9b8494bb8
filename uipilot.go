// Package uipilot provides a high-level façade over the session runner and
// service abstractions (sessions, artifacts, screenshots & logging) enabling
// rapid construction of UI automation pilots. Most applications interact
// with this package by:
//  1. Creating a UIPilot via New() around a control driver (optionally
//     overriding default in-memory services)
//  2. Constructing a host agent, either directly or via NewHost() from a
//     loaded configuration
//  3. Running requests synchronously with Run()
//
// The façade delegates orchestration to runner.Runner while keeping setup
// and usage ergonomics concise. All defaults are safe for local development
// and testing; production deployments typically supply durable stores, file
// backed record sinks and a structured logger.
package uipilot

import (
	"context"
	"fmt"
	"strings"

	anthropicsdk "github.com/anthropics/anthropic-sdk-go"
	openaisdk "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/hupe1980/uipilot/agent"
	"github.com/hupe1980/uipilot/artifact"
	"github.com/hupe1980/uipilot/config"
	"github.com/hupe1980/uipilot/core"
	"github.com/hupe1980/uipilot/logging"
	"github.com/hupe1980/uipilot/memory"
	"github.com/hupe1980/uipilot/metrics"
	"github.com/hupe1980/uipilot/model"
	anthropicmodel "github.com/hupe1980/uipilot/model/anthropic"
	openaimodel "github.com/hupe1980/uipilot/model/openai"
	"github.com/hupe1980/uipilot/processor"
	"github.com/hupe1980/uipilot/prompt"
	"github.com/hupe1980/uipilot/runner"
	"github.com/hupe1980/uipilot/screen"
	"github.com/hupe1980/uipilot/session"
)

// Options configures the UIPilot instance.
type Options struct {
	// Stores (defaults to in-memory implementations if not provided)
	SessionStore  core.SessionStore
	ArtifactStore core.ArtifactStore

	// Photographer captures window screenshots. Defaults to a solid-color
	// source persisting into the artifact store, which keeps demo and test
	// sessions self-contained.
	Photographer core.Photographer

	// Confirmer answers safeguard prompts. When nil, safeguarded actions
	// stay suspended until the turn budget ends the round.
	Confirmer core.Confirmer

	// RequestSink and ErrorSink receive per-step JSONL records.
	RequestSink logging.RecordSink
	ErrorSink   logging.RecordSink

	// Logger (defaults to NoOp logger if nil)
	Logger logging.Logger

	// Metrics receives session observations. Nil disables instrumentation.
	Metrics *metrics.Recorder

	// MaxRounds caps the number of rounds per session, MaxTurns the state
	// transitions inside one round. Zero values use the runner defaults.
	MaxRounds int
	MaxTurns  int
}

// UIPilot is the high-level façade aggregating the session runner and its
// services around one control driver.
type UIPilot struct {
	opts   Options
	driver core.ControlDriver
	runner *runner.Runner
}

// New creates a new UIPilot around the given control driver with optional
// overrides. Any unset service is initialized with an in-memory
// implementation.
func New(driver core.ControlDriver, optFns ...func(o *Options)) *UIPilot {
	opts := Options{
		SessionStore:  session.NewInMemoryStore(),
		ArtifactStore: artifact.NewInMemoryStore(),
		Logger:        logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Photographer == nil {
		opts.Photographer = screen.NewPhotographer(screen.NewSolidSource(0, 0), opts.ArtifactStore)
	}

	r := runner.New(func(o *runner.Options) {
		o.Driver = driver
		o.SessionStore = opts.SessionStore
		o.ArtifactStore = opts.ArtifactStore
		o.Photographer = opts.Photographer
		o.Confirmer = opts.Confirmer
		o.RequestSink = opts.RequestSink
		o.ErrorSink = opts.ErrorSink
		o.Logger = opts.Logger
		o.Metrics = opts.Metrics

		if opts.MaxRounds > 0 {
			o.MaxRounds = opts.MaxRounds
		}

		if opts.MaxTurns > 0 {
			o.MaxTurns = opts.MaxTurns
		}
	})

	return &UIPilot{opts: opts, driver: driver, runner: r}
}

// Driver returns the control driver the pilot automates.
func (p *UIPilot) Driver() core.ControlDriver { return p.driver }

// Run executes one request as a session round sequence and blocks until it
// reaches a terminal status or a budget is exhausted. An empty sessionID
// starts a fresh session under a generated identifier; reusing an ID
// continues the stored session with a new request.
func (p *UIPilot) Run(ctx context.Context, host *agent.HostAgent, sessionID, request string) (*runner.Result, error) {
	if sessionID == "" {
		sessionID = core.NewID()
	}

	return p.runner.Run(ctx, sessionID, request, host)
}

// FromConfig assembles a UIPilot and its host agent from a loaded
// configuration. The configuration selects models, budgets, safeguarded
// operations and record destinations; the driver stays a caller concern
// because it binds to the actual desktop.
func FromConfig(cfg *config.Config, driver core.ControlDriver, optFns ...func(o *Options)) (*UIPilot, *agent.HostAgent, error) {
	opts := Options{
		SessionStore:  session.NewInMemoryStore(),
		ArtifactStore: artifact.NewInMemoryStore(),
		MaxRounds:     cfg.Session.MaxRounds,
		MaxTurns:      cfg.Session.MaxTurns,
	}

	if cfg.Artifacts.Dir != "" {
		opts.ArtifactStore = artifact.NewFileStore(cfg.Artifacts.Dir)
	}

	if cfg.Logging.RequestLog != "" {
		sink, err := logging.OpenJSONLSink(cfg.Logging.RequestLog)
		if err != nil {
			return nil, nil, fmt.Errorf("uipilot: request log: %w", err)
		}
		opts.RequestSink = sink
	}

	if cfg.Logging.ErrorLog != "" {
		sink, err := logging.OpenJSONLSink(cfg.Logging.ErrorLog)
		if err != nil {
			return nil, nil, fmt.Errorf("uipilot: error log: %w", err)
		}
		opts.ErrorSink = sink
	}

	opts.Logger = logging.NewSlogLogger(logging.ParseLevel(cfg.Logging.Level), "", false)

	if cfg.Metrics.Enabled {
		opts.Metrics = metrics.NewRecorder(nil)
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	host, err := NewHost(cfg, func(o *agent.HostAgentOptions) {
		o.Metrics = opts.Metrics
	})
	if err != nil {
		return nil, nil, err
	}

	p := New(driver, func(o *Options) { *o = opts })

	return p, host, nil
}

// NewHost constructs a host agent from the configuration: invokers per role,
// history window, memory bounds and the safeguard operation list.
func NewHost(cfg *config.Config, optFns ...func(o *agent.HostAgentOptions)) (*agent.HostAgent, error) {
	hostInvoker, err := NewInvoker(cfg.HostModel)
	if err != nil {
		return nil, fmt.Errorf("uipilot: host model: %w", err)
	}

	appInvoker, err := NewInvoker(cfg.AppModel)
	if err != nil {
		return nil, fmt.Errorf("uipilot: app model: %w", err)
	}

	guard := processor.NewSafeguard(func(o *processor.SafeguardOptions) {
		o.Operations = cfg.Safeguard.Operations
	})

	historyWindow := cfg.Session.HistoryWindow
	memoryLimit := cfg.Session.MemoryLimit

	base := []func(o *agent.HostAgentOptions){func(o *agent.HostAgentOptions) {
		o.Invoker = hostInvoker
		o.Builder = prompt.NewHostBuilder(func(po *prompt.Options) {
			po.HistoryWindow = historyWindow
		})
		o.Memory = memory.NewMemory(memoryLimit)
		o.AppOptions = []func(ao *agent.AppAgentOptions){func(ao *agent.AppAgentOptions) {
			ao.Invoker = appInvoker
			ao.Builder = prompt.NewAppBuilder(func(po *prompt.Options) {
				po.HistoryWindow = historyWindow
			})
			ao.Memory = memory.NewMemory(memoryLimit)
			ao.Safeguard = guard
		}}
	}}

	return agent.NewHostAgent("host", append(base, optFns...)...), nil
}

// NewInvoker builds a model invoker from one model configuration section.
func NewInvoker(cfg config.Model) (model.Invoker, error) {
	switch strings.ToLower(cfg.Provider) {
	case config.ProviderOpenAI:
		var clientOpts []option.RequestOption
		if cfg.APIKey != "" {
			clientOpts = append(clientOpts, option.WithAPIKey(cfg.APIKey))
		}
		if cfg.BaseURL != "" {
			clientOpts = append(clientOpts, option.WithBaseURL(cfg.BaseURL))
		}

		client := openaisdk.NewClient(clientOpts...)

		return openaimodel.NewFromClient(&client, func(o *openaimodel.Options) {
			if cfg.Name != "" {
				o.Model = cfg.Name
			}
			if cfg.MaxTokens > 0 {
				o.MaxCompletionTokens = int64(cfg.MaxTokens)
			}
			o.Temperature = cfg.Temperature
		}), nil

	case config.ProviderAnthropic:
		return anthropicmodel.New(func(o *anthropicmodel.Options) {
			if cfg.Name != "" {
				o.Model = anthropicsdk.Model(cfg.Name)
			}
			if cfg.MaxTokens > 0 {
				o.MaxTokens = int64(cfg.MaxTokens)
			}
			o.Temperature = cfg.Temperature
			o.APIKey = cfg.APIKey
		}), nil

	case config.ProviderMock:
		name := cfg.Name
		if name == "" {
			name = "mock"
		}
		return model.NewMockInvoker(name, config.ProviderMock), nil

	default:
		return nil, fmt.Errorf("uipilot: unknown model provider %q", cfg.Provider)
	}
}
