package screen

import (
	"context"
	"fmt"
	"sync"

	"github.com/hupe1980/uipilot/core"
	"github.com/hupe1980/uipilot/logging"
)

// Options configures a Photographer.
type Options struct {
	// Prefix names artifacts "<prefix>_<seq>.png". Defaults to "step".
	Prefix string
	// Annotate requests annotated captures when the source supports them.
	Annotate bool
	// Logger receives capture diagnostics. Defaults to a no-op logger.
	Logger logging.Logger
}

// Photographer captures window images through a Source and persists them to
// an ArtifactStore. Artifact ids carry a per-session sequence number so the
// transcript orders captures naturally. A nil store keeps captures purely in
// memory, which demo sessions use.
type Photographer struct {
	source Source
	store  core.ArtifactStore
	opts   Options

	mu  sync.Mutex
	seq map[string]int
}

// NewPhotographer constructs a Photographer over the given source and store.
func NewPhotographer(source Source, store core.ArtifactStore, optFns ...func(o *Options)) *Photographer {
	opts := Options{
		Prefix: "step",
		Logger: logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}
	return &Photographer{source: source, store: store, opts: opts, seq: make(map[string]int)}
}

// Capture grabs the window image, saves it under the session and returns the
// screenshot with its artifact id filled in.
func (p *Photographer) Capture(ctx context.Context, sessionID string, window core.Window) (*core.Screenshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var (
		data      []byte
		err       error
		annotated bool
	)
	if src, ok := p.source.(AnnotatedSource); ok && p.opts.Annotate {
		data, err = src.GrabAnnotated(ctx, window)
		annotated = true
	} else {
		data, err = p.source.Grab(ctx, window)
	}
	if err != nil {
		return nil, fmt.Errorf("screen: capture of %q failed: %w", window.Title, err)
	}

	artifactID := fmt.Sprintf("%s_%04d.png", p.opts.Prefix, p.next(sessionID))
	if p.store != nil {
		if err := p.store.Save(sessionID, artifactID, data); err != nil {
			return nil, fmt.Errorf("screen: persisting %s failed: %w", artifactID, err)
		}
	}
	p.opts.Logger.Debug("screenshot captured", "session_id", sessionID, "artifact_id", artifactID, "bytes", len(data), "annotated", annotated)

	return &core.Screenshot{ArtifactID: artifactID, Data: data, Annotated: annotated}, nil
}

func (p *Photographer) next(sessionID string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.seq[sessionID]++
	return p.seq[sessionID]
}
