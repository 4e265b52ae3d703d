// Package pipeline runs the generate/decode/report sequence. The
// steps are strictly sequential and, like the shell pipeline this
// replaces, the reporting stages surface errors without stopping the
// stages that follow.
package pipeline

import (
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/chrisrosset/avro-playground/pkg/config"
	"github.com/chrisrosset/avro-playground/pkg/container"
	"github.com/chrisrosset/avro-playground/pkg/manifest"
	"github.com/chrisrosset/avro-playground/pkg/record"
	"github.com/chrisrosset/avro-playground/pkg/report"
	"github.com/chrisrosset/avro-playground/pkg/workspace"
)

// stampFormat mirrors an ISO-8601 timestamp with microseconds, the
// base name generated files have always carried.
const stampFormat = "2006-01-02T15:04:05.000000"

// Pipeline owns one run of the full sequence.
type Pipeline struct {
	ws     *workspace.Workspace
	cfg    config.Config
	rep    *report.Reporter
	store  *manifest.Store
	logger *zap.Logger
	out    io.Writer
	errw   io.Writer
	now    func() time.Time
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithManifest records each run in store and logs the diff against
// the previous run.
func WithManifest(store *manifest.Store) Option {
	return func(p *Pipeline) { p.store = store }
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(p *Pipeline) { p.logger = logger }
}

// WithOutput redirects the report and error streams.
func WithOutput(out, errw io.Writer) Option {
	return func(p *Pipeline) {
		p.out = out
		p.errw = errw
	}
}

// WithClock sets the time source used for file stamps.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) { p.now = now }
}

// New creates a Pipeline over ws with the given generator settings.
func New(ws *workspace.Workspace, cfg config.Config, opts ...Option) *Pipeline {
	p := &Pipeline{
		ws:     ws,
		cfg:    cfg,
		rep:    report.New(ws),
		logger: zap.NewNop(),
		out:    os.Stdout,
		errw:   os.Stderr,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Generate synthesizes one record set and writes it twice under a
// timestamped base name: once through the regular container encoder
// and once through the append writer. It returns the file names.
func (p *Pipeline) Generate() ([]string, error) {
	stamp := p.now().Format(stampFormat)
	gen := p.cfg.Generator()
	records := gen.Records(p.cfg.Count)

	realName := stamp + ".real.avro"
	if err := container.WriteFile(p.ws.Path(realName), record.Schema, records); err != nil {
		return nil, fmt.Errorf("write %s: %w", realName, err)
	}

	fakeName := stamp + ".fake.avro"
	w, err := container.NewAppendWriter(p.ws.Path(fakeName), record.Schema)
	if err != nil {
		return nil, fmt.Errorf("write %s: %w", fakeName, err)
	}
	for _, rec := range records {
		if err := w.Append(rec); err != nil {
			w.Close()
			return nil, fmt.Errorf("write %s: %w", fakeName, err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("close %s: %w", fakeName, err)
	}

	p.logger.Debug("generated container files",
		zap.Int("records", len(records)),
		zap.String("real", realName),
		zap.String("fake", fakeName))
	return []string{realName, fakeName}, nil
}

// Decode writes a `<name>.json` companion for every `*.avro` file.
func (p *Pipeline) Decode() error {
	names, err := p.ws.Glob(workspace.PatternAvro)
	if err != nil {
		return err
	}
	for _, name := range names {
		if err := p.decodeOne(name); err != nil {
			return err
		}
	}
	return nil
}

func (p *Pipeline) decodeOne(name string) error {
	f, err := os.Create(p.ws.Path(name + ".json"))
	if err != nil {
		return fmt.Errorf("create %s.json: %w", name, err)
	}
	if err := container.WriteJSON(p.ws.Path(name), f); err != nil {
		f.Close()
		return fmt.Errorf("decode %s: %w", name, err)
	}
	return f.Close()
}

// Run executes the full sequence: clean, generate, then the three
// report sections. Generation failure aborts; report-stage failures
// are printed and run on, matching the shell pipeline's behavior.
func (p *Pipeline) Run() error {
	if err := p.ws.Clean(); err != nil {
		return fmt.Errorf("clean workspace: %w", err)
	}

	if _, err := p.Generate(); err != nil {
		return err
	}

	fmt.Fprintln(p.out, "Raw sums:")
	p.reportStep(p.rep.Sums(p.out, p.errw, workspace.PatternRaw))

	fmt.Fprintln(p.out)
	fmt.Fprintln(p.out, "Content sums:")
	if err := p.Decode(); err != nil {
		fmt.Fprintln(p.errw, err)
		p.logger.Warn("decode stage failed", zap.Error(err))
	}
	p.reportStep(p.rep.Sums(p.out, p.errw, workspace.PatternJSON))

	fmt.Fprintln(p.out)
	fmt.Fprintln(p.out, "File sizes:")
	p.reportStep(p.rep.Sizes(p.out, p.errw, workspace.PatternRaw))
	p.reportStep(p.rep.Sizes(p.out, p.errw, workspace.PatternJSON))

	if p.store != nil {
		if err := p.record(); err != nil {
			return err
		}
	}
	return nil
}

func (p *Pipeline) reportStep(err error) {
	if err != nil {
		p.logger.Warn("report step failed", zap.Error(err))
	}
}

func (p *Pipeline) record() error {
	run, err := manifest.Capture(p.ws, p.now())
	if err != nil {
		return fmt.Errorf("capture run: %w", err)
	}
	if err := p.store.Record(run); err != nil {
		return err
	}

	changes, ok, err := p.store.DiffLatest()
	if err != nil {
		return err
	}
	if !ok {
		p.logger.Info("recorded first run", zap.String("run", run.ID))
		return nil
	}
	p.logger.Info("recorded run",
		zap.String("run", run.ID),
		zap.Int("changed_files", len(changes)))
	for _, c := range changes {
		p.logger.Debug("content changed",
			zap.String("file", c.Name),
			zap.String("before", c.Before),
			zap.String("after", c.After))
	}
	return nil
}
