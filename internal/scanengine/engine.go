// Package scanengine checks the PNG files below a root one tick at a time.
package scanengine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/joe/png-scan/internal/config"
	"github.com/joe/png-scan/pkg/enumerator"
	pkgerrors "github.com/joe/png-scan/pkg/errors"
	"github.com/joe/png-scan/pkg/filesystem"
	"github.com/joe/png-scan/pkg/imaging"
)

// Exported constants.
const (
	// LogLimit is the number of recent results kept in Status.Log.
	LogLimit = 200
)

// Exported variables.
var (
	ErrRootUnavailable = errors.New("scan root unavailable")
)

// Engine runs scan sessions over one root. A session starts with Start and
// advances one file per Step until the walk is exhausted.
//
// Step, Start, Stop, Clear and Close may be called from different goroutines;
// Status is safe to call while a Step is decoding.
type Engine struct {
	cfg          *config.Config
	fsys         filesystem.FileSystem
	root         string
	emitter      EventEmitter
	timeProvider TimeProvider
	enricher     pkgerrors.Enricher
	filter       FileFilter
	closer       func()

	// opMu serialises session operations; the enumerator is single-threaded.
	opMu   sync.Mutex
	source fileSource

	mu     sync.Mutex
	status Status
}

// Option configures an Engine.
type Option func(*Engine)

// WithCloser registers a function Close calls to release the backend.
func WithCloser(closer func()) Option {
	return func(e *Engine) {
		e.closer = closer
	}
}

// WithEventEmitter sets where events go. Without one, events are dropped.
func WithEventEmitter(emitter EventEmitter) Option {
	return func(e *Engine) {
		e.emitter = emitter
	}
}

// WithFilter replaces the exclude filter built from the configuration.
func WithFilter(filter FileFilter) Option {
	return func(e *Engine) {
		e.filter = filter
	}
}

// WithTimeProvider injects the clock and ticker source.
func WithTimeProvider(provider TimeProvider) Option {
	return func(e *Engine) {
		e.timeProvider = provider
	}
}

// NewEngine creates an engine that scans root on fsys. Nothing is read until
// Start.
func NewEngine(cfg *config.Config, fsys filesystem.FileSystem, root string, opts ...Option) *Engine {
	engine := &Engine{
		cfg:          cfg,
		fsys:         fsys,
		root:         root,
		timeProvider: &RealTimeProvider{},
		enricher:     pkgerrors.NewEnricher(),
		filter:       NewExcludeFilter(cfg.Exclude),
	}

	for _, opt := range opts {
		opt(engine)
	}

	engine.status.Root = root

	return engine
}

// Open creates an engine for a root given as a local path or sftp:// URL.
// The returned engine owns the connection; Close releases it. cfg.Confine
// keeps a local scan inside its root.
func Open(cfg *config.Config, root string, opts ...Option) (*Engine, error) {
	fsys, base, closer, err := filesystem.CreateFileSystem(root, cfg.Confine)
	if err != nil {
		return nil, fmt.Errorf("failed to create filesystem: %w", err)
	}

	return NewEngine(cfg, fsys, base, append(opts, WithCloser(closer))...), nil
}

// Clear discards the current session: the walk is closed and the counters
// and log are reset. The next Start begins a new session.
func (e *Engine) Clear() {
	e.opMu.Lock()
	defer e.opMu.Unlock()

	id := e.clear()
	if id != uuid.Nil {
		e.emit(ScanCleared{ID: id})
	}
}

// Close clears the engine and releases the backend.
func (e *Engine) Close() {
	e.Clear()

	if e.closer != nil {
		e.closer()
		e.closer = nil
	}
}

// Root returns the root as the backend spells it.
func (e *Engine) Root() string {
	return e.root
}

// Run drives a session from the console: it starts (or resumes) the scan and
// checks one file per tick until the walk is exhausted or ctx is done.
func (e *Engine) Run(ctx context.Context, interval time.Duration) error {
	if err := e.Start(); err != nil {
		return err
	}

	ticker := e.timeProvider.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			e.Stop()

			return fmt.Errorf("scan interrupted: %w", ctx.Err())
		case <-ticker.C():
			if !e.Step() {
				return nil
			}
		}
	}
}

// Start resumes a paused session or, when there is none or the last one has
// finished, begins a new one. A root that cannot be inspected is an error.
func (e *Engine) Start() error {
	e.opMu.Lock()
	defer e.opMu.Unlock()

	e.mu.Lock()
	resumable := e.source != nil && !e.status.Done
	if resumable {
		e.status.Running = true
	}
	e.mu.Unlock()

	if resumable {
		return nil
	}

	e.clear()

	source, err := e.openSource()
	if err != nil {
		return err
	}

	now := e.timeProvider.Now()
	id := uuid.New()

	e.source = source

	e.mu.Lock()
	e.status.ID = id
	e.status.Running = true
	e.status.StartTime = now
	e.mu.Unlock()

	e.emit(ScanStarted{ID: id, Root: e.root})

	return nil
}

// Status returns a snapshot of the current session.
func (e *Engine) Status() Status {
	e.mu.Lock()
	defer e.mu.Unlock()

	snapshot := e.status
	snapshot.Log = append([]LogEntry(nil), e.status.Log...)

	if !snapshot.StartTime.IsZero() {
		end := snapshot.EndTime
		if end.IsZero() {
			end = e.timeProvider.Now()
		}

		snapshot.Elapsed = end.Sub(snapshot.StartTime)
	}

	return snapshot
}

// Step checks the next file of a running session. It returns false when the
// engine is paused or cleared, and once the walk is exhausted (ScanComplete
// is emitted the first time). Directories returned by the walk and excluded
// files are passed over without being counted.
func (e *Engine) Step() bool {
	e.opMu.Lock()
	defer e.opMu.Unlock()

	e.mu.Lock()
	running := e.status.Running
	e.mu.Unlock()

	if !running || e.source == nil {
		return false
	}

	for {
		path := e.source.Next()
		if path == "" {
			e.finish()

			return false
		}

		info := e.source.Info()
		if info.IsDir {
			continue
		}

		if !e.filter.ShouldInclude(relativePath(e.fsys.Syntax(), e.root, path)) {
			continue
		}

		e.check(path, info)

		return true
	}
}

// Stop pauses the session. Start resumes it where it left off.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.status.Running = false
}

// check decodes one file and records the outcome.
func (e *Engine) check(path string, info enumerator.FileInfo) {
	e.mu.Lock()
	e.status.Stats.All++
	e.status.CurrentFile = path
	e.status.Width, e.status.Height = 0, 0
	id := e.status.ID
	e.mu.Unlock()

	img, err := imaging.DecodeFile(e.fsys, path, e.cfg.MaxSize)
	if err != nil {
		enriched := e.enricher.Enrich(err, path)
		suggestions := pkgerrors.FormatSuggestions(enriched)

		category := pkgerrors.CategoryUnknown

		var actionable pkgerrors.ActionableError
		if errors.As(enriched, &actionable) {
			category = actionable.Category()
		}

		e.mu.Lock()
		e.status.Stats.Err++
		e.status.appendLog(LogEntry{Path: path, Err: enriched, Suggestions: suggestions})
		e.mu.Unlock()

		e.emit(FileFailed{ID: id, Path: path, Err: enriched, Category: category, Suggestions: suggestions})

		return
	}

	e.mu.Lock()
	e.status.Stats.OK++
	e.status.Width, e.status.Height = img.Width, img.Height
	e.status.appendLog(LogEntry{Path: path, Width: img.Width, Height: img.Height})
	e.mu.Unlock()

	e.emit(FileChecked{ID: id, Path: path, Width: img.Width, Height: img.Height, Size: info.Size})
}

// clear closes the walk and resets the status. It returns the discarded
// session id, or uuid.Nil when there was none. Callers hold opMu.
func (e *Engine) clear() uuid.UUID {
	if e.source != nil {
		_ = e.source.Close()
		e.source = nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	id := e.status.ID
	e.status = Status{Root: e.root}

	return id
}

func (e *Engine) emit(event Event) {
	if e.emitter != nil {
		e.emitter.Emit(event)
	}
}

// finish marks the session done, emitting ScanComplete the first time.
func (e *Engine) finish() {
	e.mu.Lock()

	if e.status.Done {
		e.mu.Unlock()

		return
	}

	e.status.Done = true
	e.status.Running = false
	e.status.CurrentFile = ""
	e.status.EndTime = e.timeProvider.Now()

	event := ScanComplete{
		ID:          e.status.ID,
		Stats:       e.status.Stats,
		SkippedDirs: e.status.SkippedDirs,
		Elapsed:     e.status.EndTime.Sub(e.status.StartTime),
	}
	e.mu.Unlock()

	e.emit(event)
}

// openSource builds the walk for a new session. A regular file root is a
// session of one.
func (e *Engine) openSource() (fileSource, error) {
	entry, err := e.fsys.Stat(e.root)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrRootUnavailable, e.root, err)
	}

	if !entry.IsDir {
		return newSingleFile(e.root, entry), nil
	}

	return enumerator.New(e.fsys, e.root, e.cfg.Recursive, e.cfg.FileTypes(),
		enumerator.WithPattern(e.cfg.Pattern),
		enumerator.WithPolicy(e.cfg.Policy),
		enumerator.WithOpenErrorHandler(e.directorySkipped),
	), nil
}

// directorySkipped runs inside Step while the walk opens a directory.
func (e *Engine) directorySkipped(dir string, err error) {
	e.mu.Lock()
	id := e.status.ID
	e.status.SkippedDirs++
	e.mu.Unlock()

	e.emit(DirectorySkipped{ID: id, Dir: dir, Err: err})
}

// fileSource is the walk behind a session.
type fileSource interface {
	Next() string
	Info() enumerator.FileInfo
	Close() error
}

var _ fileSource = (*enumerator.FileEnumerator)(nil)

// singleFile yields one path.
type singleFile struct {
	path    string
	info    enumerator.FileInfo
	pending bool
	current enumerator.FileInfo
}

func newSingleFile(path string, entry filesystem.Entry) *singleFile {
	return &singleFile{
		path: path,
		info: enumerator.FileInfo{
			Name:    entry.Name,
			Size:    entry.Size,
			Mode:    entry.Mode,
			ModTime: entry.ModTime,
		},
		pending: true,
	}
}

func (s *singleFile) Close() error {
	s.pending = false
	s.current = enumerator.FileInfo{}

	return nil
}

func (s *singleFile) Info() enumerator.FileInfo {
	return s.current
}

func (s *singleFile) Next() string {
	if !s.pending {
		s.current = enumerator.FileInfo{}

		return ""
	}

	s.pending = false
	s.current = s.info

	return s.path
}
