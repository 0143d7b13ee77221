package spanio

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/bft-labs/traceship/pkg/log"
	"github.com/bft-labs/traceship/pkg/state"
	"github.com/bft-labs/traceship/pkg/trace"
)

// DefaultDebounce is the delay to wait after a file change before
// reading, so that bursts of appends are handled in one pass.
const DefaultDebounce = 100 * time.Millisecond

// Handler receives the traces parsed from one pass over newly appended
// span records. A non-nil error stops the follower.
type Handler func(traces []trace.Trace) error

// Follower tails a newline-delimited span file and hands newly appended
// records to a handler, grouped into traces per pass.
type Follower struct {
	path      string
	debounce  time.Duration
	logger    log.Logger
	stateRepo state.Repository

	offset  int64
	partial []byte
}

// NewFollower creates a follower for the given spans file. A zero
// debounce means DefaultDebounce.
func NewFollower(path string, debounce time.Duration, logger log.Logger) *Follower {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	return &Follower{
		path:     path,
		debounce: debounce,
		logger:   logger,
	}
}

// UseState makes the follower persist its read position through repo
// after every successful handler call, and resume from the persisted
// position on the next Run.
func (f *Follower) UseState(repo state.Repository) {
	f.stateRepo = repo
}

// Run drains the file's current content, then watches it for appends
// until the context is cancelled or the handler fails. The watch is on
// the containing directory so the file may be created or rotated while
// following; truncation restarts reading from the top.
func (f *Follower) Run(ctx context.Context, handler Handler) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("spanio: create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(f.path)); err != nil {
		return fmt.Errorf("spanio: watch %s: %w", filepath.Dir(f.path), err)
	}

	if f.stateRepo != nil {
		st, err := f.stateRepo.Load(ctx)
		if err != nil {
			return fmt.Errorf("spanio: load state: %w", err)
		}
		if st.InputPath == f.path {
			f.offset = st.Offset
			f.logger.Info("resuming from saved position",
				log.String("path", f.path),
				log.Int64("offset", f.offset))
		}
	}

	if err := f.drain(handler); err != nil {
		return err
	}

	debounce := time.NewTimer(f.debounce)
	if !debounce.Stop() {
		<-debounce.C
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != filepath.Clean(f.path) {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			if !debounce.Stop() {
				select {
				case <-debounce.C:
				default:
				}
			}
			debounce.Reset(f.debounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			f.logger.Warn("span file watcher error", log.Err(err))

		case <-debounce.C:
			if err := f.drain(handler); err != nil {
				return err
			}
		}
	}
}

// drain reads records appended since the last pass, groups the complete
// lines into traces, and hands them to the handler. A missing file is
// not an error; it simply has nothing to drain yet.
func (f *Follower) drain(handler Handler) error {
	file, err := os.Open(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("spanio: open %s: %w", f.path, err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return fmt.Errorf("spanio: stat %s: %w", f.path, err)
	}
	if info.Size() < f.offset {
		f.logger.Info("span file truncated, restarting from the top",
			log.String("path", f.path))
		f.offset = 0
		f.partial = nil
	}

	if _, err := file.Seek(f.offset, io.SeekStart); err != nil {
		return fmt.Errorf("spanio: seek %s: %w", f.path, err)
	}
	data, err := io.ReadAll(file)
	if err != nil {
		return fmt.Errorf("spanio: read %s: %w", f.path, err)
	}
	if len(data) == 0 {
		return nil
	}
	f.offset += int64(len(data))

	data = append(f.partial, data...)
	cut := bytes.LastIndexByte(data, '\n')
	if cut < 0 {
		f.partial = data
		return nil
	}
	f.partial = append([]byte(nil), data[cut+1:]...)

	g := newGrouper(f.logger)
	for _, line := range bytes.Split(data[:cut], []byte{'\n'}) {
		g.addLine(line)
	}

	traces := g.traces()
	if len(traces) == 0 {
		return nil
	}
	if err := handler(traces); err != nil {
		return err
	}

	if f.stateRepo != nil {
		var st state.State
		st.UpdateAfterShip(f.path, f.offset-int64(len(f.partial)))
		if err := f.stateRepo.Save(context.Background(), st); err != nil {
			f.logger.Warn("saving follow state failed", log.Err(err))
		}
	}
	return nil
}
