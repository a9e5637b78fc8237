package skim

import (
	"bufio"
	"io"
	"os"
	"regexp"
	"strings"
	"sync/atomic"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/shuntaka9576/skim/src/util"
)

// DefaultCommand is used when no explicit command is configured and
// stdin is a terminal (so there is nothing to pipe in).
const DefaultCommand = `find . -type f 2>/dev/null`

// ReaderOpts configures one Reader run.
type ReaderOpts struct {
	Cmd         string
	Stdin       io.Reader // non-nil: read from this instead of spawning Cmd
	Read0       bool      // NUL-delimited input instead of newline-delimited
	HeaderLines int
	Delimiter   *regexp.Regexp
	WithNth     []Range
	Nth         []Range
	RunNumber   uint64
}

// ReaderControl is the handle returned by RunReader: an opaque lifecycle
// object with a stopped flag, a shared output buffer, and a worker.
type ReaderControl struct {
	stopped atomic.Bool
	done    chan struct{}

	pool   *ItemPool
	events *util.EventBox

	proc   *os.Process
	killed atomic.Bool
}

// RunReader starts the Reader worker and returns its control handle. The
// worker streams lines from opts.Stdin (if set) or from
// `$SHELL -c opts.Cmd`, constructs Items, and appends them to pool,
// publishing EvtReadNew on every append and EvtReadFin once on EOF.
func RunReader(opts ReaderOpts, pool *ItemPool, events *util.EventBox, metrics *Metrics, log *zap.Logger) *ReaderControl {
	rc := &ReaderControl{done: make(chan struct{}), pool: pool, events: events}
	metrics.incReaderRestart()

	go rc.run(opts, metrics, log)
	return rc
}

func (rc *ReaderControl) run(opts ReaderOpts, metrics *Metrics, log *zap.Logger) {
	defer close(rc.done)
	defer rc.events.Set(EvtReadFin, nil)

	var src io.Reader
	if opts.Stdin != nil {
		src = opts.Stdin
	} else {
		cmd := opts.Cmd
		if cmd == "" {
			if env := os.Getenv("SKIM_DEFAULT_COMMAND"); env != "" {
				cmd = env
			} else if isatty.IsTerminal(os.Stdin.Fd()) {
				cmd = DefaultCommand
			}
		}
		execCmd := util.ExecCommand(cmd)
		stdout, err := execCmd.StdoutPipe()
		if err != nil {
			log.Warn("reader: failed to open stdout pipe", zap.Error(errors.Wrap(err, "StdoutPipe")))
			return
		}
		execCmd.Stderr = nil // stderr is discarded; only stdout feeds the pool
		if err := execCmd.Start(); err != nil {
			log.Warn("reader: failed to start command", zap.Error(errors.Wrap(err, "Start")))
			return
		}
		rc.proc = execCmd.Process

		supervisorDone := make(chan struct{})
		go rc.supervise(execCmd, supervisorDone)
		defer func() {
			rc.stopped.Store(true)
			<-supervisorDone
		}()

		src = stdout
	}

	index := uint32(0)
	batch := make([]*Item, 0, 256)
	flush := func() {
		if len(batch) == 0 {
			return
		}
		rc.pool.Append(batch)
		metrics.setPoolSize(rc.pool.Len())
		rc.events.Set(EvtReadNew, nil)
		batch = make([]*Item, 0, 256)
	}

	scanner := bufio.NewScanner(src)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)
	if opts.Read0 {
		scanner.Split(splitNul)
	}
	for scanner.Scan() {
		if rc.killed.Load() {
			break
		}
		line := stripTerminator(scanner.Text())
		// Malformed UTF-8 is lossily decoded, never dropped.
		line = strings.ToValidUTF8(line, "�")

		item := NewItem(line, ItemID{Run: opts.RunNumber, Index: index}, opts.Delimiter, opts.WithNth, opts.Nth)
		index++
		batch = append(batch, item)
		if len(batch) >= 256 {
			flush()
		}
	}
	flush()
	if err := scanner.Err(); err != nil {
		log.Warn("reader: scan error, stopping with partial results", zap.Error(errors.Wrap(err, "scan")))
	}
}

// supervise polls the stopped flag and reaps the child process once the
// main loop asks it to, so the read loop never blocks on process
// teardown.
func (rc *ReaderControl) supervise(cmd interface{ Wait() error }, done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(supervisorPollInterval)
	defer ticker.Stop()
	for range ticker.C {
		if rc.stopped.Load() || rc.killed.Load() {
			if rc.proc != nil && rc.killed.Load() {
				_ = rc.proc.Kill()
			}
			_ = cmd.Wait()
			return
		}
	}
}

func stripTerminator(line string) string {
	return strings.TrimSuffix(line, "\r")
}

func splitNul(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	for i, b := range data {
		if b == 0 {
			return i + 1, data[:i], nil
		}
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}

// Take returns items appended since the last call. It is a thin
// passthrough to the shared pool, which is the actual owner of the
// data.
func (rc *ReaderControl) Take() []*Item {
	return rc.pool.TakeNew()
}

// IsDone reports whether the reader has reached EOF and the pool has no
// unread items left.
func (rc *ReaderControl) IsDone() bool {
	select {
	case <-rc.done:
		return rc.pool.NumNotTaken() == 0
	default:
		return false
	}
}

// Kill requests the reader stop, joins its worker, and reaps the child.
// Returns within one supervisor polling interval.
func (rc *ReaderControl) Kill() {
	rc.killed.Store(true)
	rc.stopped.Store(true)
	<-rc.done
}
