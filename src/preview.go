package skim

import (
	"bytes"
	"os"
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/shuntaka9576/skim/src/util"
)

// PreviewResult is the output of one preview subprocess run, published
// to the Event Loop via EvtPreviewReady.
type PreviewResult struct {
	Generation uint64
	Text       string
	Err        error
}

// Previewer runs an optional preview subprocess whenever the current
// selection changes, killing the previous one if it is still running.
// Grounded on the same spawn/reap shape as RunReader (src/reader.go),
// specialized for a one-shot command instead of a long streaming one.
type Previewer struct {
	events *util.EventBox
	log    *zap.Logger

	mu         sync.Mutex
	generation uint64
	proc       *os.Process
}

// NewPreviewer constructs a Previewer that publishes results onto events.
func NewPreviewer(events *util.EventBox, log *zap.Logger) *Previewer {
	return &Previewer{events: events, log: log}
}

// Update cancels any in-flight preview and starts a new one for
// template, expanded against ctx via command.go's ExpandTemplate. An
// empty template is a no-op (no preview configured).
func (p *Previewer) Update(template string, ctx TemplateContext) {
	if template == "" {
		return
	}
	cmdline := ExpandTemplate(template, ctx)

	p.mu.Lock()
	if p.proc != nil {
		_ = p.proc.Kill()
		p.proc = nil
	}
	p.generation++
	gen := p.generation
	p.mu.Unlock()

	go p.run(gen, cmdline)
}

func (p *Previewer) run(gen uint64, cmdline string) {
	cmd := util.ExecCommand(cmdline)
	var out, errBuf bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errBuf

	if err := cmd.Start(); err != nil {
		p.publish(gen, "", errors.Wrap(err, "preview: start"))
		return
	}

	p.mu.Lock()
	if gen == p.generation {
		p.proc = cmd.Process
	}
	p.mu.Unlock()

	err := cmd.Wait()

	p.mu.Lock()
	superseded := gen != p.generation
	if !superseded {
		p.proc = nil
	}
	p.mu.Unlock()
	if superseded {
		return
	}

	if err != nil && out.Len() == 0 {
		p.publish(gen, "", errors.Wrap(err, "preview: run"))
		return
	}
	p.publish(gen, out.String(), nil)
}

func (p *Previewer) publish(gen uint64, text string, err error) {
	p.mu.Lock()
	current := p.generation
	p.mu.Unlock()
	if gen != current {
		// A newer preview superseded this one; drop the stale result
		// instead of publishing out-of-order text.
		return
	}
	if err != nil && p.log != nil {
		p.log.Warn("preview: subprocess error", zap.Error(err))
	}
	p.events.Set(EvtPreviewReady, PreviewResult{Generation: gen, Text: text, Err: err})
}

// Kill cancels any in-flight preview run without starting a new one.
func (p *Previewer) Kill() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.generation++
	if p.proc != nil {
		_ = p.proc.Kill()
		p.proc = nil
	}
}
