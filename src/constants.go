package skim

import (
	"time"

	"github.com/shuntaka9576/skim/src/util"
)

// EvtType distinguishes the kinds of events carried through the shared
// EventBox that feeds the Event Loop. It is an alias of util.EventType
// so EvtType constants can be passed directly to
// EventBox.Set/Peek/Watch/Unwatch.
type EvtType = util.EventType

const (
	// EvtReadNew fires whenever the Reader appends at least one new item
	// to the pool.
	EvtReadNew EvtType = iota
	// EvtReadFin fires once, when the Reader has reached EOF.
	EvtReadFin
	// EvtSearchProgress fires after each batch the Matcher scores; its
	// value is the Model's matcher generation (a uint64).
	EvtSearchProgress
	// EvtHeartBeat is published after each periodic Drain of the
	// Matcher's accumulated results into the Selection.
	EvtHeartBeat
	// EvtPreviewReady carries the text produced by the last preview
	// subprocess run.
	EvtPreviewReady
)

const (
	// heartBeatInterval is the default heartbeat retry period.
	heartBeatInterval = 100 * time.Millisecond

	// supervisorPollInterval is how often the Reader's reap supervisor
	// checks the stopped flag.
	supervisorPollInterval = 5 * time.Millisecond

	// matcherIdleBackoff bounds how long the Matcher sleeps between
	// empty TakeNew polls while waiting for the Reader to produce more
	// input.
	matcherIdleBackoff = 2 * time.Millisecond
)
