package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"regexp"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	skim "github.com/shuntaka9576/skim/src"
	"github.com/shuntaka9576/skim/src/tui"
)

// main is a thin entry point: parse the summarized CLI surface into an
// Options, wire ambient logging/metrics, and hand off to skim.Run. The
// --bind keymap DSL and fzf's full multi-line --help text are out of
// scope, so flag parsing here stays minimal compared to fzf's own
// src/options.go ParseOptions.
func main() {
	opts := skim.DefaultOptions()

	cmd := flag.String("c", "", "command to run for generating input (default: find . -type f; piped stdin is not read)")
	query := flag.String("q", "", "initial query")
	multi := flag.Bool("m", false, "enable multi-select")
	exact := flag.Bool("e", false, "exact-match mode")
	regexMode := flag.Bool("regex", false, "regex-match mode")
	read0 := flag.Bool("0", false, "read input delimited by NUL instead of newline")
	delimiter := flag.String("d", "", "field delimiter regex (AWK-style whitespace by default)")
	previewCmd := flag.String("preview", "", "command to run for the preview window, may reference {}")
	filterOnly := flag.Bool("filter", false, "non-interactive: print every match for -q and exit")
	print0 := flag.Bool("print0", false, "use NUL instead of newline to separate multiple outputs")
	flag.Parse()

	if *cmd != "" {
		opts.Cmd = *cmd
	}
	opts.Query = *query
	opts.Multi = *multi
	opts.Read0 = *read0
	opts.PreviewCmd = *previewCmd
	opts.FilterOnly = *filterOnly
	opts.Print0 = *print0
	if *exact {
		opts.Mode = skim.ModeExact
	}
	if *regexMode {
		opts.Mode = skim.ModeRegex
	}
	if *delimiter != "" {
		re, err := regexp.Compile(*delimiter)
		if err != nil {
			fmt.Fprintf(os.Stderr, "skim: invalid --delimiter: %v\n", err)
			os.Exit(2)
		}
		opts.Delimiter = re
	}

	log := skim.NewLogger()
	defer log.Sync()

	var metrics *skim.Metrics
	if opts.MetricsAddr != "" {
		reg := prometheus.NewRegistry()
		metrics = skim.NewMetrics(reg)
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		go func() {
			if err := http.ListenAndServe(opts.MetricsAddr, mux); err != nil {
				log.Warn("metrics: listener stopped", zap.Error(err))
			}
		}()
	}

	var renderer tui.Renderer = tui.NewScreenRenderer()
	if opts.FilterOnly {
		renderer = tui.NopRenderer{}
	}

	outcome, err := skim.Run(opts, renderer, log, metrics)
	if err != nil {
		fmt.Fprintf(os.Stderr, "skim: %v\n", err)
		os.Exit(1)
	}
	if outcome.Aborted {
		os.Exit(130)
	}

	sep := "\n"
	if opts.Print0 {
		sep = "\x00"
	}
	for _, item := range outcome.Selected {
		fmt.Print(item.RawText, sep)
	}
}
