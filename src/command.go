package skim

import (
	"fmt"
	"regexp"
	"strings"
)

// placeholderPattern recognizes {}, {q}, {cq}, {N}, and {N..M}. Grounded
// on github.com/junegunn/fzf's src/terminal.go:parsePlaceholder /
// replacePlaceholder.
var placeholderPattern = regexp.MustCompile(`\{(\+?)(q|cq|[0-9.,-]*)\}|\{\}`)

// TemplateContext carries the values a command template may reference.
type TemplateContext struct {
	Selection string // the single current selection's output text
	Query     string
	CmdQuery  string
	Delimiter *regexp.Regexp
}

// shellQuote single-quotes s for safe interpolation into a `sh -c`
// command line, matching fzf's quoteEntry convention.
func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// ExpandTemplate substitutes {}, {q}, {cq}, {N}, and {N..M} placeholders
// in template against ctx, shell-quoting every substitution so the
// result is safe to hand to `sh -c`.
func ExpandTemplate(template string, ctx TemplateContext) string {
	return placeholderPattern.ReplaceAllStringFunc(template, func(match string) string {
		if match == "{}" {
			return shellQuote(ctx.Selection)
		}
		inner := match[1 : len(match)-1]
		switch inner {
		case "q":
			return shellQuote(ctx.Query)
		case "cq":
			return shellQuote(ctx.CmdQuery)
		}
		if r, ok := ParseRange(inner); ok {
			return shellQuote(ProjectFields(ctx.Selection, ctx.Delimiter, []Range{r}))
		}
		return match
	})
}

// HasPlaceholder reports whether template references any of the
// command-template placeholders.
func HasPlaceholder(template string) bool {
	return placeholderPattern.MatchString(template)
}

// BuildShellCommand formats a full `sh -c <quoted>` style invocation
// string for logging/diagnostics; actual execution goes through
// util.ExecCommand, which re-derives the shell from $SHELL.
func BuildShellCommand(shell, expanded string) string {
	return fmt.Sprintf("%s -c %s", shell, shellQuote(expanded))
}

