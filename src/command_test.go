package skim

import "testing"

func TestExpandTemplateSelection(t *testing.T) {
	ctx := TemplateContext{Selection: "hello world"}
	got := ExpandTemplate("echo {}", ctx)
	want := "echo 'hello world'"
	if got != want {
		t.Errorf("got %q want %q", got, want)
	}
}

func TestExpandTemplateQueryAndCmdQuery(t *testing.T) {
	ctx := TemplateContext{Query: "foo", CmdQuery: "bar"}
	got := ExpandTemplate("grep {q} | wc -l # {cq}", ctx)
	want := "grep 'foo' | wc -l # 'bar'"
	if got != want {
		t.Errorf("got %q want %q", got, want)
	}
}

func TestExpandTemplateFieldRange(t *testing.T) {
	ctx := TemplateContext{Selection: "a b c", Delimiter: DefaultDelimiter}
	got := ExpandTemplate("echo {2}", ctx)
	want := "echo 'b'"
	if got != want {
		t.Errorf("got %q want %q", got, want)
	}
}

func TestExpandTemplateEscapesSingleQuotes(t *testing.T) {
	ctx := TemplateContext{Selection: "it's here"}
	got := ExpandTemplate("echo {}", ctx)
	want := `echo 'it'\''s here'`
	if got != want {
		t.Errorf("got %q want %q", got, want)
	}
}

func TestHasPlaceholder(t *testing.T) {
	if !HasPlaceholder("vim {}") {
		t.Error("expected {} to be detected")
	}
	if !HasPlaceholder("grep {q}") {
		t.Error("expected {q} to be detected")
	}
	if HasPlaceholder("echo hello") {
		t.Error("expected no placeholder to be detected")
	}
}

func TestBuildShellCommand(t *testing.T) {
	got := BuildShellCommand("/bin/sh", "echo hi")
	want := "/bin/sh -c 'echo hi'"
	if got != want {
		t.Errorf("got %q want %q", got, want)
	}
}
