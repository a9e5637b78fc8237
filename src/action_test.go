package skim

import "testing"

func TestParseActionBare(t *testing.T) {
	act, ok := ParseAction("abort")
	if !ok || act.Kind != ActAbort {
		t.Fatalf("got %+v ok=%v", act, ok)
	}
}

func TestParseActionWithArg(t *testing.T) {
	act, ok := ParseAction("execute(vim {})")
	if !ok {
		t.Fatal("expected ok")
	}
	if act.Kind != ActExecute || act.Arg != "vim {}" {
		t.Fatalf("got %+v", act)
	}
}

func TestParseActionNested(t *testing.T) {
	act, ok := ParseAction("if-query-empty(abort)")
	if !ok || act.Kind != ActIfQueryEmpty || act.Arg != "abort" {
		t.Fatalf("got %+v ok=%v", act, ok)
	}
}

func TestParseActionToggleCmdQueryMode(t *testing.T) {
	act, ok := ParseAction("toggle-cmd-query-mode")
	if !ok || act.Kind != ActToggleCmdQueryMode {
		t.Fatalf("got %+v ok=%v", act, ok)
	}
}

func TestParseActionUnknown(t *testing.T) {
	if _, ok := ParseAction("not-a-real-action"); ok {
		t.Error("expected unknown action to fail")
	}
}

func TestSplitShellArgsRespectsQuotes(t *testing.T) {
	toks, err := splitShellArgs(`vim "my file.txt" --readonly`)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"vim", "my file.txt", "--readonly"}
	if len(toks) != len(want) {
		t.Fatalf("got %v want %v", toks, want)
	}
	for i := range want {
		if toks[i] != want[i] {
			t.Errorf("index %d: got %q want %q", i, toks[i], want[i])
		}
	}
}
