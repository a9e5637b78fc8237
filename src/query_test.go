package skim

import "testing"

func TestEditBufferInsertAndDelete(t *testing.T) {
	var b editBuffer
	b.InsertString("helo")
	b.cursor = 3
	b.InsertRune('l')
	if b.String() != "hello" {
		t.Fatalf("got %q", b.String())
	}
	if !b.DeleteCharBackward() {
		t.Fatal("expected delete to succeed")
	}
	if b.String() != "hell" {
		t.Fatalf("got %q", b.String())
	}
}

func TestEditBufferDeleteWordBackward(t *testing.T) {
	var b editBuffer
	b.InsertString("foo bar baz")
	b.DeleteWordBackward()
	if b.String() != "foo bar " {
		t.Fatalf("got %q", b.String())
	}
}

func TestEditBufferKillAndYank(t *testing.T) {
	var b editBuffer
	b.InsertString("hello world")
	b.cursor = 5
	b.KillLine()
	if b.String() != "hello" {
		t.Fatalf("got %q", b.String())
	}
	b.Yank()
	if b.String() != "hello world" {
		t.Fatalf("got %q", b.String())
	}
}

func TestQueryGetCmd(t *testing.T) {
	q := NewQuery("grep {} file.txt")
	if q.GetCmd() != "grep  file.txt" {
		t.Fatalf("got %q", q.GetCmd())
	}
	q.CmdBuffer().InsertString("pattern")
	if q.GetCmd() != "grep pattern file.txt" {
		t.Fatalf("got %q", q.GetCmd())
	}
}
