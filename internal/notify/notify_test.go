package notify

import (
	"bytes"
	"testing"
)

func TestConsole(t *testing.T) {
	var out, errOut bytes.Buffer
	c := &Console{Out: &out, Err: &errOut}

	c.Notify(Success, "Translation done!")
	c.Notify(Error, "Failed to translate. Please try again later.")

	if out.String() != "✓ Translation done!\n" {
		t.Errorf("stdout = %q", out.String())
	}
	if errOut.String() != "✗ Failed to translate. Please try again later.\n" {
		t.Errorf("stderr = %q", errOut.String())
	}
}

func TestFunc(t *testing.T) {
	var gotKind Kind
	var gotMsg string
	var n Notifier = Func(func(k Kind, m string) {
		gotKind, gotMsg = k, m
	})

	n.Notify(Error, "boom")
	if gotKind != Error || gotMsg != "boom" {
		t.Errorf("got %v %q", gotKind, gotMsg)
	}

	Discard.Notify(Success, "ignored")
}

func TestKindString(t *testing.T) {
	if Success.String() != "success" || Error.String() != "error" {
		t.Errorf("unexpected kind strings: %s, %s", Success, Error)
	}
}
