package main

import (
	"bytes"
	"testing"
)

func TestSolveCmd_TrivialSpecSucceeds(t *testing.T) {
	cmd := newSolveCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--max-time", "5", "--workers", "2", trivialSpecFile(t)})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("unexpected error: %v\noutput: %s", err, out.String())
	}
	if out.Len() == 0 {
		t.Fatal("expected solve output")
	}
}
