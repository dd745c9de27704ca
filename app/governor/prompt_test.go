package governor

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestPromptDecisions(t *testing.T) {
	tests := []struct {
		input string
		want  Decision
	}{
		{"y\n", Approve},
		{"YES\n", Approve},
		{"n\n", Decline},
		{"maybe\n", Decline},
		{"\n", Decline},
		{"q\n", Quit},
		{"Quit\n", Quit},
		{"", Quit},
		{"y", Approve},
	}

	proposal := Proposal{ItemID: "p1", Origin: "AskReddit", URL: "https://reddit.com/r/AskReddit/comments/p1/", Text: `define "justice"`}

	for _, tt := range tests {
		var out bytes.Buffer
		confirm := Prompt(strings.NewReader(tt.input), &out)

		got, err := confirm(context.Background(), proposal)
		if err != nil {
			t.Errorf("Input %q: unexpected error %v", tt.input, err)
		}
		if got != tt.want {
			t.Errorf("Input %q: expected %s, got %s", tt.input, tt.want, got)
		}
		if !strings.Contains(out.String(), `define "justice"`) {
			t.Errorf("Expected prompt to show the reply, got %q", out.String())
		}
		if !strings.Contains(out.String(), "(y/n/q to quit)") {
			t.Errorf("Expected y/n/q prompt, got %q", out.String())
		}
	}
}

func TestPromptReadsSequentialAnswers(t *testing.T) {
	var out bytes.Buffer
	confirm := Prompt(strings.NewReader("n\ny\nq\n"), &out)

	want := []Decision{Decline, Approve, Quit}
	for i, w := range want {
		got, err := confirm(context.Background(), Proposal{ItemID: "p"})
		if err != nil {
			t.Fatal(err)
		}
		if got != w {
			t.Errorf("Answer %d: expected %s, got %s", i, w, got)
		}
	}
}
