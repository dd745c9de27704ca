package governor

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Prompt returns a ConfirmFunc that asks on out and reads y/n/q answers from in.
// Anything other than y or q declines. End of input quits the run.
func Prompt(in io.Reader, out io.Writer) ConfirmFunc {
	reader := bufio.NewReader(in)

	return func(ctx context.Context, proposal Proposal) (Decision, error) {
		fmt.Fprintf(out, "\nItem:           %s (r/%s)\n", proposal.ItemID, proposal.Origin)
		if proposal.URL != "" {
			fmt.Fprintf(out, "URL:            %s\n", proposal.URL)
		}
		fmt.Fprintf(out, "Proposed reply: %s\n", proposal.Text)
		fmt.Fprint(out, "Post this reply? (y/n/q to quit): ")

		line, err := reader.ReadString('\n')
		answer := strings.ToLower(strings.TrimSpace(line))
		if err != nil && answer == "" {
			if errors.Is(err, io.EOF) {
				return Quit, nil
			}
			return Quit, fmt.Errorf("failed to read confirmation: %w", err)
		}

		switch answer {
		case "y", "yes":
			return Approve, nil
		case "q", "quit":
			return Quit, nil
		default:
			return Decline, nil
		}
	}
}
