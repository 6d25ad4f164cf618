package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSuggestCmd() *cobra.Command {
	var caret, pick int

	cmd := &cobra.Command{
		Use:   `suggest <project> "text"`,
		Short: "Autocomplete the @mention or #task at the caret",
		Long:  "List members or tasks matching the reference being typed at --caret (a character offset; default end of text). With --pick N the Nth candidate is inserted and the new text printed.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var caretPtr *int
			if cmd.Flags().Changed("caret") {
				caretPtr = &caret
			}

			c := newAPIClient()
			sugg, err := c.Suggest(args[0], args[1], caretPtr)
			if err != nil {
				return err
			}

			if pick == 0 {
				if isJSON() {
					return printJSON(out(cmd), sugg)
				}
				return printSuggestions(out(cmd), sugg)
			}

			if pick < 1 || pick > len(sugg.Candidates) {
				return fmt.Errorf("--pick %d out of range (%d candidates)", pick, len(sugg.Candidates))
			}
			text, newCaret, err := c.Apply(args[0], args[1], caretPtr, sugg.Candidates[pick-1])
			if err != nil {
				return err
			}
			if isJSON() {
				return printJSON(out(cmd), map[string]any{"text": text, "caret": newCaret})
			}
			_, err = fmt.Fprintln(out(cmd), text)
			return err
		},
	}

	cmd.Flags().IntVar(&caret, "caret", 0, "caret position in characters")
	cmd.Flags().IntVar(&pick, "pick", 0, "insert the Nth candidate")

	return cmd
}
