package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/cardfan/pkg/deck"
)

// initCommand creates the init command.
func (c *CLI) initCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [deck.toml]",
		Short: "Write the sample deck to a file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "deck.toml"
			if len(args) > 0 {
				path = args[0]
			}
			if err := writeSampleDeck(path, force); err != nil {
				return err
			}
			printSuccess("Wrote %s", path)
			printNextStep("Render it", "cardfan render "+path+" -f png")
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")

	return cmd
}

func writeSampleDeck(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}
	}
	data, err := deck.Sample().Bytes()
	if err != nil {
		return fmt.Errorf("encode sample deck: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
