package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pyright-node/internal/config"
)

func (c *CLI) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect configuration",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as TOML",
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := c.settings().Encode()
			if err != nil {
				return err
			}
			if c.configFile != "" {
				fmt.Fprintf(c.stdout, "# loaded from %s\n", c.configFile)
			} else if p, err := config.Path(); err == nil {
				fmt.Fprintf(c.stdout, "# no config file at %s\n", p)
			}
			fmt.Fprint(c.stdout, out)
			return nil
		},
	})
	return cmd
}
