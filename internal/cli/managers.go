package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/pyright-node/pkg/errors"
	"github.com/matzehuels/pyright-node/pkg/pkgmgr"
)

func (c *CLI) managersCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "managers",
		Short: "List the package managers next to the node runtime",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())
			rt, err := c.provisioner(logger).Provision(cmd.Context())
			if err != nil {
				return err
			}

			reg := pkgmgr.Probe(rt.BinDir(), c.finder)
			selected, selErr := reg.Select(c.settings().PackageManager)

			printKeyValue(c.stdout, "node", rt.BinaryPath)
			if reg.Len() == 0 {
				printWarning(c.stdout, "No package managers found in %s", rt.BinDir())
			}
			for _, m := range reg.Managers() {
				icon := StyleDim.Render(iconOther)
				if selErr == nil && m == selected {
					icon = StyleHighlight.Render(iconSelected)
				}
				printKeyValue(c.stdout, icon+" "+string(m.Kind), m.Path)
			}
			if selErr != nil {
				printWarning(c.stdout, "%s", errors.UserMessage(selErr))
				return selErr
			}
			return nil
		},
	}
}
