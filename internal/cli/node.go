package cli

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/matzehuels/pyright-node/pkg/nodejs"
)

func (c *CLI) nodeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "node",
		Short: "Inspect and provision the Node.js runtime",
	}
	cmd.AddCommand(c.nodeVersionsCommand())
	cmd.AddCommand(c.nodePathCommand())
	return cmd
}

func (c *CLI) nodeVersionsCommand() *cobra.Command {
	var (
		ltsOnly bool
		limit   int
	)
	cmd := &cobra.Command{
		Use:   "versions",
		Short: "List Node.js releases from the release index",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())
			versions, err := c.catalog(logger).FetchIndex(cmd.Context())
			if err != nil {
				return err
			}

			target := nodejs.DetectHost().Target()
			rows := versionRows(versions, target, ltsOnly, limit, time.Now())
			if len(rows) == 0 {
				printInfo(c.stdout, "No matching releases")
				return nil
			}

			t := table.New().
				Border(lipgloss.HiddenBorder()).
				Headers("VERSION", "RELEASED", "LTS", "SECURITY", "NPM", target.Tag()).
				StyleFunc(func(row, col int) lipgloss.Style {
					if row == table.HeaderRow {
						return StyleTitle
					}
					if col == 0 {
						return StyleHighlight
					}
					return StyleValue
				}).
				Rows(rows...)
			fmt.Fprintln(c.stdout, t.Render())
			return nil
		},
	}
	cmd.Flags().BoolVar(&ltsOnly, "lts", false, "only list long-term-support releases")
	cmd.Flags().IntVar(&limit, "limit", 10, "maximum number of releases to list (0 for all)")
	return cmd
}

// versionRows formats catalog entries, newest first.
func versionRows(versions []nodejs.Version, target nodejs.Target, ltsOnly bool, limit int, now time.Time) [][]string {
	var rows [][]string
	for _, v := range versions {
		if ltsOnly && !v.LTS {
			continue
		}
		if limit > 0 && len(rows) == limit {
			break
		}
		rows = append(rows, []string{
			v.Version,
			releaseAge(v.Date, now),
			v.LTSCodename,
			yesNo(v.Security),
			v.NPM,
			yesNo(v.HasFile(target.Tag())),
		})
	}
	return rows
}

func releaseAge(date string, now time.Time) string {
	t, err := time.Parse(time.DateOnly, date)
	if err != nil {
		return date
	}
	return humanize.RelTime(t, now, "ago", "from now")
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return ""
}

func (c *CLI) nodePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Provision node if needed and print the binary path",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())
			rt, err := c.provisioner(logger).Provision(cmd.Context())
			if err != nil {
				return err
			}
			logger.Info("node bound", "source", rt.Source, "version", rt.Version)
			fmt.Fprintln(c.stdout, rt.BinaryPath)
			return nil
		},
	}
}
