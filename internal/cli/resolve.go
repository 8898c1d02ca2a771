package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/f4ah6o/pageserve-go/internal/resolver"
)

// NewResolveCmd creates the resolve command, which shows how request
// paths map to files without starting a server.
func NewResolveCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "resolve PATH...",
		Short:   "Show which file each request path resolves to",
		Example: "  pageserve resolve / /about /docs/guide /styles.css",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cc *cobra.Command, args []string) error {
			cfg, err := loadConfig(cc)
			if err != nil {
				return err
			}

			root, err := cfg.AbsRoot()
			if err != nil {
				return err
			}

			r := resolver.New(root)
			tw := tabwriter.NewWriter(cc.OutOrStdout(), 0, 4, 2, ' ', 0)

			for _, p := range args {
				res := r.Resolve(p)
				file := res.Path
				if file == "" {
					file = "-"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\n", p, res.Kind, file)
			}

			return tw.Flush()
		},
	}
}
