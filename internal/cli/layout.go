package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"smartcampus/internal/occupancy"
	"smartcampus/internal/service"
)

func layoutCmd() *cobra.Command {
	var fetch bool

	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Print the resolved pad layout as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			layoutSvc := service.NewLayoutService(cfg.Anchor, cfg.Pads)
			occSvc := service.NewOccupancyService(occupancy.NewClient(cfg.FetchTimeout), cfg.Sources)
			if fetch {
				ctx, cancel := context.WithTimeout(cmd.Context(), cfg.FetchTimeout)
				defer cancel()
				for _, res := range occSvc.RefreshAll(ctx) {
					if !res.OK {
						fmt.Fprintf(os.Stderr, "refresh %s: %s\n", res.Group, res.Error)
					}
				}
			}
			for id, msg := range layoutSvc.SkippedPads() {
				fmt.Fprintf(os.Stderr, "skipped %s: %s\n", id, msg)
			}
			return writeJSON(layoutSvc.Pads(occSvc.Zones()))
		},
	}
	cmd.Flags().BoolVar(&fetch, "fetch", false, "Fetch occupancy before printing")
	return cmd
}

// writeJSON indents only when stdout is a terminal.
func writeJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	if term.IsTerminal(int(os.Stdout.Fd())) {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}
