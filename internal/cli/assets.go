package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/opsboard-labs/opsboard/internal/assets"
	"github.com/opsboard-labs/opsboard/internal/ui"
)

// newAssetsCommand creates the assets command, which lists the bundle
// the binary would serve. Useful for checking a build embedded the
// console before deploying it.
func newAssetsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "assets",
		Short: "List the bundled console assets",
		RunE: func(cmd *cobra.Command, _ []string) error {
			bundle, err := ui.Bundle(cfg.UIDir)
			if err != nil {
				return fmt.Errorf("open UI bundle: %w", err)
			}
			registry, err := assets.NewRegistry(bundle, cfg.UIPrefix)
			if err != nil {
				return fmt.Errorf("build asset registry: %w", err)
			}

			out := cmd.OutOrStdout()
			for _, key := range registry.Keys() {
				a, _ := registry.Lookup(key)
				fmt.Fprintf(out, "%8d  %s\n", a.Size, key)
			}

			resolver := assets.NewResolver(registry, cfg.UIPrefix, cfg.APIPrefix)
			if !resolver.Healthy() {
				return fmt.Errorf("root document %s missing: bundle is unusable", resolver.RootKey())
			}
			fmt.Fprintf(out, "%d assets, root document present\n", registry.Len())
			return nil
		},
	}
}
