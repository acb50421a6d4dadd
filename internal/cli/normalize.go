package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Cyborg-Robotics-Academy-Pvt-Ltd/cyborg-robotics-new-sub000/internal/app"
)

func init() {
	cmd := &cobra.Command{
		Use:   "normalize <slug>...",
		Short: "Resolve course slugs to name, level and display label",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runNormalize,
	}
	RootCmd.AddCommand(cmd)
}

func runNormalize(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}
	reconciler, err := app.NewReconciler(cfg.Progress)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, slug := range args {
		ref := reconciler.Normalizer().NormalizeSlug(slug)
		if formatFlag == "text" {
			fmt.Fprintf(out, "%s\t%s\t%s\t%s\n", slug, ref.Name, ref.Level, ref.Display)
			continue
		}
		if err := printJSON(out, ref); err != nil {
			return err
		}
	}
	return nil
}
