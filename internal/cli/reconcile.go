package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "reconcile <prn>...",
		Short: "Run the completion check for every enrollment of the given students",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runReconcile,
	}
	RootCmd.AddCommand(cmd)
}

func runReconcile(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close(context.Background())

	out := cmd.OutOrStdout()
	failures := 0
	for _, prn := range args {
		report, err := a.Progress.Reconcile(cmd.Context(), prn)
		if err != nil {
			failures++
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", prn, err)
			if report == nil {
				continue
			}
		}
		if formatFlag != "text" {
			if err := printJSON(out, report); err != nil {
				return err
			}
			continue
		}
		for _, course := range report.Courses {
			mark := ""
			switch {
			case course.AutoCompleted:
				mark = "  completed now"
			case course.NoCourseTasks:
				mark = "  no course tasks, skipped"
			}
			fmt.Fprintf(out, "%s\t%s\t%s\t%d/%s%s\n", report.PrnNumber, course.Name, course.Level, course.CompletedCount, course.AssignedClasses, mark)
		}
	}
	if failures > 0 {
		return fmt.Errorf("%d of %d students failed to reconcile", failures, len(args))
	}
	return nil
}
