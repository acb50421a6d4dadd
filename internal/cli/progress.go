package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "progress",
		Short: "Show a student's progress in one course",
		RunE:  runProgress,
	}
	cmd.Flags().StringP("prn", "p", "", "Student PRN (required)")
	cmd.Flags().StringP("slug", "s", "", "Course slug (required)")
	_ = cmd.MarkFlagRequired("prn")
	_ = cmd.MarkFlagRequired("slug")
	RootCmd.AddCommand(cmd)
}

func runProgress(cmd *cobra.Command, _ []string) error {
	prn, _ := cmd.Flags().GetString("prn")
	slug, _ := cmd.Flags().GetString("slug")

	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close(context.Background())

	payload, err := a.Progress.Progress(cmd.Context(), prn, slug)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if formatFlag != "text" {
		return printJSON(out, payload)
	}
	status := "in progress"
	if payload.Enrollment == nil {
		status = "not enrolled"
	} else if payload.Enrollment.Completed {
		status = "completed"
	}
	fmt.Fprintf(out, "%s (%s)\n", payload.StudentName, payload.PrnNumber)
	fmt.Fprintf(out, "course:    %s\n", payload.Course.Display)
	fmt.Fprintf(out, "status:    %s\n", status)
	fmt.Fprintf(out, "classes:   %d/%s (%d remaining)\n", payload.CompletedCount, payload.AssignedClasses, payload.RemainingClasses)
	if payload.AutoCompletion != nil {
		fmt.Fprintf(out, "auto-complete: %s\n", payload.AutoCompletion.State)
	}
	for _, task := range payload.CompletedTasks {
		fmt.Fprintf(out, "  - %s  %s\n", task.DisplayDate, task.Task.Task)
	}
	return nil
}
