package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Cyborg-Robotics-Academy-Pvt-Ltd/cyborg-robotics-new-sub000/internal/models"
	"github.com/Cyborg-Robotics-Academy-Pvt-Ltd/cyborg-robotics-new-sub000/internal/repository"
	"github.com/Cyborg-Robotics-Academy-Pvt-Ltd/cyborg-robotics-new-sub000/pkg/database"
)

func init() {
	cmd := &cobra.Command{
		Use:   "ledger",
		Short: "List recorded student writes from the completion ledger",
		RunE:  runLedger,
	}
	cmd.Flags().StringP("prn", "p", "", "Only events for this PRN")
	cmd.Flags().String("state", "", "Only events in this state: PENDING, COMMITTED or FAILED")
	cmd.Flags().IntP("limit", "l", 50, "Maximum number of events")
	RootCmd.AddCommand(cmd)
}

func runLedger(cmd *cobra.Command, _ []string) error {
	prn, _ := cmd.Flags().GetString("prn")
	state, _ := cmd.Flags().GetString("state")
	limit, _ := cmd.Flags().GetInt("limit")

	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}
	db, err := database.NewPostgres(cmd.Context(), cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	events, err := repository.NewCompletionEventRepository(db).List(cmd.Context(), models.CompletionEventFilter{
		PrnNumber: prn,
		State:     models.MutationState(strings.ToUpper(state)),
		Limit:     limit,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if formatFlag != "text" {
		return printJSON(out, events)
	}
	for _, e := range events {
		fmt.Fprintf(out, "%s\t%s\t%s\t%s\t%s\t%s\n", e.CreatedAt.Format("2006-01-02 15:04:05"), e.PrnNumber, e.Kind, e.State, e.CourseName, e.Level)
	}
	return nil
}
