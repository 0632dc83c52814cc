package main

import (
	"github.com/spf13/cobra"

	"github.com/spec-kit/break-planner/internal/domain"
	"github.com/spec-kit/break-planner/internal/presets"
	"github.com/spec-kit/break-planner/internal/service"
)

func newCalculateCmd(opts *cliOptions) *cobra.Command {
	var start, end, date string
	cmd := &cobra.Command{
		Use:   "calculate",
		Short: "Show evenly spaced breaks for one shift",
		Example: `  breakplan calculate --start 09:00 --end 17:00
  breakplan calculate --start 22:00 --end 06:00 --preset overnight.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.open()
			if err != nil {
				return err
			}
			breaks, err := s.planner.CalculateBreaks(commandContext(cmd), service.CalculateInput{
				Date:      date,
				StartTime: start,
				EndTime:   end,
			})
			if err != nil {
				return err
			}
			if opts.output == "json" {
				return writeOutput(cmd.OutOrStdout(), opts.output, breaks)
			}
			lines := presets.FromSchedule([]domain.EmployeeSchedule{{Breaks: breaks}})[0].Breaks
			return writeOutput(cmd.OutOrStdout(), opts.output, lines)
		},
	}
	cmd.Flags().StringVar(&start, "start", "", "Shift start, HH:MM")
	cmd.Flags().StringVar(&end, "end", "", "Shift end, HH:MM")
	cmd.Flags().StringVar(&date, "date", "", "Calendar date, YYYY-MM-DD (defaults to today)")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")
	return cmd
}
