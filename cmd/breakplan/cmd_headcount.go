package main

import (
	"github.com/spf13/cobra"

	"github.com/spec-kit/break-planner/internal/service"
)

type headcountLine struct {
	Time   string         `json:"time" yaml:"time"`
	Total  int            `json:"total" yaml:"total"`
	ByRole map[string]int `json:"by_role" yaml:"by_role"`
}

func newHeadcountCmd(opts *cliOptions) *cobra.Command {
	var planFile string
	cmd := &cobra.Command{
		Use:   "headcount",
		Short: "Print staff on the floor for every 15-minute slot of a plan",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.open()
			if err != nil {
				return err
			}
			plan, date, err := s.loadPlan(planFile)
			if err != nil {
				return err
			}
			day, err := plan.Day(s.location)
			if err != nil {
				return err
			}
			schedule, err := plan.ToSchedule(day)
			if err != nil {
				return err
			}

			curve, err := s.planner.Headcount(commandContext(cmd), service.HeadcountInput{
				Date:      date,
				Employees: plan.Employees,
				Schedule:  schedule,
			})
			if err != nil {
				return err
			}
			lines := make([]headcountLine, 0, len(curve))
			for _, slot := range curve {
				lines = append(lines, headcountLine{Time: slot.Time, Total: slot.Total, ByRole: slot.ByRole})
			}
			return writeOutput(cmd.OutOrStdout(), opts.output, lines)
		},
	}
	cmd.Flags().StringVarP(&planFile, "file", "f", "", "Plan file (YAML); its schedule section is optional")
	return cmd
}
