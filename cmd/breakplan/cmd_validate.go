package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/spec-kit/break-planner/internal/service"
)

type validateReport struct {
	Date       string          `json:"date" yaml:"date"`
	Valid      bool            `json:"valid" yaml:"valid"`
	Violations []violationLine `json:"violations" yaml:"violations"`
}

func newValidateCmd(opts *cliOptions) *cobra.Command {
	var planFile string
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check the schedule in a plan file against its coverage rules",
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

			violations, err := s.planner.Validate(commandContext(cmd), service.ValidateInput{
				Date:      date,
				Employees: plan.Employees,
				Schedule:  schedule,
				Rules:     planOverrides(plan),
			})
			if err != nil {
				return err
			}
			report := validateReport{Date: date, Valid: len(violations) == 0, Violations: violationLines(violations)}
			if err := writeOutput(cmd.OutOrStdout(), opts.output, report); err != nil {
				return err
			}
			if !report.Valid {
				return fmt.Errorf("%d coverage violations", len(violations))
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&planFile, "file", "f", "", "Plan file (YAML) with a schedule section")
	return cmd
}
