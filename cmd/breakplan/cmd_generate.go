package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/spec-kit/break-planner/internal/api/dto"
	"github.com/spec-kit/break-planner/internal/domain"
	"github.com/spec-kit/break-planner/internal/presets"
	"github.com/spec-kit/break-planner/internal/service"
)

// generatedPlan is the YAML output of generate: the input plan with its
// schedule filled in, followed by the coverage check.
type generatedPlan struct {
	presets.PlanFile `yaml:",inline"`
	Violations       []violationLine `yaml:"violations,omitempty"`
}

type violationLine struct {
	Time    string `json:"time" yaml:"time"`
	Role    string `json:"role" yaml:"role"`
	Message string `json:"message" yaml:"message"`
}

func newGenerateCmd(opts *cliOptions) *cobra.Command {
	var (
		planFile  string
		failOnGap bool
	)
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Place breaks for every employee in a plan file",
		Long: `Place paid and meal breaks for the team in a plan file.

The YAML output is the plan with its schedule section filled in, so it can be
edited and passed back to "breakplan validate".

Examples:
  breakplan generate -f monday.yaml > monday-planned.yaml
  breakplan generate -f monday.yaml -o json --fail-on-violations
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.open()
			if err != nil {
				return err
			}
			plan, date, err := s.loadPlan(planFile)
			if err != nil {
				return err
			}

			result, err := s.planner.Generate(commandContext(cmd), service.GenerateInput{
				Date:      date,
				Employees: plan.Employees,
				Rules:     planOverrides(plan),
			})
			if err != nil {
				return err
			}

			if opts.output == "json" {
				err = writeOutput(cmd.OutOrStdout(), opts.output, dto.FromResult(result))
			} else {
				out := generatedPlan{PlanFile: *plan, Violations: violationLines(result.Violations)}
				out.Date = date
				out.Schedule = presets.FromSchedule(result.Schedule)
				err = writeOutput(cmd.OutOrStdout(), opts.output, out)
			}
			if err != nil {
				return err
			}
			if failOnGap && len(result.Violations) > 0 {
				return fmt.Errorf("%d coverage violations", len(result.Violations))
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&planFile, "file", "f", "", "Plan file (YAML)")
	cmd.Flags().BoolVar(&failOnGap, "fail-on-violations", false, "Exit non-zero when the schedule leaves coverage gaps")
	return cmd
}

func violationLines(violations []domain.Violation) []violationLine {
	out := make([]violationLine, 0, len(violations))
	for _, v := range violations {
		out = append(out, violationLine{Time: v.Time, Role: v.Role, Message: v.Message})
	}
	return out
}
