package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/spec-kit/break-planner/internal/domain"
	"github.com/spec-kit/break-planner/internal/observability"
	"github.com/spec-kit/break-planner/internal/presets"
	"github.com/spec-kit/break-planner/internal/service"
)

// cliOptions are the flags shared by every command.
type cliOptions struct {
	presetFile string
	timezone   string
	output     string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	opts := &cliOptions{}
	root := &cobra.Command{
		Use:           "breakplan",
		Short:         "Plan and check staff break schedules",
		Long:          "breakplan places paid and meal breaks for a daily team while keeping minimum staffing on the floor, and checks existing schedules for coverage gaps.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.presetFile, "preset", "", "Rule preset YAML (defaults to the built-in preset)")
	root.PersistentFlags().StringVar(&opts.timezone, "tz", "UTC", "Time zone the plan's wall-clock times are in")
	root.PersistentFlags().StringVarP(&opts.output, "output", "o", "yaml", "Output format: yaml or json")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Verbose logging to stderr")

	root.AddCommand(
		newGenerateCmd(opts),
		newValidateCmd(opts),
		newCalculateCmd(opts),
		newHeadcountCmd(opts),
		newTokenCmd(),
	)
	return root
}

// session is the state a planning command works with.
type session struct {
	planner  *service.PlannerService
	defaults domain.PlannerSettings
	location *time.Location
	logger   *zap.Logger
}

func (o *cliOptions) open() (*session, error) {
	if o.output != "yaml" && o.output != "json" {
		return nil, fmt.Errorf("unknown output format %q", o.output)
	}
	loc, err := time.LoadLocation(o.timezone)
	if err != nil {
		return nil, fmt.Errorf("time zone: %w", err)
	}
	logger, err := observability.NewCLILogger(o.verbose)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	defaults, err := presets.LoadSettings(o.presetFile)
	if err != nil {
		return nil, err
	}
	planner := service.NewPlannerService(&service.PlannerDependencies{
		Logger:   logger,
		Defaults: defaults,
		Location: loc,
	})
	return &session{planner: planner, defaults: defaults, location: loc, logger: logger}, nil
}

// loadPlan reads a plan file and returns it with its calendar date.
func (s *session) loadPlan(path string) (*presets.PlanFile, string, error) {
	if path == "" {
		return nil, "", fmt.Errorf("a plan file is required (-f)")
	}
	plan, err := presets.LoadPlan(path, s.defaults)
	if err != nil {
		return nil, "", err
	}
	day, err := plan.Day(s.location)
	if err != nil {
		return nil, "", err
	}
	s.logger.Debug("plan loaded", zap.String("file", path), zap.Int("employees", len(plan.Employees)))
	return plan, day.Format(domain.DateLayout), nil
}

func planOverrides(plan *presets.PlanFile) service.RuleOverrides {
	return service.RuleOverrides{
		BreakRules:    plan.BreakRules,
		CoverageRules: plan.CoverageRules,
		StoreHours:    plan.StoreHours,
		RolePriority:  plan.RolePriority,
	}
}

func writeOutput(w io.Writer, format string, v any) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
