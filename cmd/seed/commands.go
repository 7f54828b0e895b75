package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"clinicsite/config"
	"clinicsite/models"
	"clinicsite/services/timetable"
	"clinicsite/utils"
)

const (
	commandTimeout  = 30 * time.Second
	shutdownTimeout = 5 * time.Second
)

// serviceOpener connects to the store and the cache the API server uses and
// returns a close func. Going through the service keeps the server's cache
// coherent with what the CLI writes.
type serviceOpener func(ctx context.Context) (timetable.TimetableService, func(), error)

// weekFile is the on-disk YAML shape accepted by "load".
type weekFile struct {
	Schedule []models.DaySchedule `yaml:"schedule"`
}

func newRootCmd(open serviceOpener) *cobra.Command {
	root := &cobra.Command{
		Use:          "seed",
		Short:        "Time table maintenance commands",
		SilenceUsage: true,
	}
	root.AddCommand(
		newLoadCmd(open),
		newShowCmd(open),
		newTokenCmd(),
	)
	return root
}

func newLoadCmd(open serviceOpener) *cobra.Command {
	var (
		file      string
		ifVersion int64
		actor     string
	)
	cmd := &cobra.Command{
		Use:   "load",
		Short: "Replace the stored time table with a YAML week",
		Example: `  seed load --file week.yaml
  seed load --file week.yaml --if-version 3`,
		RunE: func(cmd *cobra.Command, args []string) error {
			days, err := readWeekFile(file)
			if err != nil {
				return err
			}
			schedule, warnings, err := timetable.FilterDays(days)
			for _, w := range warnings {
				fmt.Fprintf(cmd.ErrOrStderr(), "dropped day[%d] timing[%d] (%s): %s\n", w.DayIndex, w.TimingIndex, w.Day, w.Reason)
			}
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
			defer cancel()
			svc, closeFn, err := open(ctx)
			if err != nil {
				return err
			}
			defer closeFn()

			in := timetable.ReplaceInput{Schedule: schedule, Actor: actor}
			if cmd.Flags().Changed("if-version") {
				in.ExpectedVersion = &ifVersion
			}
			res, err := svc.ReplaceTimetable(ctx, in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "stored %d day(s) as version %d\n", len(res.Document.Schedule), res.Document.Version)
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "YAML file with a top-level schedule list (required)")
	cmd.Flags().Int64Var(&ifVersion, "if-version", 0, "only write if the stored version matches (0 = never written)")
	cmd.Flags().StringVar(&actor, "actor", "seed", "recorded as updatedBy")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newShowCmd(open serviceOpener) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the stored time table as YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
			defer cancel()
			svc, closeFn, err := open(ctx)
			if err != nil {
				return err
			}
			defer closeFn()

			doc, err := svc.GetTimetable(ctx)
			if errors.Is(err, models.ErrTimetableNotFound) {
				fmt.Fprintln(cmd.OutOrStdout(), "# no time table stored yet")
				return nil
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "# version %d, updated %s\n", doc.Version, doc.UpdatedAt.Format(time.RFC3339))
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			defer enc.Close()
			return enc.Encode(weekFile{Schedule: doc.Schedule})
		},
	}
}

func newTokenCmd() *cobra.Command {
	var (
		subject string
		ttl     time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint an admin token signed with JWT_SECRET (development only)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if config.IsProduction() {
				return errors.New("refusing to mint admin tokens in production")
			}
			if config.AppConfig.JWTSecret == "" {
				return errors.New("JWT_SECRET is not set")
			}
			tok, err := utils.GenerateAdminToken(config.AppConfig.JWTSecret, subject, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		},
	}
	cmd.Flags().StringVar(&subject, "subject", "dev-admin", "token subject")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")
	return cmd
}

func readWeekFile(path string) ([]models.DaySchedule, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return decodeWeek(f)
}

func decodeWeek(r io.Reader) ([]models.DaySchedule, error) {
	var wf weekFile
	if err := yaml.NewDecoder(r).Decode(&wf); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, models.ErrNoValidEntries
		}
		return nil, fmt.Errorf("%w: %v", models.ErrInvalidFormat, err)
	}
	return wf.Schedule, nil
}
