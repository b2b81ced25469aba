package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"

	"uidlens/adapters/excel"
	"uidlens/adapters/memory"
	"uidlens/app"
	"uidlens/domain/social"
	"uidlens/internal/chunk"
	"uidlens/internal/classify"
	"uidlens/internal/testkit"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "uidlens-cli",
		Short: "uidlens CLI for classifying, aggregating and analyzing social-platform exports",
	}

	rootCmd.AddCommand(
		newClassifyCmd(),
		newAggregateCmd(),
		newAnalyzeCmd(),
		newConnectionsCmd(),
		newStatsCmd(),
		newDemoCmd(),
	)

	return rootCmd
}

func newClassifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "classify [files...]",
		Short: "Show the inferred kind of each spreadsheet",
		Long: `Parse each spreadsheet and print the kind the classifier infers from
its file name and first row.

Example: uidlens-cli classify friends.xlsx export.csv`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClassify(cmd.Context(), cmd.OutOrStdout(), args)
		},
	}
}

func runClassify(ctx context.Context, out io.Writer, paths []string) error {
	reader := excel.NewDataReader()
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "FILE\tKIND\tLABEL\tROWS")
	for _, path := range paths {
		rows, err := readFile(ctx, reader, path)
		if err != nil {
			fmt.Fprintf(w, "%s\t-\t%v\t-\n", path, err)
			continue
		}
		kind := classify.Classify(filepath.Base(path), rows)
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\n", path, kind, social.KindLabel(kind), len(rows))
	}
	return w.Flush()
}

func newAggregateCmd() *cobra.Command {
	var kind string
	var output string

	cmd := &cobra.Command{
		Use:   "aggregate [files...]",
		Short: "Aggregate spreadsheets into per-UID profiles (JSON)",
		Long: `Ingest the spreadsheets as one workspace and print the aggregated
profiles as JSON.

Example: uidlens-cli aggregate friends.xlsx groups.xlsx --output profiles.json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := loadWorkspace(cmd.Context(), cmd.ErrOrStderr(), args, kind)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("failed to create %s: %w", output, err)
				}
				defer f.Close()
				out = f
			}
			return writeJSON(out, svc.Profiles())
		},
	}

	cmd.Flags().StringVar(&kind, "type", "", "Treat every file as this kind instead of classifying it")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write JSON to this file instead of stdout")

	return cmd
}

func newAnalyzeCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "analyze [uid] [files...]",
		Short: "Compose the analysis report for one UID",
		Long: `Aggregate the spreadsheets and print the analysis report of one UID.

Example: uidlens-cli analyze 100001 friends.xlsx groups.xlsx --format html`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := loadWorkspace(cmd.Context(), cmd.ErrOrStderr(), args[1:], "")
			if err != nil {
				return err
			}
			analysis := app.NewAnalysisService(svc, chunk.DefaultSize)

			var report string
			switch format {
			case "markdown":
				report, err = analysis.Report(args[0])
			case "html":
				report, err = analysis.ReportHTML(args[0])
			default:
				return fmt.Errorf("unknown format %q (use markdown or html)", format)
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), report)
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "markdown", "Report format: markdown or html")

	return cmd
}

func newConnectionsCmd() *cobra.Command {
	var uids []string

	cmd := &cobra.Command{
		Use:   "connections [files...]",
		Short: "Find pairwise connections and clusters",
		Long: `Aggregate the spreadsheets and look for friendships and shared groups
between profiles. Without --uid every profile is compared.

Example: uidlens-cli connections friends.xlsx groups.xlsx --uid 100001 --uid 100002`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := loadWorkspace(cmd.Context(), cmd.ErrOrStderr(), args, "")
			if err != nil {
				return err
			}
			report, err := app.NewAnalysisService(svc, chunk.DefaultSize).Network(cmd.Context(), uids)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), report)
		},
	}

	cmd.Flags().StringSliceVar(&uids, "uid", nil, "Restrict the analysis to these UIDs (repeatable)")

	return cmd
}

func newStatsCmd() *cobra.Command {
	var top int

	cmd := &cobra.Command{
		Use:   "stats [files...]",
		Short: "Print totals, top users and the engagement distribution",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := loadWorkspace(cmd.Context(), cmd.ErrOrStderr(), args, "")
			if err != nil {
				return err
			}
			stats, err := app.NewAnalysisService(svc, chunk.DefaultSize).Stats(top)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), stats)
		},
	}

	cmd.Flags().IntVar(&top, "top", 5, "Number of users in the leaderboard")

	return cmd
}

func newDemoCmd() *cobra.Command {
	var dir string
	var users int
	var seed int64

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Write a deterministic set of demo exports as CSV files",
		Long: `Generate friends, groups, posts, comments, liked pages and check-ins
over one shared pool of users and write them to a directory.

Example: uidlens-cli demo --dir ./demo --users 200 --seed 7`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			config := testkit.DefaultSocialConfig()
			config.UserCount = users
			config.Seed = seed

			files := testkit.NewSocialDataGenerator(config).GenerateFiles()
			paths, err := testkit.WriteCSV(dir, files)
			if err != nil {
				return err
			}
			for i, path := range paths {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d rows\n", path, files[i].RowCount)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "demo", "Output directory")
	cmd.Flags().IntVar(&users, "users", 50, "Number of users in the pool")
	cmd.Flags().Int64Var(&seed, "seed", 42, "Random seed for deterministic output")

	return cmd
}

// loadWorkspace ingests the files into an in-memory workspace. Rejected
// files are reported on errOut; it fails only when nothing was accepted.
func loadWorkspace(ctx context.Context, errOut io.Writer, paths []string, kind string) (*app.WorkspaceService, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	meta := app.UploadMeta{UploaderID: "cli"}
	if kind != "" {
		k, err := social.ParseKind(kind)
		if err != nil {
			return nil, err
		}
		meta.Type = k
	}

	uploads := make([]app.Upload, 0, len(paths))
	for _, path := range paths {
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		uploads = append(uploads, app.Upload{Name: filepath.Base(path), Content: content})
	}

	svc := app.NewWorkspaceService(excel.NewDataReader(), memory.NewSnapshotStore(), app.WorkspaceOptions{
		WorkspaceID:  "cli",
		ChunkSize:    chunk.DefaultSize,
		ParseWorkers: 4,
	})
	result, err := svc.Upload(ctx, uploads, meta)
	if err != nil {
		return nil, err
	}
	for _, r := range result.Rejected {
		fmt.Fprintf(errOut, "skipped %s: %s\n", r.Name, r.Error)
	}
	if len(result.Files) == 0 {
		return nil, fmt.Errorf("no readable spreadsheets among %d files", len(paths))
	}
	return svc, nil
}

func readFile(ctx context.Context, reader *excel.DataReader, path string) ([]social.Row, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return reader.Read(ctx, filepath.Base(path), f)
}

func writeJSON(out io.Writer, v any) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
