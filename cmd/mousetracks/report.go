package main

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verte-zerg/mousetracks/internal/config"
	"github.com/verte-zerg/mousetracks/internal/history"
	"github.com/verte-zerg/mousetracks/internal/model"
	"github.com/verte-zerg/mousetracks/internal/persist"
	"github.com/verte-zerg/mousetracks/internal/stats"
	"github.com/verte-zerg/mousetracks/internal/statsui"
)

const (
	defaultStatsTop     = 20
	defaultHistoryLimit = 20
	statsSaveLimit      = 100
)

var (
	statsCfg        model.StatsConfig
	statsDataDir    string
	historyProfile  string
	historyLimit    int
	historySummary  bool
	historyPrune    int
	historyDataDir  string
	profilesDataDir string
)

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show profile stats",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	cmd.Flags().StringVar(&statsCfg.Profile, "profile", persist.DefaultProfile, "profile to show")
	cmd.Flags().IntVar(&statsCfg.Top, "top", defaultStatsTop, "rows in key and mistake tables (0 for all)")
	cmd.Flags().BoolVar(&statsCfg.Plain, "plain", false, "print a text report instead of the interactive viewer")
	addDataDirFlag(cmd, &statsDataDir)
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	dataDir, compression, err := storageSettings(cmd, statsDataDir)
	if err != nil {
		return err
	}
	if statsCfg.Top < 0 {
		return fmt.Errorf("--top must be >= 0")
	}
	persister := persist.New(config.ProfilesDir(dataDir), compression, nil)

	loadReport := func() (stats.Report, error) {
		store, source := persister.Load(statsCfg.Profile)
		if source == persist.SourceNew {
			return stats.Report{}, fmt.Errorf("profile %q has no saved data in %s", statsCfg.Profile, persister.Dir())
		}
		return stats.BuildReport(statsCfg.Profile, store, statsCfg.Top), nil
	}

	if statsCfg.Plain || !term.IsTerminal(int(os.Stdout.Fd())) {
		report, err := loadReport()
		if err != nil {
			return err
		}
		return stats.RenderReport(cmd.OutOrStdout(), report)
	}

	journal, err := history.Open(config.HistoryPath(dataDir))
	if err != nil {
		return fmt.Errorf("failed to open save journal: %w", err)
	}
	defer func() {
		if cerr := journal.Close(); cerr != nil {
			logErrf("failed to close save journal: %v\n", cerr)
		}
	}()

	if _, err := loadReport(); err != nil {
		return err
	}
	profileKey := persist.SanitizeName(statsCfg.Profile)
	ui := statsui.NewModel(func() (stats.Report, []model.SaveRecord, error) {
		report, err := loadReport()
		if err != nil {
			return stats.Report{}, nil, err
		}
		saves, err := journal.ListSaves(context.Background(), profileKey, statsSaveLimit)
		if err != nil {
			return stats.Report{}, nil, err
		}
		return report, saves, nil
	})
	program := tea.NewProgram(ui, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run stats TUI: %w", err)
	}
	return nil
}

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show the save journal",
		Args:  cobra.NoArgs,
		RunE:  runHistoryCmd,
	}
	cmd.Flags().StringVar(&historyProfile, "profile", "", "profile filter")
	cmd.Flags().IntVar(&historyLimit, "limit", defaultHistoryLimit, "number of attempts to show (0 for all)")
	cmd.Flags().BoolVar(&historySummary, "summary", false, "show per-profile totals")
	cmd.Flags().IntVar(&historyPrune, "prune-days", 0, "delete attempts older than N days")
	addDataDirFlag(cmd, &historyDataDir)
	return cmd
}

func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	dataDir, _, err := storageSettings(cmd, historyDataDir)
	if err != nil {
		return err
	}
	if historyPrune < 0 {
		return fmt.Errorf("--prune-days must be >= 0")
	}
	journal, err := history.Open(config.HistoryPath(dataDir))
	if err != nil {
		return fmt.Errorf("failed to open save journal: %w", err)
	}
	defer func() {
		if cerr := journal.Close(); cerr != nil {
			logErrf("failed to close save journal: %v\n", cerr)
		}
	}()

	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	if historyPrune > 0 {
		removed, err := journal.Prune(ctx, time.Now().AddDate(0, 0, -historyPrune))
		if err != nil {
			return err
		}
		logErrf("Pruned %d save records\n", removed)
	}

	if historySummary {
		sums, err := journal.Summaries(ctx)
		if err != nil {
			return err
		}
		if len(sums) == 0 {
			_, err := fmt.Fprintln(out, "No saves recorded.")
			return err
		}
		rows := make([][]string, 0, len(sums))
		for _, s := range sums {
			last := "never"
			if !s.LastSaved.IsZero() {
				last = s.LastSaved.Local().Format(time.DateTime)
			}
			rows = append(rows, []string{s.Profile, fmt.Sprintf("%d", s.Saves), fmt.Sprintf("%d", s.Failures), last, fmt.Sprintf("%d", s.LastTicks)})
		}
		return stats.WriteTable(out, "Profiles", []string{"Profile", "Saves", "Failures", "Last saved", "Ticks"}, rows, map[int]bool{1: true, 2: true, 4: true})
	}

	profile := historyProfile
	if profile != "" {
		profile = persist.SanitizeName(profile)
	}
	records, err := journal.ListSaves(ctx, profile, historyLimit)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		_, err := fmt.Fprintln(out, "No saves recorded.")
		return err
	}
	return stats.WriteTable(out, "Save Attempts", []string{"Saved at", "Profile", "Reason", "Try", "Bytes", "Ticks", "Status"},
		saveRows(records), map[int]bool{3: true, 4: true, 5: true})
}

func saveRows(records []model.SaveRecord) [][]string {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		status := "ok"
		if !r.Succeeded() {
			status = r.Err
		}
		rows = append(rows, []string{
			r.SavedAt.Local().Format(time.DateTime),
			r.Profile,
			r.Reason,
			fmt.Sprintf("%d", r.Attempt),
			fmt.Sprintf("%d", r.Bytes),
			fmt.Sprintf("%d", r.TotalTicks),
			status,
		})
	}
	return rows
}

func newProfilesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profiles",
		Short: "List saved profiles",
		Args:  cobra.NoArgs,
		RunE:  runProfilesCmd,
	}
	addDataDirFlag(cmd, &profilesDataDir)
	return cmd
}

func runProfilesCmd(cmd *cobra.Command, _ []string) error {
	dataDir, compression, err := storageSettings(cmd, profilesDataDir)
	if err != nil {
		return err
	}
	persister := persist.New(config.ProfilesDir(dataDir), compression, nil)
	names, err := persister.Profiles()
	if err != nil {
		return err
	}
	if len(names) == 0 {
		logErrf("No profiles found in %s\n", persister.Dir())
		return nil
	}
	rows := make([][]string, 0, len(names))
	for _, name := range names {
		info, err := os.Stat(persister.Path(name))
		if err != nil {
			return fmt.Errorf("failed to stat profile %s: %w", name, err)
		}
		rows = append(rows, []string{name, fmt.Sprintf("%d", info.Size()), info.ModTime().Format(time.DateTime)})
	}
	return stats.WriteTable(cmd.OutOrStdout(), "Profiles", []string{"Profile", "Bytes", "Modified"}, rows, map[int]bool{1: true})
}

// storageSettings resolves the data dir and compression for read-only
// commands.
func storageSettings(cmd *cobra.Command, dataDir string) (string, persist.Compression, error) {
	t := config.DefaultTracking()
	t.DataDir = dataDir
	if err := loadTracking(cmd, &t); err != nil {
		return "", 0, err
	}
	cfg, err := t.Build()
	if err != nil {
		return "", 0, err
	}
	compression, err := persist.ParseCompression(cfg.Compression)
	if err != nil {
		return "", 0, err
	}
	return cfg.DataDir, compression, nil
}
