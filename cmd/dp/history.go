package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/Dicklesworthstone/distance_picker/pkg/config"
	"github.com/Dicklesworthstone/distance_picker/pkg/history"
	"github.com/Dicklesworthstone/distance_picker/pkg/ui"
)

var (
	historyLimit int
	historyStats bool
	historyClear bool
	historyPlain bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Browse recently picked distances",
	Long: `Show the most recent selections. In a terminal they open in a
filterable list, choosing one prints it. Otherwise, or with --plain, they
are printed as a table.`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

func init() {
	f := historyCmd.Flags()
	f.IntVarP(&historyLimit, "limit", "n", 50, "number of selections")
	f.BoolVar(&historyStats, "stats", false, "print only the summary")
	f.BoolVar(&historyClear, "clear", false, "delete every recorded selection")
	f.BoolVar(&historyPlain, "plain", false, "print a table even in a terminal")
	historyCmd.MarkFlagsMutuallyExclusive("stats", "clear")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, _, err := config.Load(configPath)
	if err != nil {
		return err
	}
	db, err := history.OpenDB(cfg.History.Driver, cfg.History.Path)
	if err != nil {
		return err
	}
	defer db.Close()

	if historyClear {
		if err := db.Clear(); err != nil {
			return err
		}
		fmt.Println("History cleared")
		return nil
	}

	selections, err := db.Recent(historyLimit)
	if err != nil {
		return err
	}
	theme := ui.DefaultTheme(lipgloss.DefaultRenderer())
	summary := history.Summarize(selections)

	if historyStats {
		fmt.Println(ui.RenderSummary(summary, theme))
		if label, n := history.MostPicked(selections); n > 0 {
			fmt.Printf("Most picked: %s (%d×)\n", label, n)
		}
		return nil
	}

	interactive := term.IsTerminal(int(os.Stdout.Fd())) && term.IsTerminal(int(os.Stdin.Fd()))
	if historyPlain || !interactive || len(selections) == 0 {
		return printHistory(selections, summary, theme)
	}

	final, err := tea.NewProgram(ui.NewHistoryModel(selections, theme), tea.WithAltScreen()).Run()
	if err != nil {
		return fmt.Errorf("run history browser: %w", err)
	}
	if m, ok := final.(ui.HistoryModel); ok {
		if s := m.Chosen(); s != nil {
			fmt.Println(s.Label)
		}
	}
	return nil
}

func printHistory(selections []history.Selection, summary history.Summary, theme ui.Theme) error {
	fmt.Println(historyTable(selections))
	fmt.Println()
	fmt.Println(ui.RenderSummary(summary, theme))
	return nil
}

// historyTable lays selections out in borderless columns.
func historyTable(selections []history.Selection) string {
	rows := make([][]string, 0, len(selections))
	for _, s := range selections {
		m := "∞"
		if !s.Unbounded {
			m = humanize.FtoaWithDigits(s.Meters, 0)
		}
		rows = append(rows, []string{humanize.Time(s.CreatedAt), s.Label, m, s.Source})
	}

	cell := lipgloss.NewStyle().PaddingRight(2)
	t := table.New().
		Border(lipgloss.HiddenBorder()).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderColumn(false).
		BorderHeader(false).
		StyleFunc(func(row, col int) lipgloss.Style { return cell }).
		Headers("WHEN", "DISTANCE", "METERS", "SOURCE").
		Rows(rows...)
	return t.String()
}
