package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jodu555/cinewatch/pkg/cinema"
)

var seriesCmd = &cobra.Command{
	Use:   "series",
	Short: "Browse the series catalog",
}

var seriesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all catalog entries",
	Args:  cobra.NoArgs,
	RunE:  runSeriesListCmd,
}

var seriesSearchCmd = &cobra.Command{
	Use:   "search <query>...",
	Short: "Search the catalog by title",
	Long: `Search the catalog by title.

Matching is case and accent insensitive; close misspellings are
found by similarity ranking.

Examples:
  cinewatch series search "steins gate"
  cinewatch series search leon`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSeriesSearchCmd,
}

var seriesInfoCmd = &cobra.Command{
	Use:   "info <series-id>",
	Short: "Show seasons and movies of one series",
	Args:  cobra.ExactArgs(1),
	RunE:  runSeriesInfoCmd,
}

func init() {
	rootCmd.AddCommand(seriesCmd)
	seriesCmd.AddCommand(seriesListCmd)
	seriesCmd.AddCommand(seriesSearchCmd)
	seriesCmd.AddCommand(seriesInfoCmd)
}

func runSeriesListCmd(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	if err := requireAuth(a); err != nil {
		return err
	}

	a.RefreshCatalog(cmd.Context())
	if err := statusErr(a); err != nil {
		return err
	}

	series := a.Catalog.Series()
	if jsonOutput {
		printJSON(series)
		return nil
	}
	printSeriesHuman(series)
	return nil
}

func runSeriesSearchCmd(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")

	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	if err := requireAuth(a); err != nil {
		return err
	}

	a.RefreshCatalog(cmd.Context())
	if err := statusErr(a); err != nil {
		return err
	}

	matches := a.Catalog.Search(query)
	if jsonOutput {
		printJSON(matches)
		return nil
	}
	if len(matches) == 0 {
		fmt.Printf("No series match %q\n", query)
		return nil
	}
	printSeriesHuman(matches)
	return nil
}

func runSeriesInfoCmd(cmd *cobra.Command, args []string) error {
	seriesID := args[0]

	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	if err := requireAuth(a); err != nil {
		return err
	}

	a.RefreshCatalog(cmd.Context())
	if err := statusErr(a); err != nil {
		return err
	}
	a.OpenSeries(cmd.Context(), seriesID)
	if err := statusErr(a); err != nil {
		return err
	}

	serie := a.Catalog.Find(seriesID)
	if serie == nil {
		return fmt.Errorf("series %q not found", seriesID)
	}

	if jsonOutput {
		printJSON(serie)
		return nil
	}

	fmt.Printf("%s (%s)\n", serie.Title, serie.ID)
	if serie.Infos.Description != "" {
		fmt.Printf("  %s\n", serie.Infos.Description)
	}
	for _, season := range serie.Seasons {
		if len(season) == 0 {
			continue
		}
		fmt.Printf("\nSeason %d\n", season[0].Season)
		for _, ep := range season {
			mark := " "
			if a.Watch.IsWatched(serie.ID, ep.Season, ep.Episode) {
				mark = "*"
			}
			fmt.Printf(" %s E%02d  %-40s %s\n",
				mark, ep.Episode, episodeName(&ep), formatLangs(ep.Langs))
		}
	}
	if len(serie.Movies) > 0 {
		fmt.Printf("\nMovies\n")
		for i, mov := range serie.Movies {
			fmt.Printf("   M%02d  %-40s %s\n",
				i+1, mov.PrimaryName, formatLangs(mov.Langs))
		}
	}
	return nil
}

func printSeriesHuman(series []cinema.Serie) {
	fmt.Printf("%-24s │ %-40s │ %s\n", "ID", "TITLE", "CATEGORY")
	for _, s := range series {
		title := s.Title
		if len(title) > 40 {
			title = title[:37] + "..."
		}
		fmt.Printf("%-24s │ %-40s │ %s\n", s.ID, title, s.Categorie)
	}
}

func episodeName(ep *cinema.Episode) string {
	if ep.PrimaryName != "" {
		return ep.PrimaryName
	}
	return ep.SecondaryName
}

func formatLangs(langs []cinema.Lang) string {
	parts := make([]string, len(langs))
	for i, l := range langs {
		parts[i] = string(l)
	}
	return strings.Join(parts, ",")
}
