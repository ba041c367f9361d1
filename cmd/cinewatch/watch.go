package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jodu555/cinewatch/pkg/cinema"
)

var watchCmd = &cobra.Command{
	Use:   "watch <series-id>",
	Short: "Derive the playback locator for an entity",
	Long: `Derive the playback locator for an entity.

Without entity flags the first episode of season one is selected.
--movie addresses a standalone film by its 1-based position and
takes precedence over --season/--episode.

Examples:
  cinewatch watch steins-gate
  cinewatch watch steins-gate --season 2 --episode 5 --lang EngSub
  cinewatch watch steins-gate --movie 1`,
	Args: cobra.ExactArgs(1),
	RunE: runWatchCmd,
}

var resumeCmd = &cobra.Command{
	Use:   "resume <series-id>",
	Short: "Show where to pick a series back up",
	Args:  cobra.ExactArgs(1),
	RunE:  runResumeCmd,
}

func init() {
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(resumeCmd)
	watchCmd.Flags().Int("movie", 0, "Movie position (1-based)")
	watchCmd.Flags().Int("season", 0, "Season number")
	watchCmd.Flags().Int("episode", 0, "Episode number")
	watchCmd.Flags().String("lang", "", "Language track (GerDub, GerSub, EngDub, EngSub, GerSubK, EngSubK)")
}

func runWatchCmd(cmd *cobra.Command, args []string) error {
	seriesID := args[0]
	movie, _ := cmd.Flags().GetInt("movie")
	season, _ := cmd.Flags().GetInt("season")
	episode, _ := cmd.Flags().GetInt("episode")
	langFlag, _ := cmd.Flags().GetString("lang")

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
	if a.Catalog.Find(seriesID) == nil {
		return fmt.Errorf("series %q not found", seriesID)
	}

	if movie > 0 {
		a.SelectMovie(movie)
	} else {
		if season > 0 {
			a.SelectSeason(season)
		}
		if episode > 0 {
			a.SelectEpisode(episode)
		}
	}
	if langFlag != "" {
		lang, ok := cinema.ParseLang(langFlag)
		if !ok {
			return fmt.Errorf("unknown language %q", langFlag)
		}
		a.SelectLanguage(lang)
	}

	if a.Player.ResolveEntity() == nil {
		return fmt.Errorf("no such entity in %q", seriesID)
	}

	loc, ok := a.Locator()
	if !ok {
		return fmt.Errorf("series %q not found", seriesID)
	}

	if jsonOutput {
		printJSON(loc)
		return nil
	}

	fmt.Printf("Title:     %s\n", loc.Title)
	fmt.Printf("Language:  %s\n", a.Player.Language())
	fmt.Printf("Address:   %s\n", loc.Address)
	fmt.Printf("Artwork:   %s\n", loc.Artwork)

	if item, ok := a.Resume(); ok {
		fmt.Printf("\nLast watched: %s at %s\n", describeEntity(item), formatSeconds(item.Time))
	}
	return nil
}

func runResumeCmd(cmd *cobra.Command, args []string) error {
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

	item, ok := a.Resume()
	if !ok {
		fmt.Println("Nothing watched yet")
		return nil
	}

	if jsonOutput {
		printJSON(item)
		return nil
	}
	fmt.Printf("%s at %s\n", describeEntity(item), formatSeconds(item.Time))
	return nil
}

func describeEntity(item cinema.WatchItem) string {
	if item.Movie > 0 {
		return fmt.Sprintf("Movie %d", item.Movie)
	}
	return fmt.Sprintf("Season %d, Episode %d", item.Season, item.Episode)
}

func formatSeconds(seconds float64) string {
	total := int(seconds)
	if total >= 3600 {
		return fmt.Sprintf("%d:%02d:%02d", total/3600, total%3600/60, total%60)
	}
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}
