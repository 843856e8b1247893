package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/movieflix/movieflix/pkg/title"
)

var getCmd = &cobra.Command{
	Use:   "get <imdb-id>",
	Short: "Show movie details",
	Long: `Show full details for one movie.

Pass an IMDb ID, or use --title to resolve the closest matching title
from a search.

Examples:
  movieflix get tt0468569
  movieflix get --title "dark knight"`,
	Args: cobra.MaximumNArgs(1),
	RunE: runGetCmd,
}

func init() {
	rootCmd.AddCommand(getCmd)
	getCmd.Flags().String("title", "", "Resolve the movie by title instead of ID")
}

func runGetCmd(cmd *cobra.Command, args []string) error {
	wanted, _ := cmd.Flags().GetString("title")
	client := NewClient(serverURL)

	var id string
	switch {
	case wanted != "":
		resolved, err := resolveByTitle(client, wanted)
		if err != nil {
			return err
		}
		id = resolved
	case len(args) == 1:
		id = args[0]
	default:
		return fmt.Errorf("pass an IMDb ID or --title")
	}

	m, err := client.GetMovie(id)
	if err != nil {
		return fmt.Errorf("get failed: %w", err)
	}

	if jsonOutput {
		printJSON(m)
		return nil
	}

	printMovieHuman(m)
	return nil
}

// resolveByTitle searches for the wanted title and picks the closest match.
func resolveByTitle(client *Client, wanted string) (string, error) {
	results, err := client.SearchMovies(SearchParams{Search: wanted})
	if err != nil {
		return "", fmt.Errorf("search failed: %w", err)
	}
	if len(results.Data) == 0 {
		return "", fmt.Errorf("no movies found for %q", wanted)
	}

	candidates := make([]string, len(results.Data))
	for i, m := range results.Data {
		candidates[i] = m.Title
	}

	match := title.BestMatch(wanted, candidates)
	if match.Confidence == title.ConfidenceNone {
		return "", fmt.Errorf("no close match for %q (best candidate: %q)", wanted, results.Data[0].Title)
	}
	if !jsonOutput && match.Confidence != title.ConfidenceHigh {
		fmt.Printf("Matched %q (confidence: %s)\n\n", match.Title, match.Confidence)
	}
	return results.Data[match.Index].ID, nil
}

func printMovieHuman(m *MovieResponse) {
	fmt.Printf("%s (%d)\n", m.Title, m.Year)
	fmt.Printf("  ID:       %s\n", m.ID)
	fmt.Printf("  Rating:   %.1f/10\n", m.Rating)
	fmt.Printf("  Runtime:  %d min\n", m.Runtime)
	fmt.Printf("  Genre:    %s\n", strings.Join(m.Genre, ", "))
	fmt.Printf("  Director: %s\n", m.Director)
	fmt.Printf("  Actors:   %s\n", strings.Join(m.Actors, ", "))
	fmt.Printf("\n%s\n", m.Plot)
}
