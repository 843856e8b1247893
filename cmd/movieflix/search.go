package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:   "search [flags] <query>...",
	Short: "Search for movies",
	Long: `Search for movies.

Results come from the local cache when fresh, otherwise from OMDb.

Examples:
  movieflix search "The Matrix"
  movieflix search batman --sort year
  movieflix search batman --filter genre:action,crime --limit 5`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearchCmd,
}

func init() {
	rootCmd.AddCommand(searchCmd)
	searchCmd.Flags().String("sort", "", "Sort key (rating, year, title)")
	searchCmd.Flags().String("filter", "", "Filter, e.g. genre:action,comedy")
	searchCmd.Flags().Int("limit", 0, "Results per page")
	searchCmd.Flags().Int("page", 0, "Page number")
}

func runSearchCmd(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")
	sortKey, _ := cmd.Flags().GetString("sort")
	filter, _ := cmd.Flags().GetString("filter")
	limit, _ := cmd.Flags().GetInt("limit")
	page, _ := cmd.Flags().GetInt("page")

	client := NewClient(serverURL)
	results, err := client.SearchMovies(SearchParams{
		Search: query,
		Sort:   sortKey,
		Filter: filter,
		Limit:  limit,
		Page:   page,
	})
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if jsonOutput {
		printJSON(results)
		return nil
	}

	if len(results.Data) == 0 {
		fmt.Println("No movies found")
		return nil
	}

	printSearchHuman(query, results)
	return nil
}

func printSearchHuman(query string, r *SearchMoviesResponse) {
	fmt.Printf("Found %d movies for %q (page %d/%d):\n\n",
		r.Pagination.Total, query, r.Pagination.Page, r.Pagination.TotalPages)
	fmt.Printf("  # │ %-42s │ %4s │ %6s │ %s\n", "TITLE", "YEAR", "RATING", "GENRE")
	fmt.Println("────┼────────────────────────────────────────────┼──────┼────────┼──────────────")

	for i, m := range r.Data {
		title := m.Title
		if len(title) > 42 {
			title = title[:39] + "..."
		}
		fmt.Printf(" %2d │ %-42s │ %4d │ %6.1f │ %s\n",
			i+1, title, m.Year, m.Rating, strings.Join(m.Genre, ", "))
	}

	if r.Pagination.HasNextPage {
		fmt.Printf("\nMore results: --page %d\n", r.Pagination.Page+1)
	}
}
