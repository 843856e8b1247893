package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show cache analytics",
	Long:  `Show aggregate analytics over the cached movies.`,
	Args:  cobra.NoArgs,
	RunE:  runStatsCmd,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStatsCmd(cmd *cobra.Command, args []string) error {
	client := NewClient(serverURL)
	stats, err := client.Stats()
	if err != nil {
		return fmt.Errorf("stats failed: %w", err)
	}

	if jsonOutput {
		printJSON(stats)
		return nil
	}

	d := stats.Data
	fmt.Printf("Cached movies:  %d\n", d.TotalMovies)
	fmt.Printf("Average rating: %.2f\n", d.AverageRating)

	if len(d.GenreDistribution) > 0 {
		fmt.Println("\nGenres:")
		genres := make([]string, 0, len(d.GenreDistribution))
		for g := range d.GenreDistribution {
			genres = append(genres, g)
		}
		sort.Slice(genres, func(i, j int) bool {
			if d.GenreDistribution[genres[i]] != d.GenreDistribution[genres[j]] {
				return d.GenreDistribution[genres[i]] > d.GenreDistribution[genres[j]]
			}
			return genres[i] < genres[j]
		})
		for _, g := range genres {
			fmt.Printf("  %-16s %d\n", g, d.GenreDistribution[g])
		}
	}

	if len(d.AverageRuntimeByYear) > 0 {
		fmt.Println("\nAverage runtime by year:")
		years := make([]int, 0, len(d.AverageRuntimeByYear))
		for y := range d.AverageRuntimeByYear {
			years = append(years, y)
		}
		sort.Sort(sort.Reverse(sort.IntSlice(years)))
		for _, y := range years {
			fmt.Printf("  %d  %d min\n", y, d.AverageRuntimeByYear[y])
		}
	}

	return nil
}
