package api

import (
	"encoding/csv"
	"net/http"
	"strconv"
	"strings"
)

var exportHeader = []string{
	"ID", "Title", "Year", "Genre", "Director", "Actors", "Runtime (minutes)", "Rating", "Plot",
}

// exportMovies streams the cached movies as a CSV attachment.
func (s *Server) exportMovies(w http.ResponseWriter, r *http.Request) {
	list, err := s.movies.Export(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="movies_export.csv"`)

	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		s.log.Error("csv write failed", "error", err)
		return
	}
	for _, m := range list {
		record := []string{
			m.ID,
			m.Title,
			strconv.Itoa(m.Year),
			strings.Join(m.Genre, ", "),
			m.Director,
			strings.Join(m.Actors, ", "),
			strconv.Itoa(m.Runtime),
			formatRating(m.Rating),
			m.Plot,
		}
		if err := cw.Write(record); err != nil {
			s.log.Error("csv write failed", "id", m.ID, "error", err)
			return
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		s.log.Error("csv flush failed", "error", err)
	}
}

func formatRating(r float64) string {
	return strconv.FormatFloat(r, 'f', -1, 64)
}
