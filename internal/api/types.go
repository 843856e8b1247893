package api

import "github.com/movieflix/movieflix/internal/movies"

// searchResponse is the envelope for paginated movie lists.
type searchResponse struct {
	Success    bool            `json:"success"`
	Message    string          `json:"message,omitempty"`
	Data       []movies.Movie  `json:"data"`
	Pagination movies.PageInfo `json:"pagination"`
}

// dataResponse is the envelope for single-object payloads.
type dataResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data"`
}

type errorResponse struct {
	Success bool      `json:"success"`
	Error   errorBody `json:"error"`
}

type errorBody struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}
