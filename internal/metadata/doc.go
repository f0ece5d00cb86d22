// Package metadata fetches descriptive movie details from TMDB and OMDB
// and merges them for the catalog. Only descriptive fields flow through
// here; ownership and ratings stay on the audited mutation path.
package metadata
