package metadata

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"hylla/internal/catalog"
	"hylla/internal/config"
	"hylla/internal/metadata/omdb"
	"hylla/internal/metadata/tmdb"
)

// posterBase is TMDB's image CDN prefix for poster paths.
const posterBase = "https://image.tmdb.org/t/p/w500"

// ErrNoSources is returned when no metadata provider is configured.
var ErrNoSources = errors.New("no metadata sources configured")

// ErrNoMatch is returned when every configured provider came up empty.
var ErrNoMatch = errors.New("no metadata match")

// Details is the merged descriptive payload for one title. SourceRating is
// the provider's audience score on a 0-10 scale, zero when absent.
type Details struct {
	Title        string
	Year         int
	Genre        string
	Director     string
	Cast         string
	Runtime      int
	Plot         string
	Poster       string
	SourceRating float64
}

// Apply copies details into an entry's empty descriptive fields. Populated
// fields are left alone so a lookup never clobbers manual edits. Returns
// whether anything changed.
func (d *Details) Apply(entry *catalog.Entry) bool {
	changed := false
	setString := func(dst *string, value string) {
		if strings.TrimSpace(*dst) == "" && value != "" {
			*dst = value
			changed = true
		}
	}
	setString(&entry.Genre, d.Genre)
	setString(&entry.Director, d.Director)
	setString(&entry.Cast, d.Cast)
	setString(&entry.Plot, d.Plot)
	setString(&entry.Poster, d.Poster)
	if entry.Year == 0 && d.Year > 0 {
		entry.Year = d.Year
		changed = true
	}
	if entry.Runtime == 0 && d.Runtime > 0 {
		entry.Runtime = d.Runtime
		changed = true
	}
	return changed
}

// Service merges TMDB and OMDB lookups. TMDB is preferred for structured
// data; OMDB fills whatever TMDB leaves blank.
type Service struct {
	tmdb   *tmdb.Client
	omdb   *omdb.Client
	logger *slog.Logger
}

// NewService builds a lookup service from configured API keys. Providers
// without a key are skipped; a service with no providers still constructs
// and fails at lookup time with ErrNoSources.
func NewService(cfg *config.Config, logger *slog.Logger) (*Service, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	svc := &Service{logger: logger}

	if strings.TrimSpace(cfg.TMDB.APIKey) != "" {
		client, err := tmdb.New(cfg.TMDB.APIKey, cfg.TMDB.BaseURL, cfg.TMDB.Language)
		if err != nil {
			return nil, fmt.Errorf("tmdb client: %w", err)
		}
		svc.tmdb = client
	}
	if strings.TrimSpace(cfg.OMDB.APIKey) != "" {
		client, err := omdb.New(cfg.OMDB.APIKey, cfg.OMDB.BaseURL)
		if err != nil {
			return nil, fmt.Errorf("omdb client: %w", err)
		}
		svc.omdb = client
	}
	return svc, nil
}

// Configured reports whether at least one provider is available.
func (s *Service) Configured() bool {
	return s.tmdb != nil || s.omdb != nil
}

// Lookup fetches details for a title, merging providers.
func (s *Service) Lookup(ctx context.Context, title string, year int) (*Details, error) {
	if !s.Configured() {
		return nil, ErrNoSources
	}

	var details *Details
	if s.tmdb != nil {
		found, err := s.lookupTMDB(ctx, title, year)
		if err != nil {
			s.logger.Warn("tmdb lookup failed", "title", title, "error", err)
		} else {
			details = found
		}
	}
	if s.omdb != nil {
		if err := s.mergeOMDB(ctx, &details, title, year); err != nil {
			s.logger.Warn("omdb lookup failed", "title", title, "error", err)
		}
	}

	if details == nil {
		return nil, fmt.Errorf("%w for %q", ErrNoMatch, title)
	}
	return details, nil
}

func (s *Service) lookupTMDB(ctx context.Context, title string, year int) (*Details, error) {
	resp, err := s.tmdb.SearchMovie(ctx, title, year)
	if err != nil {
		return nil, err
	}
	if len(resp.Results) == 0 {
		return nil, fmt.Errorf("%w on tmdb", ErrNoMatch)
	}

	movie, err := s.tmdb.GetMovie(ctx, resp.Results[0].ID)
	if err != nil {
		return nil, err
	}

	details := &Details{
		Title:        movie.Title,
		Runtime:      movie.Runtime,
		Plot:         movie.Overview,
		Director:     movie.Director(),
		Cast:         strings.Join(movie.TopCast(5), ", "),
		SourceRating: movie.VoteAverage,
	}
	if len(movie.ReleaseDate) >= 4 {
		if parsed, err := strconv.Atoi(movie.ReleaseDate[:4]); err == nil {
			details.Year = parsed
		}
	}
	if len(movie.Genres) > 0 {
		names := make([]string, 0, len(movie.Genres))
		for _, genre := range movie.Genres {
			names = append(names, genre.Name)
		}
		details.Genre = strings.Join(names, "/")
	}
	if movie.PosterPath != "" {
		details.Poster = posterBase + movie.PosterPath
	}
	return details, nil
}

func (s *Service) mergeOMDB(ctx context.Context, details **Details, title string, year int) error {
	movie, err := s.omdb.GetByTitle(ctx, title, year)
	if errors.Is(err, omdb.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	if *details == nil {
		*details = &Details{Title: omdb.Field(movie.Title)}
	}
	merged := *details
	fill := func(dst *string, value string) {
		if *dst == "" {
			*dst = omdb.Field(value)
		}
	}
	fill(&merged.Genre, movie.Genre)
	fill(&merged.Director, movie.Director)
	fill(&merged.Cast, movie.Actors)
	fill(&merged.Plot, movie.Plot)
	fill(&merged.Poster, movie.Poster)
	if merged.Year == 0 {
		if parsed, err := strconv.Atoi(omdb.Field(movie.Year)); err == nil {
			merged.Year = parsed
		}
	}
	if merged.Runtime == 0 {
		merged.Runtime = movie.RuntimeMinutes()
	}
	if merged.SourceRating == 0 {
		if score, err := strconv.ParseFloat(omdb.Field(movie.IMDBRating), 64); err == nil {
			merged.SourceRating = score
		}
	}
	return nil
}
