package tracks

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/justestif/feelora/internal/emotion"
)

// mockCatalog implements Catalog for testing.
type mockCatalog struct {
	// playlists maps query to playlist IDs
	playlists map[string][]string
	// searchErr maps query to search errors
	searchErr map[string]error
	// tracks maps playlist ID to its tracks
	tracks map[string][]Track
	// tracksErr maps playlist ID to track fetch errors
	tracksErr map[string]error

	queries []string
	limits  []int
}

func newMockCatalog() *mockCatalog {
	return &mockCatalog{
		playlists: make(map[string][]string),
		searchErr: make(map[string]error),
		tracks:    make(map[string][]Track),
		tracksErr: make(map[string]error),
	}
}

func (m *mockCatalog) SearchPlaylists(_ context.Context, query string, limit int) ([]string, error) {
	m.queries = append(m.queries, query)
	m.limits = append(m.limits, limit)
	if err, ok := m.searchErr[query]; ok {
		return nil, err
	}
	return m.playlists[query], nil
}

func (m *mockCatalog) PlaylistTracks(_ context.Context, playlistID string) ([]Track, error) {
	if err, ok := m.tracksErr[playlistID]; ok {
		return nil, err
	}
	return m.tracks[playlistID], nil
}

type mockConnector struct {
	catalog Catalog
	err     error
	calls   int
}

func (m *mockConnector) Connect(context.Context) (Catalog, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.catalog, nil
}

// sequencePicker returns the queued indexes in order, then 0.
type sequencePicker struct {
	next []int
}

func (p *sequencePicker) Intn(n int) int {
	if len(p.next) == 0 {
		return 0
	}
	i := p.next[0]
	p.next = p.next[1:]
	return i % n
}

func track(title string) Track {
	return Track{
		Title:  title,
		Artist: "Artist of " + title,
		Link:   "https://open.spotify.com/track/" + strings.ReplaceAll(title, " ", ""),
	}
}

func TestSelect_NoToken(t *testing.T) {
	connector := &mockConnector{err: errors.New("missing credentials")}
	s := NewSelector(connector)

	got := s.Select(context.Background(), emotion.Happy, "english")

	assert.Equal(t, NoTokenTrack, got)
	assert.Equal(t, "No token", got.Title)
	assert.Equal(t, ProviderHomeURL, got.Link)
}

func TestSelect_StageOneHit(t *testing.T) {
	catalog := newMockCatalog()
	catalog.playlists["happy english"] = []string{"p1", "p2"}
	catalog.tracks["p2"] = []Track{
		track("Happy Birthday To You"),
		track("Walking on Sunshine"),
		track("Kids Party Mix"),
		track("Good as Hell"),
	}

	picker := &sequencePicker{next: []int{1, 1}}
	s := NewSelector(&mockConnector{catalog: catalog}, WithPicker(picker))

	got := s.Select(context.Background(), emotion.Happy, "english")

	assert.Equal(t, "Good as Hell", got.Title)
	assert.Empty(t, got.Note)
	assert.Equal(t, []string{"happy english"}, catalog.queries)
	assert.Equal(t, []int{PlaylistSearchLimit}, catalog.limits)
}

func TestSelect_StageOneResultNeverDenied(t *testing.T) {
	catalog := newMockCatalog()
	catalog.playlists["happy english"] = []string{"p1"}
	catalog.tracks["p1"] = []Track{
		track("Nursery Rhymes"),
		track("HAPPY BIRTHDAY"),
		track("Lovely Day"),
		track("Kids Songs"),
		track("September"),
	}

	// Default random picker: check membership instead of exact values.
	s := NewSelector(&mockConnector{catalog: catalog})
	for i := 0; i < 50; i++ {
		got := s.Select(context.Background(), emotion.Happy, "english")
		assert.False(t, IsDenied(got.Title), "selected denied title %q", got.Title)
		assert.Contains(t, []string{"Lovely Day", "September"}, got.Title)
		assert.Empty(t, got.Note)
	}
}

func TestSelect_FallbackToLanguage(t *testing.T) {
	tests := []struct {
		name  string
		setup func(c *mockCatalog)
	}{
		{
			name: "stage one only denied tracks",
			setup: func(c *mockCatalog) {
				c.playlists["sad spanish"] = []string{"p1"}
				c.tracks["p1"] = []Track{track("Kids Lullaby"), track("Nursery Time")}
			},
		},
		{
			name:  "stage one no playlists",
			setup: func(c *mockCatalog) {},
		},
		{
			name: "stage one search error",
			setup: func(c *mockCatalog) {
				c.searchErr["sad spanish"] = errors.New("status 500")
			},
		},
		{
			name: "stage one track fetch error",
			setup: func(c *mockCatalog) {
				c.playlists["sad spanish"] = []string{"broken"}
				c.tracksErr["broken"] = errors.New("timeout")
			},
		},
		{
			name: "stage one malformed tracks",
			setup: func(c *mockCatalog) {
				c.playlists["sad spanish"] = []string{"p1"}
				c.tracks["p1"] = []Track{{Title: "No Link", Artist: "Someone"}, {}}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			catalog := newMockCatalog()
			tt.setup(catalog)
			catalog.playlists["spanish"] = []string{"lang"}
			catalog.tracks["lang"] = []Track{track("Despacito")}

			s := NewSelector(&mockConnector{catalog: catalog})
			got := s.Select(context.Background(), emotion.Sad, "spanish")

			assert.Equal(t, "Despacito", got.Title)
			assert.NotEmpty(t, got.Note)
			assert.Contains(t, got.Note, "Couldn't find a perfect match")
			assert.Equal(t, []string{"sad spanish", "spanish"}, catalog.queries)
		})
	}
}

func TestSelect_NoMatch(t *testing.T) {
	catalog := newMockCatalog()
	catalog.playlists["angry french"] = []string{"p1"}
	catalog.tracks["p1"] = []Track{track("Happy Birthday")}
	catalog.searchErr["french"] = errors.New("network down")

	s := NewSelector(&mockConnector{catalog: catalog})
	got := s.Select(context.Background(), emotion.Angry, "french")

	assert.Equal(t, NoMatchTrack, got)
	assert.Equal(t, "No match found", got.Title)
}

func TestSelect_NormalizesLanguage(t *testing.T) {
	catalog := newMockCatalog()
	s := NewSelector(&mockConnector{catalog: catalog})

	s.Select(context.Background(), emotion.Calm, "  ")

	assert.Equal(t, []string{"calm english", "english"}, catalog.queries)
}

func TestSelect_ConnectsOncePerCall(t *testing.T) {
	connector := &mockConnector{catalog: newMockCatalog()}
	s := NewSelector(connector)

	s.Select(context.Background(), emotion.Neutral, "hindi")
	s.Select(context.Background(), emotion.Neutral, "hindi")

	assert.Equal(t, 2, connector.calls)
}

func TestRunStage_Outcomes(t *testing.T) {
	catalog := newMockCatalog()
	catalog.playlists["mixed"] = []string{"p"}
	catalog.tracks["p"] = []Track{track("Kids Bop"), {Title: "Missing"}, track("Fine")}
	catalog.playlists["malformed"] = []string{"m"}
	catalog.tracks["m"] = []Track{{Title: "Missing"}}
	catalog.playlists["denied"] = []string{"d"}
	catalog.tracks["d"] = []Track{track("Kids Bop"), {Title: "Missing"}}
	catalog.searchErr["broken"] = errors.New("boom")

	s := NewSelector(&mockConnector{catalog: catalog})
	ctx := context.Background()

	mixed := s.RunStage(ctx, catalog, "mixed")
	assert.Equal(t, Found, mixed.Outcome)
	assert.Equal(t, "Fine", mixed.Track.Title)
	assert.Equal(t, 1, mixed.Filtered)
	assert.Equal(t, 1, mixed.Invalid)

	assert.Equal(t, Malformed, s.RunStage(ctx, catalog, "malformed").Outcome)
	assert.Equal(t, Empty, s.RunStage(ctx, catalog, "denied").Outcome)
	assert.Equal(t, Empty, s.RunStage(ctx, catalog, "nothing").Outcome)

	broken := s.RunStage(ctx, catalog, "broken")
	assert.Equal(t, Failed, broken.Outcome)
	assert.ErrorContains(t, broken.Err, "boom")
}

func TestIsDenied(t *testing.T) {
	assert.True(t, IsDenied("Happy BIRTHDAY Song"))
	assert.True(t, IsDenied("Songs for KIDS"))
	assert.True(t, IsDenied("nursery"))
	assert.False(t, IsDenied("Happy"))
	assert.False(t, IsDenied(""))
}

func TestNormalizeLanguage(t *testing.T) {
	assert.Equal(t, "english", NormalizeLanguage(""))
	assert.Equal(t, "tamil", NormalizeLanguage(" Tamil "))
	assert.Equal(t, "klingon", NormalizeLanguage("klingon"))
}

func TestOutcome_String(t *testing.T) {
	assert.Equal(t, "found", Found.String())
	assert.Equal(t, "malformed", Malformed.String())
	assert.Equal(t, "outcome(9)", Outcome(9).String())
}
