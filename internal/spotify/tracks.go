package spotify

import (
	"context"
	"fmt"

	"github.com/zmb3/spotify/v2"

	"github.com/justestif/feelora/internal/tracks"
)

// SearchPlaylists searches for playlists matching query and returns their IDs.
// Items the API returns as null (no ID) are dropped.
func (c *Client) SearchPlaylists(ctx context.Context, query string, limit int) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	result, err := c.api.Search(ctx, query, spotify.SearchTypePlaylist, spotify.Limit(limit))
	if err != nil {
		return nil, fmt.Errorf("searching playlists: %w", err)
	}
	if result == nil || result.Playlists == nil {
		return nil, nil
	}

	ids := make([]string, 0, len(result.Playlists.Playlists))
	for _, p := range result.Playlists.Playlists {
		if p.ID == "" {
			continue
		}
		ids = append(ids, p.ID.String())
	}
	return ids, nil
}

// PlaylistTracks fetches the first page of a playlist's items as tracks.
// Episodes and empty items are skipped; incomplete tracks are returned as-is
// so the caller can tell malformed data apart from an empty playlist.
func (c *Client) PlaylistTracks(ctx context.Context, playlistID string) ([]tracks.Track, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	page, err := c.api.GetPlaylistItems(ctx, spotify.ID(playlistID))
	if err != nil {
		return nil, fmt.Errorf("fetching playlist items: %w", err)
	}

	out := make([]tracks.Track, 0, len(page.Items))
	for _, item := range page.Items {
		if item.Track.Track == nil {
			continue
		}
		out = append(out, convertTrack(item.Track.Track))
	}
	return out, nil
}

// convertTrack converts a Spotify FullTrack to a tracks.Track using its first artist.
func convertTrack(t *spotify.FullTrack) tracks.Track {
	var artist string
	if len(t.Artists) > 0 {
		artist = t.Artists[0].Name
	}
	return tracks.Track{
		Title:  t.Name,
		Artist: artist,
		Link:   t.ExternalURLs["spotify"],
	}
}
