package youtube

import (
	"context"
	"net/url"
	"strings"

	"themerr/internal/services"
)

// WatchURL returns the canonical watch URL stored in database records.
func WatchURL(videoID string) string {
	return "https://www.youtube.com/watch?v=" + videoID
}

// ParseURL extracts the video id and playlist id from a submitted YouTube
// URL. Watch URLs carrying a list parameter resolve to the named video; bare
// playlist URLs carry only the playlist id.
func ParseURL(raw string) (videoID, playlistID string, err error) {
	raw = strings.TrimSpace(raw)
	parsed, parseErr := url.Parse(raw)
	if parseErr != nil {
		return "", "", services.Wrap(services.ErrValidation, "youtube", "parse", "unparseable url", parseErr)
	}

	host := strings.TrimPrefix(strings.ToLower(parsed.Hostname()), "www.")
	query := parsed.Query()

	switch host {
	case "youtu.be":
		id := strings.Trim(parsed.Path, "/")
		if id == "" {
			return "", "", services.Wrap(services.ErrValidation, "youtube", "parse", "short url missing video id", nil)
		}
		return id, query.Get("list"), nil
	case "youtube.com", "m.youtube.com", "music.youtube.com":
		switch {
		case strings.HasPrefix(parsed.Path, "/watch"):
			id := query.Get("v")
			if id == "" {
				return "", "", services.Wrap(services.ErrValidation, "youtube", "parse", "watch url missing v parameter", nil)
			}
			return id, query.Get("list"), nil
		case strings.HasPrefix(parsed.Path, "/playlist"):
			list := query.Get("list")
			if list == "" {
				return "", "", services.Wrap(services.ErrValidation, "youtube", "parse", "playlist url missing list parameter", nil)
			}
			return "", list, nil
		}
	}
	return "", "", services.Wrap(services.ErrValidation, "youtube", "parse", "unrecognized youtube url: "+raw, nil)
}

// Resolve turns a submitted URL into the video it names. A watch URL wins
// over any list parameter riding along; a bare playlist URL resolves to the
// playlist's first entry. Anything else is rejected as a validation failure.
func (c *Client) Resolve(ctx context.Context, raw string) (Video, error) {
	videoID, playlistID, err := ParseURL(raw)
	if err != nil {
		return Video{}, err
	}
	if videoID == "" {
		videoID, err = c.FirstPlaylistVideoID(ctx, playlistID)
		if err != nil {
			return Video{}, err
		}
	}
	video, err := c.Video(ctx, videoID)
	if err != nil {
		return Video{}, err
	}
	if video.ID == "" {
		video.ID = videoID
	}
	return video, nil
}
