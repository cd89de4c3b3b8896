package render

import "regexp"

var videoIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:youtube\.com/watch\?v=|youtu\.be/)([^&\n?#]+)`),
	regexp.MustCompile(`youtube\.com/embed/([^&\n?#]+)`),
	regexp.MustCompile(`youtube\.com/v/([^&\n?#]+)`),
}

// ExtractVideoID returns the YouTube video id in url, trying the watch,
// youtu.be, embed and /v/ shapes in order.
func ExtractVideoID(url string) (string, bool) {
	if url == "" {
		return "", false
	}
	for _, p := range videoIDPatterns {
		if m := p.FindStringSubmatch(url); m != nil && m[1] != "" {
			return m[1], true
		}
	}
	return "", false
}

const placeholderThumbnail = "https://via.placeholder.com/480x360?text=No+Thumbnail"

// ThumbnailURL returns the max resolution thumbnail for a video link, or a
// placeholder image when no id can be extracted.
func ThumbnailURL(link string) string {
	if id, ok := ExtractVideoID(link); ok {
		return "https://img.youtube.com/vi/" + id + "/maxresdefault.jpg"
	}
	return placeholderThumbnail
}
