// Package render turns ranked records into display cards and pages.
package render

import (
	"bjj-foundation/internal/catalog"
	"bjj-foundation/internal/constants"
	"bjj-foundation/internal/domain"
)

type Chip struct {
	Class string `json:"class"`
	Label string `json:"label"`
}

type Card struct {
	Title        string `json:"title"`
	Link         string `json:"link"`
	VideoID      string `json:"video_id,omitempty"`
	ThumbnailURL string `json:"thumbnail_url"`
	Flag         string `json:"flag"`
	Views        string `json:"views,omitempty"`
	Channel      string `json:"channel,omitempty"`
	Fight        bool   `json:"fight,omitempty"`
	Chips        []Chip `json:"chips"`
}

var chipFacets = []struct {
	facet catalog.Facet
	class string
	icon  string
}{
	{catalog.FacetGuard, "guard", ""},
	{catalog.FacetPass, "pass", "🚶 "},
	{catalog.FacetSweep, "sweep", "🌀 "},
	{catalog.FacetSubmission, "submission", "🎯 "},
	{catalog.FacetTakedown, "takedown", "🥋 "},
	{catalog.FacetPosition, "position", "📍 "},
	{catalog.FacetTechnique, "", "⚡ "},
}

func NewCard(r *domain.VideoRecord) Card {
	id, _ := ExtractVideoID(r.YoutubeLink)
	c := Card{
		Title:        r.Title,
		Link:         r.YoutubeLink,
		VideoID:      id,
		ThumbnailURL: ThumbnailURL(r.YoutubeLink),
		Flag:         LanguageFlag(r.Language),
		Channel:      r.ChannelName,
		Fight:        r.IsFight,
		Chips:        chips(r),
	}
	if r.ViewCount != 0 {
		c.Views = FormatViews(int64(r.ViewCount))
	}
	return c
}

func chips(r *domain.VideoRecord) []Chip {
	var out []Chip
	if len(r.Athletes) > 0 {
		out = append(out, Chip{Class: "fight", Label: "🥊 Fight"})
	}
	if r.Classification == nil {
		return out
	}
	for _, cf := range chipFacets {
		values := r.Classification.Values(string(cf.facet))
		if len(values) > constants.MaxChipsPerFacet {
			values = values[:constants.MaxChipsPerFacet]
		}
		for _, v := range values {
			out = append(out, Chip{Class: cf.class, Label: cf.icon + v})
		}
	}
	return out
}
