package domain

// VideoRecord is one catalog entry. Technique records carry Classification;
// fight records are tagged IsFight by the loader and carry Athletes.
type VideoRecord struct {
	Title          string         `json:"title"`
	Description    string         `json:"description,omitempty"`
	Tags           StringList     `json:"tags,omitempty"`
	YoutubeLink    string         `json:"youtube_link,omitempty"`
	ChannelName    string         `json:"channel_name,omitempty"`
	ViewCount      ViewCount      `json:"view_count"`
	Language       string         `json:"language,omitempty"`
	Classification Classification `json:"classification,omitempty"`
	Athletes       StringList     `json:"athletes,omitempty"`
	IsFight        bool           `json:"isFight,omitempty"`
}

// Classification maps a facet key (guard_type, pass, ...) to its tag values.
// A nil Classification means the record was never classified; an empty one
// means it was classified with no facets.
type Classification map[string]StringList

// Values returns the values recorded for key, or nil.
func (c Classification) Values(key string) StringList {
	if c == nil {
		return nil
	}
	return c[key]
}
