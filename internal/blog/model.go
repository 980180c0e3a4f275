package blog

import (
	"encoding/json"
	"strings"
	"time"
)

// Post is one media blog entry: text plus stored image/video object keys.
type Post struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	Tags        []string  `json:"tags"`
	Images      []string  `json:"images"`
	VideoURL    *string   `json:"video_url"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TagList accepts either a JSON array of strings or a single comma-separated
// string, the two shapes clients send.
type TagList []string

func (t *TagList) UnmarshalJSON(data []byte) error {
	var asList []string
	if err := json.Unmarshal(data, &asList); err == nil {
		*t = normalizeTags(asList)
		return nil
	}
	var asString string
	if err := json.Unmarshal(data, &asString); err != nil {
		return err
	}
	*t = normalizeTags(strings.Split(asString, ","))
	return nil
}

func normalizeTags(raw []string) []string {
	out := make([]string, 0, len(raw))
	for _, tag := range raw {
		if tag = strings.TrimSpace(tag); tag != "" {
			out = append(out, tag)
		}
	}
	return out
}
