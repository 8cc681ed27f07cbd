package models

import "strings"

// Problem identifies an exercise by its track and slug. The catalog that owns
// exercises lives outside this service; a Problem is only an identity.
type Problem struct {
	TrackID string `json:"track_id"`
	Slug    string `json:"slug"`
}

// Name renders the slug as a display name: hyphens become spaces and each
// word is capitalized, so "word-count" reads "Word Count".
func (p Problem) Name() string {
	words := strings.Split(p.Slug, "-")
	for i, word := range words {
		if word == "" {
			continue
		}
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}
