package models

import (
	"fmt"

	"github.com/desertthunder/looper/internal/shared"
)

// Track is a song identity plus the metadata used to display it.
type Track struct {
	ID     string `toml:"id" json:"id"`
	Title  string `toml:"title" json:"title"`
	Artist string `toml:"artist" json:"artist"`
}

// Key returns the identity used for scheduling: the explicit ID when present, otherwise a normalized title/artist key.
func (t Track) Key() string {
	if t.ID != "" {
		return t.ID
	}
	return shared.NormalizeTrackKey(t.Title, t.Artist)
}

// Label renders the track as "Title – Artist".
func (t Track) Label() string {
	switch {
	case t.Artist == "":
		return t.Title
	case t.Title == "":
		return t.Artist
	default:
		return fmt.Sprintf("%s – %s", t.Title, t.Artist)
	}
}

// PlanEntry is a track and the number of times it should play.
type PlanEntry struct {
	ID     string `toml:"id,omitempty" json:"id,omitempty"`
	Title  string `toml:"title" json:"title"`
	Artist string `toml:"artist" json:"artist"`
	Count  int    `toml:"count" json:"count"`
}

// Track returns the entry's track.
func (e PlanEntry) Track() Track {
	return Track{ID: e.ID, Title: e.Title, Artist: e.Artist}
}

// Plan is a named playlist described by repeat counts rather than order.
//
// Entry order is significant: it breaks ties when scheduling.
type Plan struct {
	Name        string      `toml:"name" json:"name"`
	Description string      `toml:"description,omitempty" json:"description,omitempty"`
	Entries     []PlanEntry `toml:"tracks" json:"tracks"`
}

// NewPlan creates an empty plan.
func NewPlan(name, description string) *Plan {
	return &Plan{Name: name, Description: description, Entries: []PlanEntry{}}
}

// Total returns the playlist length the plan describes.
func (p *Plan) Total() int {
	total := 0
	for _, e := range p.Entries {
		total += e.Count
	}
	return total
}

// Lookup finds the entry whose track key matches key.
func (p *Plan) Lookup(key string) (PlanEntry, bool) {
	if i := p.indexOf(key); i >= 0 {
		return p.Entries[i], true
	}
	return PlanEntry{}, false
}

// Add adds n plays of track, merging into an existing entry with the same key.
func (p *Plan) Add(track Track, n int) error {
	if n <= 0 {
		return fmt.Errorf("%w: count must be positive, got %d", shared.ErrInvalidInput, n)
	}
	if err := checkTrack(track); err != nil {
		return err
	}

	if i := p.indexOf(track.Key()); i >= 0 {
		p.Entries[i].Count += n
		return nil
	}

	p.Entries = append(p.Entries, PlanEntry{ID: track.ID, Title: track.Title, Artist: track.Artist, Count: n})
	return nil
}

// SetCount replaces the count for key. A count of zero or less removes the entry.
func (p *Plan) SetCount(key string, n int) error {
	i := p.indexOf(key)
	if i < 0 {
		return fmt.Errorf("%w: %s", shared.ErrTrackNotFound, key)
	}
	if n <= 0 {
		p.removeAt(i)
		return nil
	}
	p.Entries[i].Count = n
	return nil
}

// Substitute moves n plays from the entry at oldKey to replacement; n <= 0 moves all of them.
// The old entry is dropped once it has no plays left. Returns the number of plays moved.
func (p *Plan) Substitute(oldKey string, replacement Track, n int) (int, error) {
	i := p.indexOf(oldKey)
	if i < 0 {
		return 0, fmt.Errorf("%w: %s", shared.ErrTrackNotFound, oldKey)
	}

	have := p.Entries[i].Count
	if n <= 0 {
		n = have
	}
	if n > have {
		return 0, fmt.Errorf("%w: %s only has %d plays, cannot move %d", shared.ErrInvalidInput, oldKey, have, n)
	}
	if err := checkTrack(replacement); err != nil {
		return 0, err
	}
	if replacement.Key() == oldKey {
		return 0, nil
	}

	if n == have {
		p.removeAt(i)
	} else {
		p.Entries[i].Count -= n
	}

	if err := p.Add(replacement, n); err != nil {
		return 0, err
	}
	return n, nil
}

// Remove drops the entry for key.
func (p *Plan) Remove(key string) error {
	i := p.indexOf(key)
	if i < 0 {
		return fmt.Errorf("%w: %s", shared.ErrTrackNotFound, key)
	}
	p.removeAt(i)
	return nil
}

// Validate checks the plan has a name, positive counts, and unique track keys.
func (p *Plan) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("%w: plan name is required", shared.ErrInvalidInput)
	}

	seen := make(map[string]bool, len(p.Entries))
	for _, e := range p.Entries {
		key := e.Track().Key()
		if e.Count <= 0 {
			return fmt.Errorf("%w: %s has count %d", shared.ErrInvalidInput, key, e.Count)
		}
		if seen[key] {
			return fmt.Errorf("%w: duplicate track %s", shared.ErrInvalidInput, key)
		}
		seen[key] = true
	}
	return nil
}

func checkTrack(t Track) error {
	if t.Title == "" && t.ID == "" {
		return fmt.Errorf("%w: track needs a title or an id", shared.ErrInvalidInput)
	}
	return nil
}

func (p *Plan) indexOf(key string) int {
	for i, e := range p.Entries {
		if e.Track().Key() == key {
			return i
		}
	}
	return -1
}

func (p *Plan) removeAt(i int) {
	p.Entries = append(p.Entries[:i], p.Entries[i+1:]...)
}
