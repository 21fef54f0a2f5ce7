package models

// Playlist is a scheduled plan: tracks in play order plus the settings that produced them.
type Playlist struct {
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Mode        string  `json:"mode"`
	Gap         int     `json:"gap"`
	Fallback    bool    `json:"fallback"`
	Seed        int64   `json:"seed,omitempty"`
	Tracks      []Track `json:"tracks"`
}

// Labels returns the display label of every track, in order.
func (p *Playlist) Labels() []string {
	labels := make([]string, len(p.Tracks))
	for i, t := range p.Tracks {
		labels[i] = t.Label()
	}
	return labels
}

// Keys returns the scheduling key of every track, in order.
func (p *Playlist) Keys() []string {
	keys := make([]string, len(p.Tracks))
	for i, t := range p.Tracks {
		keys[i] = t.Key()
	}
	return keys
}
