package shared

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestNormalizeTrackKey(t *testing.T) {
	tc := []struct {
		name   string
		title  string
		artist string
		want   string
	}{
		{
			name:   "basic normalization",
			title:  "Song Title",
			artist: "Artist Name",
			want:   "song title|artist name",
		},
		{
			name:   "extra whitespace",
			title:  "  Song   Title  ",
			artist: "  Artist   Name  ",
			want:   "song title|artist name",
		},
		{
			name:   "mixed case",
			title:  "SoNg TiTlE",
			artist: "ArTiSt NaMe",
			want:   "song title|artist name",
		},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeTrackKey(tt.title, tt.artist)
			if got != tt.want {
				t.Errorf("NormalizeTrackKey() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := WithLogger(NewLogger(&buf), "plan", "gym")
	SetLogLevel(logger, log.DebugLevel)

	logger.Debug("scheduling")

	out := buf.String()
	if !strings.Contains(out, "scheduling") || !strings.Contains(out, "plan=gym") {
		t.Errorf("unexpected log output: %q", out)
	}
}

func TestHelpers(t *testing.T) {
	t.Run("GenerateID", func(t *testing.T) {
		a, b := GenerateID(), GenerateID()
		if a == "" || a == b {
			t.Errorf("expected distinct ids, got %q and %q", a, b)
		}
	})

	t.Run("MarshalJSON", func(t *testing.T) {
		compact, err := MarshalJSON(map[string]int{"gap": 3}, false)
		if err != nil || string(compact) != `{"gap":3}` {
			t.Errorf("unexpected compact JSON %q (%v)", compact, err)
		}
		pretty, err := MarshalJSON(map[string]int{"gap": 3}, true)
		if err != nil || !strings.Contains(string(pretty), "\n  \"gap\": 3") {
			t.Errorf("unexpected pretty JSON %q (%v)", pretty, err)
		}
	})

	t.Run("ResolveSeed", func(t *testing.T) {
		if ResolveSeed(7) != 7 {
			t.Error("explicit seed should be kept")
		}
		if ResolveSeed(0) == 0 {
			t.Error("zero seed should be replaced")
		}
	})
}
