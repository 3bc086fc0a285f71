// Package assets maps narrative directives (pose, location, music cue)
// to asset files. The mapping is a precomputed manifest: each entry
// records its actual file name once, instead of probing .png/.jpg/.webp
// at display time.
package assets

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Manifest holds the pose, background and music tables. Zero-valued
// tables fall back to the built-in defaults entry by entry.
type Manifest struct {
	Poses          map[string]string `yaml:"poses"`
	Locations      map[string]string `yaml:"locations"`
	Music          map[string]string `yaml:"music"`
	EventScenes    map[string]string `yaml:"event_scenes"`
	MenuBackground string            `yaml:"menu_background"`
}

const (
	defaultPose  = "standing"
	defaultTrack = "main_theme"
)

// Default returns the built-in manifest matching the shipped asset set.
func Default() *Manifest {
	return &Manifest{
		Poses: map[string]string{
			"standing": "vova_standing.png",
			"thinking": "vova_thinking.png",
			"happy":    "vova_happy.png",
			"sad":      "vova_sad.png",
			"nervous":  "vova_nervous.png",
			"annoyed":  "vova_annoyed.png",
		},
		Locations: map[string]string{
			"entrance": "entrance.png",
			"kitchen":  "kitchen.png",
			"room":     "room.png",
			"balcony":  "balcony.png",
		},
		Music: map[string]string{
			"main_theme": "main_theme.mp3",
			"entrance":   "entrance_music.mp3",
			"kitchen":    "kitchen_music.mp3",
			"room":       "room_music.mp3",
			"balcony":    "balcony_music.mp3",
		},
		EventScenes: map[string]string{
			"kitchen/cooking": "kitchen_cooking_vova.png",
			"room/gaming":     "room_gaming_vova.png",
			"balcony/smoking": "balcony_smoking_vova.png",
		},
		MenuBackground: "menu_main.png",
	}
}

// Load reads a YAML manifest and overlays it on the defaults, so a
// manifest file only needs to list what differs.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read asset manifest: %w", err)
	}

	var overlay Manifest
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return nil, fmt.Errorf("failed to parse asset manifest: %w", err)
	}

	m := Default()
	mergeTable(m.Poses, overlay.Poses)
	mergeTable(m.Locations, overlay.Locations)
	mergeTable(m.Music, overlay.Music)
	mergeTable(m.EventScenes, overlay.EventScenes)
	if overlay.MenuBackground != "" {
		m.MenuBackground = overlay.MenuBackground
	}
	return m, nil
}

func mergeTable(dst, src map[string]string) {
	for k, v := range src {
		dst[k] = v
	}
}

// PoseSprite returns the sprite file for a pose, defaulting to the
// neutral standing pose for unknown names.
func (m *Manifest) PoseSprite(pose string) string {
	if file, ok := m.Poses[pose]; ok {
		return file
	}
	return m.Poses[defaultPose]
}

// Background returns the backdrop file for a location, defaulting to
// the entrance.
func (m *Manifest) Background(location string) string {
	if file, ok := m.Locations[location]; ok {
		return file
	}
	return m.Locations["entrance"]
}

// EventScene returns the combined scene file for a location+action
// pair, if one exists.
func (m *Manifest) EventScene(location, action string) (string, bool) {
	file, ok := m.EventScenes[location+"/"+action]
	return file, ok
}

// Track returns the music file for a cue, defaulting to the main theme.
func (m *Manifest) Track(cue string) string {
	if file, ok := m.Music[cue]; ok {
		return file
	}
	return m.Music[defaultTrack]
}
