package stories

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"strings"
)

//go:embed *.json
var StoriesFS embed.FS

// Story lists the entities that make up one playable story. Scene names in
// dialogue options refer to the Name of another entry.
type Story struct {
	Name     string   `json:"name"`
	Entities []Entity `json:"entities"`
}

// Entity places a prefab in the story. Name and Active override the prefab's
// scene_node values when set.
type Entity struct {
	Prefab string `json:"prefab"`
	Name   string `json:"name,omitempty"`
	Active *bool  `json:"active,omitempty"`
}

// LoadStoryFromFS reads stories/<name>.json; the extension is optional.
func LoadStoryFromFS(name string) (*Story, error) {
	file := strings.TrimSpace(name)
	if file == "" {
		return nil, fmt.Errorf("read story: empty name")
	}
	if !strings.HasSuffix(file, ".json") {
		file += ".json"
	}
	data, err := fs.ReadFile(StoriesFS, file)
	if err != nil {
		return nil, fmt.Errorf("read story: %w", err)
	}
	return ParseStory(data)
}

func ParseStory(data []byte) (*Story, error) {
	var s Story
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("unmarshal story: %w", err)
	}
	for i, e := range s.Entities {
		if strings.TrimSpace(e.Prefab) == "" {
			return nil, fmt.Errorf("story %q: entity %d has no prefab", s.Name, i)
		}
	}
	return &s, nil
}
