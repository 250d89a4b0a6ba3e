package scene

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/df07/go-fractal-explorer/pkg/core"
)

// SceneInfo represents a discovered scene with its metadata
type SceneInfo struct {
	ID          string `json:"id"`          // Unique identifier
	Name        string `json:"name"`        // Scene name
	DisplayName string `json:"displayName"` // UI display name
	Description string `json:"description"` // Optional description
	Group       string `json:"group"`       // Grouping category
	Type        string `json:"type"`        // "builtin" or "preset"
	FilePath    string `json:"filePath"`    // Path to preset file (preset type only)
	Variant     string `json:"variant"`     // Fractal variant the scene renders
}

// SceneGroup represents a group of related scenes
type SceneGroup struct {
	Name   string      `json:"name"`
	Scenes []SceneInfo `json:"scenes"`
}

// ScenesResponse represents the complete response for /api/scenes
type ScenesResponse struct {
	Groups []SceneGroup `json:"groups"`
}

const (
	builtinGroup = "Built-in Scenes"
	presetGroup  = "Presets"
	presetPrefix = "preset:"
)

// PresetDirs lists the directories searched for preset files, in order
var PresetDirs = []string{"presets", "../presets"}

func findPresetDir() string {
	for _, path := range PresetDirs {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			return path
		}
	}
	return ""
}

// ListPresets scans the presets directory and returns discovered presets
func ListPresets() ([]SceneInfo, error) {
	dir := findPresetDir()
	if dir == "" {
		return []SceneInfo{}, nil
	}

	files, err := filepath.Glob(filepath.Join(dir, "*.toml"))
	if err != nil {
		return nil, fmt.Errorf("failed to scan presets directory: %w", err)
	}

	scenes := []SceneInfo{}
	for _, filePath := range files {
		info, err := PresetMetadata(filePath)
		if err != nil {
			// Skip broken presets but keep listing the rest
			core.Logger().Warn("failed to parse preset", "path", filePath, "error", err)
			continue
		}
		scenes = append(scenes, info)
	}

	sort.Slice(scenes, func(i, j int) bool {
		return scenes[i].DisplayName < scenes[j].DisplayName
	})
	return scenes, nil
}

// PresetMetadata loads a preset file and describes it
func PresetMetadata(filePath string) (SceneInfo, error) {
	nameWithoutExt := strings.TrimSuffix(filepath.Base(filePath), filepath.Ext(filePath))
	info := SceneInfo{
		ID:          presetPrefix + nameWithoutExt,
		Name:        titleCase(nameWithoutExt),
		DisplayName: titleCase(nameWithoutExt),
		Group:       presetGroup,
		Type:        "preset",
		FilePath:    filePath,
	}

	p, err := LoadPreset(filePath)
	if err != nil {
		return info, err
	}
	v, err := ParseVariant(p.Variant)
	if err != nil {
		return info, err
	}

	info.Variant = string(v)
	if p.Name != "" {
		info.Name = p.Name
	}
	if p.Group != "" {
		info.Group = p.Group
	}
	info.Description = p.Description
	info.DisplayName = fmt.Sprintf("%s - %s", info.Name, v)
	return info, nil
}

// BuiltinScenes describes the registered variants
func BuiltinScenes() []SceneInfo {
	var scenes []SceneInfo
	for _, v := range Variants() {
		s, _ := New(v)
		scenes = append(scenes, SceneInfo{
			ID:          string(v),
			Name:        s.Name,
			DisplayName: s.Name,
			Description: s.Description,
			Group:       builtinGroup,
			Type:        "builtin",
			Variant:     string(v),
		})
	}
	return scenes
}

// ListAllScenes returns both built-in variants and presets, grouped by category
func ListAllScenes() (ScenesResponse, error) {
	var response ScenesResponse

	presets, err := ListPresets()
	if err != nil {
		return response, fmt.Errorf("failed to list presets: %w", err)
	}

	groupMap := make(map[string][]SceneInfo)
	for _, s := range append(BuiltinScenes(), presets...) {
		groupMap[s.Group] = append(groupMap[s.Group], s)
	}

	// Built-in first, then alphabetical
	var groupNames []string
	for groupName := range groupMap {
		if groupName != builtinGroup {
			groupNames = append(groupNames, groupName)
		}
	}
	sort.Strings(groupNames)

	if builtins, exists := groupMap[builtinGroup]; exists {
		response.Groups = append(response.Groups, SceneGroup{Name: builtinGroup, Scenes: builtins})
	}
	for _, groupName := range groupNames {
		response.Groups = append(response.Groups, SceneGroup{Name: groupName, Scenes: groupMap[groupName]})
	}

	return response, nil
}

// Resolve turns a scene id into a scene. Accepted ids are variant names
// ("orbit"), preset ids ("preset:ember") and paths to .toml files.
func Resolve(id string) (*Scene, error) {
	if v, err := ParseVariant(id); err == nil {
		return New(v)
	}

	path, err := PresetPath(id)
	if err != nil {
		return nil, err
	}
	p, err := LoadPreset(path)
	if err != nil {
		return nil, err
	}
	return p.Build()
}

// PresetPath returns the file behind a preset id ("preset:ember") or .toml path
func PresetPath(id string) (string, error) {
	if name, ok := strings.CutPrefix(id, presetPrefix); ok {
		dir := findPresetDir()
		if dir == "" {
			return "", fmt.Errorf("preset %q: no presets directory", name)
		}
		return filepath.Join(dir, name+".toml"), nil
	}
	if filepath.Ext(id) != ".toml" {
		return "", fmt.Errorf("%w: %q", ErrUnknownVariant, id)
	}
	return id, nil
}

// titleCase converts a filename-style string to title case
// e.g., "deep-cavern" -> "Deep Cavern"
func titleCase(s string) string {
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")

	words := strings.Fields(s)
	for i, word := range words {
		if len(word) > 0 {
			words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
		}
	}

	return strings.Join(words, " ")
}
