package scene

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/df07/go-tile-raytracer/pkg/renderer"
)

// ErrUnknownScene is returned for a preset name that is not registered
var ErrUnknownScene = errors.New("unknown scene")

// SceneInfo describes a built-in preset or a mesh file that can be rendered
type SceneInfo struct {
	ID          string `json:"id"`          // Preset name or file path
	DisplayName string `json:"displayName"` // UI display name
	Description string `json:"description"` // Optional description
	Type        string `json:"type"`        // "builtin" or "mesh"
}

type preset struct {
	info  SceneInfo
	build func(camera renderer.CameraConfig) *Scene
}

var presets = []preset{
	{
		info: SceneInfo{ID: "default", DisplayName: "Default Scene", Description: "Spheres on a ground plane", Type: "builtin"},
		build: NewDefaultScene,
	},
	{
		info: SceneInfo{ID: "spheregrid", DisplayName: "Sphere Grid", Description: "Grid of rainbow-coloured spheres", Type: "builtin"},
		build: NewSphereGridScene,
	},
	{
		info: SceneInfo{ID: "mesh", DisplayName: "Triangle Meshes", Description: "Box, pyramid and icosahedron meshes", Type: "builtin"},
		build: NewMeshScene,
	},
}

// Presets returns the built-in scenes in registration order
func Presets() []SceneInfo {
	infos := make([]SceneInfo, len(presets))
	for i, p := range presets {
		infos[i] = p.info
	}
	return infos
}

// New builds the named preset for a width x height image
func New(name string, width, height int) (*Scene, error) {
	if name == "" {
		name = "default"
	}
	for _, p := range presets {
		if p.info.ID == strings.ToLower(name) {
			return p.build(renderer.CameraConfig{Width: width, Height: height}), nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownScene, name)
}

// ListMeshFiles scans dir for STL and PLY files and describes them as
// renderable scenes. A missing directory yields an empty list.
func ListMeshFiles(dir string) ([]SceneInfo, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, os.ErrNotExist) {
		return []SceneInfo{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan mesh directory: %w", err)
	}

	var scenes []SceneInfo
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".stl" && ext != ".ply" {
			continue
		}
		nameWithoutExt := strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name()))
		scenes = append(scenes, SceneInfo{
			ID:          filepath.Join(dir, entry.Name()),
			DisplayName: titleCase(nameWithoutExt),
			Description: strings.ToUpper(strings.TrimPrefix(ext, ".")) + " mesh",
			Type:        "mesh",
		})
	}

	// Sort scenes by display name
	sort.Slice(scenes, func(i, j int) bool {
		return scenes[i].DisplayName < scenes[j].DisplayName
	})
	return scenes, nil
}

// titleCase converts a filename-style string to title case
// e.g., "stanford-bunny" -> "Stanford Bunny"
func titleCase(s string) string {
	// Replace hyphens and underscores with spaces
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")

	// Title case each word
	words := strings.Fields(s)
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
	}
	return strings.Join(words, " ")
}

// mergeCamera fills the image size from overrides into a preset camera
func mergeCamera(base, overrides renderer.CameraConfig) renderer.CameraConfig {
	if overrides.Width > 0 {
		base.Width = overrides.Width
	}
	if overrides.Height > 0 {
		base.Height = overrides.Height
	}
	if overrides.VFov > 0 {
		base.VFov = overrides.VFov
	}
	return base
}
