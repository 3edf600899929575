package infmirror

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/esimov/infmirror/geom"
)

// sceneFile is the on-disk layout of a scene, e.g.:
//
//	iterations = 6
//	filter = "lanczos"
//	corners = [[120, 80], [310, 95], [300, 260], [115, 250]]
//
//	[mask]
//	shape = [[100, 60], [330, 70], [320, 280], [90, 270]]
//	mode = "hermite"
//
//	[face]
//	enabled = true
//	cascade = "data/facefinder"
type sceneFile struct {
	Iterations int         `toml:"iterations"`
	Filter     string      `toml:"filter"`
	Merge      string      `toml:"merge"`
	Backend    string      `toml:"backend"`
	Corners    [][]float64 `toml:"corners"`
	Mask       struct {
		Path  string      `toml:"path"`
		Shape [][]float64 `toml:"shape"`
		Mode  string      `toml:"mode"`
	} `toml:"mask"`
	Face struct {
		Enabled bool    `toml:"enabled"`
		Cascade string  `toml:"cascade"`
		Angle   float64 `toml:"angle"`
	} `toml:"face"`
}

// Scene is a decoded scene file. Only the keys present in the file are applied.
type Scene struct {
	raw  sceneFile
	meta toml.MetaData
}

// LoadScene decodes the scene file found at path.
func LoadScene(path string) (*Scene, error) {
	s := &Scene{}
	meta, err := toml.DecodeFile(path, &s.raw)
	if err != nil {
		return nil, fmt.Errorf("load scene: %w", err)
	}
	s.meta = meta

	return s, nil
}

// ParseScene decodes a scene from its textual form.
func ParseScene(data string) (*Scene, error) {
	s := &Scene{}
	meta, err := toml.Decode(data, &s.raw)
	if err != nil {
		return nil, fmt.Errorf("parse scene: %w", err)
	}
	s.meta = meta

	return s, nil
}

// Apply copies the scene settings into the processor.
func (s *Scene) Apply(p *Processor) error {
	if undecoded := s.meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return fmt.Errorf("unknown scene keys: %s", strings.Join(keys, ", "))
	}

	if s.meta.IsDefined("iterations") {
		if s.raw.Iterations < 0 {
			return fmt.Errorf("iterations must be non negative, got %d", s.raw.Iterations)
		}
		p.Iterations = s.raw.Iterations
	}
	if s.meta.IsDefined("filter") {
		if _, err := ParseFilter(s.raw.Filter); err != nil {
			return err
		}
		p.Filter = strings.TrimSpace(s.raw.Filter)
	}
	if s.meta.IsDefined("merge") {
		p.Merge = strings.TrimSpace(s.raw.Merge)
	}
	if s.meta.IsDefined("backend") {
		p.Backend = strings.TrimSpace(s.raw.Backend)
	}
	if s.meta.IsDefined("corners") {
		pts, err := scenePoints("corners", s.raw.Corners)
		if err != nil {
			return err
		}
		if len(pts) != 4 {
			return fmt.Errorf("%w: scene lists %d", ErrInvalidCornerCount, len(pts))
		}
		p.Corners = pts
	}

	if s.meta.IsDefined("mask", "path") {
		p.MaskPath = strings.TrimSpace(s.raw.Mask.Path)
	}
	if s.meta.IsDefined("mask", "shape") {
		pts, err := scenePoints("mask.shape", s.raw.Mask.Shape)
		if err != nil {
			return err
		}
		p.Shape = pts
	}
	if s.meta.IsDefined("mask", "mode") {
		mode, err := geom.ParseMode(s.raw.Mask.Mode)
		if err != nil {
			return err
		}
		p.ShapeMode = mode
	}

	if s.meta.IsDefined("face", "enabled") {
		p.FaceDetect = s.raw.Face.Enabled
	}
	if s.meta.IsDefined("face", "cascade") {
		p.CascadePath = strings.TrimSpace(s.raw.Face.Cascade)
	}
	if s.meta.IsDefined("face", "angle") {
		p.FaceAngle = s.raw.Face.Angle
	}

	return nil
}

func scenePoints(key string, raw [][]float64) ([]geom.Point, error) {
	pts := make([]geom.Point, 0, len(raw))
	for i, xy := range raw {
		if len(xy) != 2 {
			return nil, fmt.Errorf("%s: point %d must have exactly 2 coordinates, got %d", key, i, len(xy))
		}
		pts = append(pts, geom.Pt(xy[0], xy[1]))
	}
	return pts, nil
}
