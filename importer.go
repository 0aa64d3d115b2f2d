package marrow

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"

	"gopkg.in/yaml.v3"
)

// This file is the animation authoring boundary: it turns a loosely-typed
// third-party export into fully-built Animation clips ready for
// Skeleton.AddAnimation.
//
// Export shape:
//
//	{
//	  "clips": {
//	    "walk": {
//	      "loop": true,
//	      "duration": 0.8,
//	      "bones": {
//	        "upper_arm.L": {
//	          "position": {"0.0": [0, 1.2], "0.4": [0.5, 1.0]},
//	          "rotation": {"0.0": 0.0, "0.4": 0.35},
//	          "scale":    {"0.0": [1, 1]}
//	        }
//	      }
//	    }
//	  }
//	}
//
// Channel maps are keyed by decimal timestamp strings. The exported vertical
// axis points up, so Y is sign-inverted on import, and the exported roll
// angle (radians) becomes the single 2D rotation (degrees).

// AliasTable remaps foreign bone names onto canonical rig names. The mapping
// is many-to-one; names with no entry pass through unchanged, so data under
// an unmapped name is stored rather than dropped.
type AliasTable map[string]string

// LoadAliasTable parses a YAML alias table:
//
//	aliases:
//	  upper_arm.L: arm_left
//	  lower_arm.L: arm_left
func LoadAliasTable(data []byte) (AliasTable, error) {
	var doc struct {
		Aliases map[string]string `yaml:"aliases"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse alias table: %w", err)
	}
	return AliasTable(doc.Aliases), nil
}

// Resolve returns the canonical name for a foreign bone name, or the name
// itself when no alias exists.
func (t AliasTable) Resolve(name string) string {
	if canonical, ok := t[name]; ok {
		return canonical
	}
	return name
}

// --- Export structure ---

type exportFile struct {
	Clips map[string]exportClip `json:"clips"`
}

type exportClip struct {
	Loop     bool    `json:"loop"`
	Duration float64 `json:"duration"`
	// Per-bone blocks stay raw so one malformed block skips only that bone's
	// track, not the whole clip.
	Bones map[string]json.RawMessage `json:"bones"`
}

type exportTrack struct {
	Position map[string][]float64 `json:"position"`
	Rotation map[string]float64   `json:"rotation"`
	Scale    map[string][]float64 `json:"scale"`
}

// channelSample is one timestamped value within a single channel.
type channelSample struct {
	time  float64
	value [2]float64
}

// ImportAnimations parses an animation export and returns the built clips,
// sorted by name. aliases may be nil. An unparsable top level is an error;
// a malformed per-bone keyframe block merely omits that bone's track.
func ImportAnimations(data []byte, aliases AliasTable) ([]*Animation, error) {
	var file exportFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse animation export: %w", err)
	}

	clips := make([]*Animation, 0, len(file.Clips))
	for name, clip := range file.Clips {
		anim := NewAnimation(name, clip.Duration, clip.Loop)
		for boneName, raw := range clip.Bones {
			canonical := aliases.Resolve(boneName)
			if err := importTrack(anim, canonical, raw); err != nil {
				if globalDebug {
					debugLogf("clip %q: dropping track %q: %v", name, boneName, err)
				}
			}
		}
		clips = append(clips, anim)
	}

	sort.Slice(clips, func(i, j int) bool {
		return clips[i].Name < clips[j].Name
	})
	return clips, nil
}

// importTrack parses one bone's channel maps and emits a keyframe for every
// unique timestamp across the three channels. A channel with no sample at a
// given time contributes its own linearly interpolated value there, so
// independently-authored channels merge without stair-stepping.
func importTrack(anim *Animation, bone string, raw json.RawMessage) error {
	var track exportTrack
	if err := json.Unmarshal(raw, &track); err != nil {
		return err
	}

	position, err := parsePairChannel(track.Position)
	if err != nil {
		return fmt.Errorf("position: %w", err)
	}
	rotation, err := parseScalarChannel(track.Rotation)
	if err != nil {
		return fmt.Errorf("rotation: %w", err)
	}
	scale, err := parsePairChannel(track.Scale)
	if err != nil {
		return fmt.Errorf("scale: %w", err)
	}

	times := unionTimes(position, rotation, scale)
	if len(times) == 0 {
		return fmt.Errorf("no keyframes")
	}

	for _, t := range times {
		pos := sampleChannel(position, t, [2]float64{0, 0})
		rot := sampleChannel(rotation, t, [2]float64{0, 0})
		scl := sampleChannel(scale, t, [2]float64{1, 1})
		anim.SetKeyframe(bone, Keyframe{
			Time: t,
			X:    pos[0],
			// Exported vertical axis points up; local Y points down.
			Y:        -pos[1],
			Rotation: rot[0] * 180 / math.Pi,
			ScaleX:   scl[0],
			ScaleY:   scl[1],
		})
	}
	return nil
}

// parsePairChannel converts a {"0.25": [x, y]} map into time-ordered samples.
func parsePairChannel(channel map[string][]float64) ([]channelSample, error) {
	samples := make([]channelSample, 0, len(channel))
	for stamp, v := range channel {
		t, err := strconv.ParseFloat(stamp, 64)
		if err != nil {
			return nil, fmt.Errorf("bad timestamp %q: %w", stamp, err)
		}
		if len(v) < 2 {
			return nil, fmt.Errorf("timestamp %q: want 2 components, got %d", stamp, len(v))
		}
		samples = append(samples, channelSample{time: t, value: [2]float64{v[0], v[1]}})
	}
	sortSamples(samples)
	return samples, nil
}

// parseScalarChannel converts a {"0.25": angle} map into time-ordered samples
// with the scalar in value[0].
func parseScalarChannel(channel map[string]float64) ([]channelSample, error) {
	samples := make([]channelSample, 0, len(channel))
	for stamp, v := range channel {
		t, err := strconv.ParseFloat(stamp, 64)
		if err != nil {
			return nil, fmt.Errorf("bad timestamp %q: %w", stamp, err)
		}
		samples = append(samples, channelSample{time: t, value: [2]float64{v, 0}})
	}
	sortSamples(samples)
	return samples, nil
}

func sortSamples(samples []channelSample) {
	sort.Slice(samples, func(i, j int) bool {
		return samples[i].time < samples[j].time
	})
}

// unionTimes gathers the unique, sorted set of timestamps across channels.
func unionTimes(channels ...[]channelSample) []float64 {
	seen := make(map[float64]struct{})
	for _, channel := range channels {
		for _, s := range channel {
			seen[s.time] = struct{}{}
		}
	}
	times := make([]float64, 0, len(seen))
	for t := range seen {
		times = append(times, t)
	}
	sort.Float64s(times)
	return times
}

// sampleChannel evaluates a channel at time t: linear interpolation between
// bracketing samples, clamped to the nearest sample outside the channel's
// span, and fallback when the channel is empty.
func sampleChannel(samples []channelSample, t float64, fallback [2]float64) [2]float64 {
	if len(samples) == 0 {
		return fallback
	}
	if t <= samples[0].time || len(samples) == 1 {
		return samples[0].value
	}
	last := samples[len(samples)-1]
	if t >= last.time {
		return last.value
	}
	i := sort.Search(len(samples), func(i int) bool {
		return samples[i].time > t
	})
	s0 := samples[i-1]
	s1 := samples[i]
	u := (t - s0.time) / (s1.time - s0.time)
	return [2]float64{
		lerp(s0.value[0], s1.value[0], u),
		lerp(s0.value[1], s1.value[1], u),
	}
}
