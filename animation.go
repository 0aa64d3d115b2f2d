package marrow

import (
	"math"
	"sort"
)

// Keyframe is a timestamped local-transform sample for one bone within one
// clip. Value type — tracks store keyframes directly.
type Keyframe struct {
	Time           float64
	X, Y           float64
	Rotation       float64 // degrees
	ScaleX, ScaleY float64
}

// Animation is a named clip: per-bone keyframe tracks plus duration and loop
// metadata, and a playback cursor.
//
// Tracks reference bones by name, not by pointer, so a clip is authored once
// and reused across rigs built from the same bone names. The cursor is the
// one piece of mutable playback state; a clip instance therefore belongs to
// at most one actively playing Skeleton at a time.
type Animation struct {
	Name     string
	Duration float64 // seconds
	Loop     bool

	tracks map[string][]Keyframe
	cursor float64
}

// NewAnimation creates an empty clip with the given duration and loop flag.
func NewAnimation(name string, duration float64, loop bool) *Animation {
	return &Animation{
		Name:     name,
		Duration: duration,
		Loop:     loop,
		tracks:   make(map[string][]Keyframe),
	}
}

// SetKeyframe inserts kf into the named bone's track, keeping the track
// strictly time-ordered. A keyframe at an already-present timestamp replaces
// the existing one (last write wins — tracks are built from a uniqued set of
// sample times gathered from independently-specified sources).
func (a *Animation) SetKeyframe(bone string, kf Keyframe) {
	track := a.tracks[bone]
	for i := range track {
		if track[i].Time == kf.Time {
			track[i] = kf
			return
		}
	}
	track = append(track, kf)
	sort.Slice(track, func(i, j int) bool {
		return track[i].Time < track[j].Time
	})
	a.tracks[bone] = track
}

// Track returns the named bone's keyframes and whether the clip animates that
// bone. The returned slice MUST NOT be mutated by the caller.
func (a *Animation) Track(bone string) ([]Keyframe, bool) {
	track, ok := a.tracks[bone]
	return track, ok
}

// AnimatedBones returns the names of all bones this clip animates, sorted.
func (a *Animation) AnimatedBones() []string {
	names := make([]string, 0, len(a.tracks))
	for name := range a.tracks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Reset rewinds the playback cursor to 0.
func (a *Animation) Reset() {
	a.cursor = 0
}

// Cursor returns the current playback time in seconds.
func (a *Animation) Cursor() float64 {
	return a.cursor
}

// Update advances the playback cursor by dt seconds. A looping clip wraps
// modulo Duration; a non-looping clip clamps at Duration and holds its final
// pose (there is no distinct "ended" state).
func (a *Animation) Update(dt float64) {
	a.cursor += dt
	if a.Loop && a.Duration > 0 {
		a.cursor = math.Mod(a.cursor, a.Duration)
		if a.cursor < 0 {
			a.cursor += a.Duration
		}
		return
	}
	if a.cursor > a.Duration {
		a.cursor = a.Duration
	}
	if a.cursor < 0 {
		a.cursor = 0
	}
}

// Sample returns the interpolated keyframe for the named bone at the current
// cursor, or false if the clip does not animate that bone.
func (a *Animation) Sample(bone string) (Keyframe, bool) {
	track, ok := a.tracks[bone]
	if !ok || len(track) == 0 {
		return Keyframe{}, false
	}
	return sampleTrack(track, a.cursor), true
}

// Apply writes the current sample of every track into the matching live bone
// of s. Bones the clip does not animate are left untouched, so their previous
// pose (set by an earlier clip or blend) persists.
func (a *Animation) Apply(s *Skeleton) {
	for name, track := range a.tracks {
		bone, ok := s.bones[name]
		if !ok {
			continue
		}
		kf := sampleTrack(track, a.cursor)
		bone.X = kf.X
		bone.Y = kf.Y
		bone.Rotation = kf.Rotation
		bone.ScaleX = kf.ScaleX
		bone.ScaleY = kf.ScaleY
	}
}

// sampleTrack interpolates a time-ordered track at time t. Position and scale
// interpolate linearly; rotation takes the shortest angular path. Outside the
// track's span the nearest keyframe holds, so a single-keyframe track is
// constant for every t.
func sampleTrack(track []Keyframe, t float64) Keyframe {
	if t <= track[0].Time || len(track) == 1 {
		return track[0]
	}
	last := track[len(track)-1]
	if t >= last.Time {
		return last
	}
	i := sort.Search(len(track), func(i int) bool {
		return track[i].Time > t
	})
	k0 := track[i-1]
	k1 := track[i]
	u := (t - k0.Time) / (k1.Time - k0.Time)
	return Keyframe{
		Time:     t,
		X:        lerp(k0.X, k1.X, u),
		Y:        lerp(k0.Y, k1.Y, u),
		Rotation: lerpAngle(k0.Rotation, k1.Rotation, u),
		ScaleX:   lerp(k0.ScaleX, k1.ScaleX, u),
		ScaleY:   lerp(k0.ScaleY, k1.ScaleY, u),
	}
}
