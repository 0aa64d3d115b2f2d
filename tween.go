package marrow

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// BoneTween animates up to 4 float64 fields on a Bone simultaneously, for
// one-off procedural motion outside clip playback (recoil, lean, squash).
// Create one via the convenience constructors (TweenBonePosition,
// TweenBoneRotation, TweenBoneScale) and call Update(dt) each frame.
//
// There is no global animation manager — users call Update themselves.
type BoneTween struct {
	tweens [4]*gween.Tween
	count  int
	fields [4]*float64
	Done   bool
}

// Update advances all tweens by dt seconds and writes values to the target
// fields. Once every tween has finished, Done is set and further calls are
// no-ops.
func (g *BoneTween) Update(dt float32) {
	if g.Done {
		return
	}
	allDone := true
	for i := 0; i < g.count; i++ {
		val, finished := g.tweens[i].Update(dt)
		*g.fields[i] = float64(val)
		if !finished {
			allDone = false
		}
	}
	g.Done = allDone
}

// TweenBonePosition creates a BoneTween that animates bone.X and bone.Y to
// the given target offsets over the specified duration using the easing
// function.
func TweenBonePosition(bone *Bone, toX, toY float64, duration float32, fn ease.TweenFunc) *BoneTween {
	g := &BoneTween{count: 2}
	g.tweens[0] = gween.New(float32(bone.X), float32(toX), duration, fn)
	g.tweens[1] = gween.New(float32(bone.Y), float32(toY), duration, fn)
	g.fields[0] = &bone.X
	g.fields[1] = &bone.Y
	return g
}

// TweenBoneRotation creates a BoneTween that animates bone.Rotation to the
// target angle in degrees along the shortest angular path.
func TweenBoneRotation(bone *Bone, to float64, duration float32, fn ease.TweenFunc) *BoneTween {
	// Retarget to the nearest coterminal angle so the tween never spins the
	// long way around.
	target := bone.Rotation + angleDelta(bone.Rotation, to)
	g := &BoneTween{count: 1}
	g.tweens[0] = gween.New(float32(bone.Rotation), float32(target), duration, fn)
	g.fields[0] = &bone.Rotation
	return g
}

// TweenBoneScale creates a BoneTween that animates bone.ScaleX and bone.ScaleY
// to the given target factors over the specified duration.
func TweenBoneScale(bone *Bone, toSX, toSY float64, duration float32, fn ease.TweenFunc) *BoneTween {
	g := &BoneTween{count: 2}
	g.tweens[0] = gween.New(float32(bone.ScaleX), float32(toSX), duration, fn)
	g.tweens[1] = gween.New(float32(bone.ScaleY), float32(toSY), duration, fn)
	g.fields[0] = &bone.ScaleX
	g.fields[1] = &bone.ScaleY
	return g
}
