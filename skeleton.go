package marrow

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

const defaultCommandCap = 64

// Skeleton owns a bone tree, a library of named clips, and the playback state
// that drives the rig each frame: one current clip and, while cross-fading,
// one next clip with a blend timer.
//
// The frame contract is one Update(dt) followed by one Draw per rendered
// frame, from the same goroutine as the rest of the game loop. There is no
// locking because there is no concurrent access.
type Skeleton struct {
	root  *Bone
	bones map[string]*Bone // derived name index, rebuilt on SetRoot

	animations map[string]*Animation

	// Playback state. At most one clip is current and at most one is next;
	// outside a blend, next and blend are nil.
	current *Animation
	next    *Animation
	blend   *gween.Tween

	// BlendDuration is the cross-fade length used by TransitionTo when the
	// caller passes a non-positive duration.
	BlendDuration float64

	// World transform state consumed by Draw.
	X, Y  float64
	Scale float64
	FlipX bool

	// Reused draw buffers.
	cmds    []drawCommand
	sortBuf []drawCommand
}

// NewSkeleton creates a skeleton rooted at root. Pass nil to attach a root
// later via SetRoot.
func NewSkeleton(root *Bone) *Skeleton {
	s := &Skeleton{
		animations:    make(map[string]*Animation),
		BlendDuration: DefaultBlendDuration,
		Scale:         1,
		cmds:          make([]drawCommand, 0, defaultCommandCap),
		sortBuf:       make([]drawCommand, 0, defaultCommandCap),
	}
	s.SetRoot(root)
	return s
}

// SetRoot replaces the skeleton's bone tree and rebuilds the name index.
// The index is a derived cache over the tree, never a second source of truth.
func (s *Skeleton) SetRoot(root *Bone) {
	s.root = root
	s.bones = make(map[string]*Bone)
	if root != nil {
		indexBones(root, s.bones)
	}
}

func indexBones(b *Bone, index map[string]*Bone) {
	index[b.Name] = b
	for _, child := range b.children {
		indexBones(child, index)
	}
}

// Root returns the skeleton's root bone, or nil.
func (s *Skeleton) Root() *Bone {
	return s.root
}

// AddBone attaches bone under the named parent and indexes it. Returns false
// without modifying the tree if the parent name is unknown — callers
// routinely probe for optional attachment points.
func (s *Skeleton) AddBone(parentName string, bone *Bone) bool {
	parent, ok := s.bones[parentName]
	if !ok {
		return false
	}
	parent.AddChild(bone)
	indexBones(bone, s.bones)
	return true
}

// FindBone returns the named bone, or false if the rig has no bone by that
// name.
func (s *Skeleton) FindBone(name string) (*Bone, bool) {
	b, ok := s.bones[name]
	return b, ok
}

// AddAnimation registers a clip in the skeleton's library, replacing any
// previous clip of the same name.
func (s *Skeleton) AddAnimation(a *Animation) {
	if a == nil {
		return
	}
	s.animations[a.Name] = a
}

// --- Playback state machine: Idle -> Playing -> Blending -> Playing ---

// PlayAnimation cuts immediately to the named clip: its cursor resets and any
// pending transition is discarded. An unknown name is a no-op — the current
// clip, if any, keeps playing.
func (s *Skeleton) PlayAnimation(name string) {
	a, ok := s.animations[name]
	if !ok {
		if globalDebug {
			debugLogf("unknown animation %q ignored", name)
		}
		return
	}
	a.Reset()
	s.current = a
	s.next = nil
	s.blend = nil
}

// TransitionTo starts a cross-fade from the current clip to the named clip
// over blendDuration seconds (BlendDuration when non-positive). With no clip
// playing it behaves like PlayAnimation. Requesting the clip that is already
// current — or already the transition target — is a no-op, so repeated calls
// from entity logic cannot restart-jitter the blend. An unknown name is a
// no-op.
func (s *Skeleton) TransitionTo(name string, blendDuration float64) {
	a, ok := s.animations[name]
	if !ok {
		if globalDebug {
			debugLogf("unknown animation %q ignored", name)
		}
		return
	}
	if s.current == nil {
		s.PlayAnimation(name)
		return
	}
	if s.current == a || s.next == a {
		return
	}
	if blendDuration <= 0 {
		blendDuration = s.BlendDuration
	}
	a.Reset()
	s.next = a
	s.blend = gween.New(0, 1, float32(blendDuration), ease.Linear)
}

// IsPlayingAnimation reports whether the named clip is the current one.
// During a blend the outgoing clip is still current; the target becomes
// current only once the blend completes.
func (s *Skeleton) IsPlayingAnimation(name string) bool {
	return s.current != nil && s.current.Name == name
}

// Update advances playback by dt seconds: the current clip's pose is applied
// unconditionally, then, while blending, bones animated by either clip are
// overwritten with the weighted mix. When the blend timer completes, next
// becomes current.
//
// Applying the current pose first and only overwriting blended bones means a
// bone animated by neither clip keeps whatever pose it last had.
func (s *Skeleton) Update(dt float64) {
	if s.current == nil {
		return
	}
	s.current.Update(dt)
	s.current.Apply(s)

	if s.next == nil {
		return
	}
	s.next.Update(dt)
	t, finished := s.blend.Update(float32(dt))
	s.applyBlend(float64(t))
	if finished {
		s.current = s.next
		s.next = nil
		s.blend = nil
	}
}

// applyBlend writes the weighted mix of the current and next clips' poses
// into every bone animated by either clip. When only one clip animates a
// bone, the bone's live pose stands in for the silent side so the blend still
// moves it smoothly instead of snapping.
func (s *Skeleton) applyBlend(t float64) {
	for name := range s.current.tracks {
		s.blendBone(name, t)
	}
	for name := range s.next.tracks {
		if _, both := s.current.tracks[name]; both {
			continue // already blended in the first pass
		}
		s.blendBone(name, t)
	}
}

func (s *Skeleton) blendBone(name string, t float64) {
	bone, ok := s.bones[name]
	if !ok {
		return
	}
	from, ok := s.current.Sample(name)
	if !ok {
		from = livePose(bone)
	}
	to, ok := s.next.Sample(name)
	if !ok {
		to = livePose(bone)
	}
	bone.X = lerp(from.X, to.X, t)
	bone.Y = lerp(from.Y, to.Y, t)
	bone.Rotation = lerpAngle(from.Rotation, to.Rotation, t)
	bone.ScaleX = lerp(from.ScaleX, to.ScaleX, t)
	bone.ScaleY = lerp(from.ScaleY, to.ScaleY, t)
}

// livePose snapshots a bone's current local transform as a keyframe.
func livePose(b *Bone) Keyframe {
	return Keyframe{
		X:        b.X,
		Y:        b.Y,
		Rotation: b.Rotation,
		ScaleX:   b.ScaleX,
		ScaleY:   b.ScaleY,
	}
}

// --- World transform state ---

// SetPosition sets the skeleton's world position.
func (s *Skeleton) SetPosition(x, y float64) {
	s.X = x
	s.Y = y
}

// SetScale sets the skeleton's uniform world scale.
func (s *Skeleton) SetScale(scale float64) {
	s.Scale = scale
}

// SetFlipX mirrors the rig horizontally about its world position.
func (s *Skeleton) SetFlipX(flip bool) {
	s.FlipX = flip
}

// rootTransform builds the world matrix from position, uniform scale, and
// horizontal flip.
func (s *Skeleton) rootTransform() [6]float64 {
	sx := s.Scale
	if s.FlipX {
		sx = -sx
	}
	return [6]float64{sx, 0, 0, s.Scale, s.X, s.Y}
}

// --- Draw ---

// Draw paints the rig in two passes: world transforms are composed root to
// leaf, then a flattened command list is stable-sorted by bone depth and
// painted back to front. Paint order across the whole tree follows Depth,
// not traversal order.
func (s *Skeleton) Draw(screen *ebiten.Image) {
	if s.root == nil {
		return
	}
	updateWorldTransforms(s.root, s.rootTransform())

	s.cmds = s.cmds[:0]
	treeOrder := 0
	s.cmds = collectDrawCommands(s.root, s.cmds, &treeOrder)
	s.sortCommands()

	for _, cmd := range s.cmds {
		cmd.paint(screen)
	}
}

// commandLessOrEqual returns true if a should sort before or at the same
// position as b. Using <= for treeOrder ensures stability.
func commandLessOrEqual(a, b drawCommand) bool {
	if a.depth != b.depth {
		return a.depth < b.depth
	}
	return a.treeOrder <= b.treeOrder
}

// sortCommands sorts s.cmds in-place using s.sortBuf as scratch space.
// Bottom-up merge sort: zero allocations after the sort buffer reaches
// high-water mark.
func (s *Skeleton) sortCommands() {
	n := len(s.cmds)
	if n <= 1 {
		return
	}
	if cap(s.sortBuf) < n {
		s.sortBuf = make([]drawCommand, n)
	}
	s.sortBuf = s.sortBuf[:n]

	a := s.cmds
	b := s.sortBuf
	swapped := false

	for width := 1; width < n; width *= 2 {
		for i := 0; i < n; i += 2 * width {
			lo := i
			mid := lo + width
			if mid > n {
				mid = n
			}
			hi := lo + 2*width
			if hi > n {
				hi = n
			}
			mergeRun(a, b, lo, mid, hi)
		}
		a, b = b, a
		swapped = !swapped
	}

	if swapped {
		copy(s.cmds, s.sortBuf)
	}
}

// mergeRun merges two sorted runs [lo, mid) and [mid, hi) from src into dst.
func mergeRun(src, dst []drawCommand, lo, mid, hi int) {
	i, j, k := lo, mid, lo
	for i < mid && j < hi {
		if commandLessOrEqual(src[i], src[j]) {
			dst[k] = src[i]
			i++
		} else {
			dst[k] = src[j]
			j++
		}
		k++
	}
	for i < mid {
		dst[k] = src[i]
		i++
		k++
	}
	for j < hi {
		dst[k] = src[j]
		j++
		k++
	}
}
