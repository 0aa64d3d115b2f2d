package marrow

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// Bone is a node in a skeletal rig. A single flat struct is used for every
// bone — textured part, placeholder part, or pure pivot container — to avoid
// interface dispatch on the per-frame path.
//
// Bones form a strict ownership tree: a bone exclusively owns its children
// and a child has exactly one parent. Animation clips reference bones by Name,
// never by pointer, so Name is the join key and must be unique within a rig.
type Bone struct {
	// Identity
	Name string

	// Hierarchy
	Parent   *Bone
	children []*Bone

	// Transform (local, relative to the parent's pivot-adjusted origin)
	X, Y           float64
	Rotation       float64 // degrees
	ScaleX, ScaleY float64

	// Pivot is the normalized (0..1) anchor within the bone's visual extent
	// about which rotation and scale are applied.
	PivotX, PivotY float64

	// Depth is the signed draw order across the whole rig: lower draws first
	// (behind), higher draws later (in front). Ties break by tree-visit order.
	Depth int

	// Visible controls painting only. An invisible bone still transforms and
	// traverses its children — the root is typically an invisible pivot
	// container.
	Visible bool

	// Visual. When texture is nil the bone paints a solid placeholder
	// rectangle of PlaceholderW × PlaceholderH in PlaceholderColor.
	texture          *ebiten.Image
	PlaceholderColor Color
	PlaceholderW     float64
	PlaceholderH     float64

	// Computed during the draw pass.
	worldTransform [6]float64
}

// NewBone creates a visible bone with identity transform and the default
// placeholder visual.
func NewBone(name string) *Bone {
	return &Bone{
		Name:             name,
		ScaleX:           1,
		ScaleY:           1,
		Visible:          true,
		PlaceholderColor: ColorWhite,
		PlaceholderW:     DefaultPlaceholderSize,
		PlaceholderH:     DefaultPlaceholderSize,
	}
}

// NewContainerBone creates an invisible bone used purely as a pivot for its
// children, such as a rig root.
func NewContainerBone(name string) *Bone {
	b := NewBone(name)
	b.Visible = false
	return b
}

// --- Tree manipulation ---

// AddChild appends child to this bone's children and takes ownership.
// If child already has a parent, it is removed from that parent first.
// Panics if child is nil or child is an ancestor of this bone (cycle).
func (b *Bone) AddChild(child *Bone) {
	if child == nil {
		panic("marrow: cannot add nil child")
	}
	if isAncestor(child, b) {
		panic("marrow: adding child would create a cycle")
	}
	if child.Parent != nil {
		child.Parent.removeChildByPtr(child)
	}
	child.Parent = b
	b.children = append(b.children, child)
	if globalDebug {
		debugCheckTreeDepth(child)
	}
}

// Children returns the child list. The returned slice MUST NOT be mutated by
// the caller.
func (b *Bone) Children() []*Bone {
	return b.children
}

// NumChildren returns the number of children.
func (b *Bone) NumChildren() int {
	return len(b.children)
}

// isAncestor reports whether candidate is an ancestor of bone.
func isAncestor(candidate, bone *Bone) bool {
	for p := bone; p != nil; p = p.Parent {
		if p == candidate {
			return true
		}
	}
	return false
}

// removeChildByPtr removes child from b.children without clearing child.Parent.
// Uses copy+nil to avoid retaining a dangling pointer in the backing array.
func (b *Bone) removeChildByPtr(child *Bone) {
	for i, c := range b.children {
		if c == child {
			copy(b.children[i:], b.children[i+1:])
			b.children[len(b.children)-1] = nil
			b.children = b.children[:len(b.children)-1]
			return
		}
	}
}

// --- Transform property setters ---
//
// Pure state writes; composition into world space happens during the draw
// pass. Rotation is stored unnormalized — animation sampling keeps it in a
// sane range via shortest-path interpolation.

// SetLocalPosition sets the bone's local X and Y offset from the parent.
func (b *Bone) SetLocalPosition(x, y float64) {
	b.X = x
	b.Y = y
}

// SetRotation sets the bone's local rotation in degrees.
func (b *Bone) SetRotation(deg float64) {
	b.Rotation = deg
}

// SetScale sets the bone's independent X and Y scale factors.
func (b *Bone) SetScale(sx, sy float64) {
	b.ScaleX = sx
	b.ScaleY = sy
}

// SetPivot sets the normalized pivot within the bone's visual extent.
func (b *Bone) SetPivot(px, py float64) {
	b.PivotX = px
	b.PivotY = py
}

// SetDepth sets the bone's draw order across the rig.
func (b *Bone) SetDepth(depth int) {
	b.Depth = depth
}

// --- Visual ---

// SetTexture attaches a texture to the bone, replacing the placeholder.
// Passing nil reverts to the placeholder rectangle.
func (b *Bone) SetTexture(img *ebiten.Image) {
	b.texture = img
}

// Texture returns the bone's texture, or nil if it renders the placeholder.
func (b *Bone) Texture() *ebiten.Image {
	return b.texture
}

// LoadVisual resolves path through the loader and attaches the result.
// A miss leaves the bone on its placeholder rectangle; nothing propagates
// past this boundary as an error.
func (b *Bone) LoadVisual(loader TextureLoader, path string) {
	img, ok := loader.LoadTexture(path)
	if !ok {
		if globalDebug {
			debugLogf("texture %q not found, bone %q keeps placeholder", path, b.Name)
		}
		return
	}
	b.texture = img
}

// visualSize returns the bone's visual extent in pixels: the texture's
// intrinsic size, or the placeholder size when untextured.
func (b *Bone) visualSize() (w, h float64) {
	if b.texture != nil {
		bounds := b.texture.Bounds()
		return float64(bounds.Dx()), float64(bounds.Dy())
	}
	return b.PlaceholderW, b.PlaceholderH
}

// --- Draw command collection ---

// drawCommand is a single paint instruction emitted during rig traversal.
// Painting happens in two passes: world transforms are composed recursively,
// then a flattened command list is stable-sorted by Depth and painted.
type drawCommand struct {
	bone      *Bone
	depth     int
	treeOrder int // assigned during traversal for stable sort
}

// collectDrawCommands walks the subtree in tree order appending a command for
// every paintable bone. Invisible and zero-area bones emit nothing but their
// children are still visited.
func collectDrawCommands(b *Bone, cmds []drawCommand, treeOrder *int) []drawCommand {
	if b.Visible {
		w, h := b.visualSize()
		if w > 0 && h > 0 {
			*treeOrder++
			cmds = append(cmds, drawCommand{bone: b, depth: b.Depth, treeOrder: *treeOrder})
		}
	}
	for _, child := range b.children {
		cmds = collectDrawCommands(child, cmds, treeOrder)
	}
	return cmds
}

// paint draws a single bone using its computed world transform.
func (cmd drawCommand) paint(screen *ebiten.Image) {
	b := cmd.bone
	var op ebiten.DrawImageOptions
	if b.texture == nil {
		// Placeholder: a 1×1 white pixel scaled to the placeholder extent and
		// tinted with the placeholder color.
		op.GeoM.Scale(b.PlaceholderW, b.PlaceholderH)
		applyAffine(&op.GeoM, b.worldTransform)
		op.ColorScale.Scale(
			float32(b.PlaceholderColor.R),
			float32(b.PlaceholderColor.G),
			float32(b.PlaceholderColor.B),
			float32(b.PlaceholderColor.A),
		)
		screen.DrawImage(ensureWhitePixel(), &op)
		return
	}
	applyAffine(&op.GeoM, b.worldTransform)
	screen.DrawImage(b.texture, &op)
}

// applyAffine concatenates a [a, b, c, d, tx, ty] affine matrix onto a GeoM.
func applyAffine(g *ebiten.GeoM, m [6]float64) {
	var t ebiten.GeoM
	t.SetElement(0, 0, m[0])
	t.SetElement(1, 0, m[1])
	t.SetElement(0, 1, m[2])
	t.SetElement(1, 1, m[3])
	t.SetElement(0, 2, m[4])
	t.SetElement(1, 2, m[5])
	g.Concat(t)
}
