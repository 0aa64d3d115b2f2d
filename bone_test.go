package marrow

import (
	"testing"
)

// --- Tree manipulation ---

func TestAddChildOwnership(t *testing.T) {
	parent := NewBone("parent")
	child := NewBone("child")
	parent.AddChild(child)

	if child.Parent != parent {
		t.Error("child.Parent not set")
	}
	if parent.NumChildren() != 1 || parent.Children()[0] != child {
		t.Error("child not in parent's child list")
	}
}

func TestAddChildReparents(t *testing.T) {
	a := NewBone("a")
	b := NewBone("b")
	child := NewBone("child")
	a.AddChild(child)
	b.AddChild(child)

	if child.Parent != b {
		t.Error("child should belong to b after reparent")
	}
	if a.NumChildren() != 0 {
		t.Error("a should no longer own child")
	}
	if b.NumChildren() != 1 {
		t.Error("b should own child")
	}
}

func TestAddChildNilPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic on nil child")
		}
	}()
	NewBone("parent").AddChild(nil)
}

func TestAddChildCyclePanics(t *testing.T) {
	parent := NewBone("parent")
	child := NewBone("child")
	parent.AddChild(child)

	defer func() {
		if recover() == nil {
			t.Error("expected panic on cycle")
		}
	}()
	child.AddChild(parent)
}

func TestAddChildSelfPanics(t *testing.T) {
	b := NewBone("b")
	defer func() {
		if recover() == nil {
			t.Error("expected panic on self-parenting")
		}
	}()
	b.AddChild(b)
}

// --- Setters ---

func TestSettersStoreValues(t *testing.T) {
	b := NewBone("test")

	b.SetLocalPosition(3, 4)
	if b.X != 3 || b.Y != 4 {
		t.Errorf("position = (%v, %v), want (3, 4)", b.X, b.Y)
	}

	b.SetRotation(725)
	if b.Rotation != 725 {
		t.Errorf("rotation = %v, want 725 (stored unnormalized)", b.Rotation)
	}

	b.SetScale(2, 0.5)
	if b.ScaleX != 2 || b.ScaleY != 0.5 {
		t.Errorf("scale = (%v, %v), want (2, 0.5)", b.ScaleX, b.ScaleY)
	}

	b.SetPivot(0.5, 1)
	if b.PivotX != 0.5 || b.PivotY != 1 {
		t.Errorf("pivot = (%v, %v), want (0.5, 1)", b.PivotX, b.PivotY)
	}

	b.SetDepth(-3)
	if b.Depth != -3 {
		t.Errorf("depth = %v, want -3", b.Depth)
	}
}

// --- Visuals ---

func TestVisualSizePlaceholder(t *testing.T) {
	b := NewBone("test")
	w, h := b.visualSize()
	if w != DefaultPlaceholderSize || h != DefaultPlaceholderSize {
		t.Errorf("placeholder size = (%v, %v), want (%v, %v)", w, h, DefaultPlaceholderSize, DefaultPlaceholderSize)
	}

	b.PlaceholderW = 20
	b.PlaceholderH = 30
	w, h = b.visualSize()
	if w != 20 || h != 30 {
		t.Errorf("configured placeholder size = (%v, %v), want (20, 30)", w, h)
	}
}

func TestLoadVisualMissKeepsPlaceholder(t *testing.T) {
	b := NewBone("test")
	b.LoadVisual(ImageLoader{}, "missing/part.png")
	if b.Texture() != nil {
		t.Error("missing texture should leave the bone untextured")
	}
}

func TestContainerBoneInvisible(t *testing.T) {
	root := NewContainerBone("root")
	if root.Visible {
		t.Error("container bone should be invisible")
	}
}

// --- Draw command collection ---

func TestCollectSkipsInvisibleAndZeroArea(t *testing.T) {
	root := NewContainerBone("root")
	shown := NewBone("shown")
	flat := NewBone("flat")
	flat.PlaceholderW = 0
	root.AddChild(shown)
	root.AddChild(flat)

	order := 0
	cmds := collectDrawCommands(root, nil, &order)
	if len(cmds) != 1 {
		t.Fatalf("command count = %d, want 1", len(cmds))
	}
	if cmds[0].bone != shown {
		t.Error("wrong bone collected")
	}
}

func TestCollectVisitsChildrenOfInvisible(t *testing.T) {
	root := NewContainerBone("root")
	hidden := NewContainerBone("hidden")
	leaf := NewBone("leaf")
	root.AddChild(hidden)
	hidden.AddChild(leaf)

	order := 0
	cmds := collectDrawCommands(root, nil, &order)
	if len(cmds) != 1 || cmds[0].bone != leaf {
		t.Fatal("children of invisible bones must still be collected")
	}
}

func TestDepthSortOrder(t *testing.T) {
	s := NewSkeleton(nil)
	front := NewBone("front")
	front.Depth = 5
	back := NewBone("back")
	back.Depth = -5
	mid := NewBone("mid")

	root := NewContainerBone("root")
	root.AddChild(front)
	root.AddChild(back)
	root.AddChild(mid)

	order := 0
	s.cmds = collectDrawCommands(root, s.cmds[:0], &order)
	s.sortCommands()

	want := []*Bone{back, mid, front}
	for i, cmd := range s.cmds {
		if cmd.bone != want[i] {
			t.Errorf("paint position %d = %q, want %q", i, cmd.bone.Name, want[i].Name)
		}
	}
}

func TestDepthSortTiesByTreeOrder(t *testing.T) {
	s := NewSkeleton(nil)
	root := NewContainerBone("root")
	bones := []*Bone{NewBone("a"), NewBone("b"), NewBone("c"), NewBone("d")}
	for _, b := range bones {
		root.AddChild(b) // all Depth 0
	}

	order := 0
	s.cmds = collectDrawCommands(root, s.cmds[:0], &order)
	s.sortCommands()

	for i, cmd := range s.cmds {
		if cmd.bone != bones[i] {
			t.Errorf("tie at position %d broke insertion order: got %q, want %q",
				i, cmd.bone.Name, bones[i].Name)
		}
	}
}

func TestDepthSortStableAcrossSubtrees(t *testing.T) {
	s := NewSkeleton(nil)
	root := NewContainerBone("root")
	armBack := NewBone("arm_back")
	armBack.Depth = -1
	torso := NewBone("torso")
	head := NewBone("head")
	head.Depth = 1
	armFront := NewBone("arm_front")
	armFront.Depth = 2
	root.AddChild(armBack)
	root.AddChild(torso)
	torso.AddChild(head)
	torso.AddChild(armFront)

	order := 0
	s.cmds = collectDrawCommands(root, s.cmds[:0], &order)
	s.sortCommands()

	want := []string{"arm_back", "torso", "head", "arm_front"}
	for i, cmd := range s.cmds {
		if cmd.bone.Name != want[i] {
			t.Errorf("paint position %d = %q, want %q", i, cmd.bone.Name, want[i])
		}
	}
}
