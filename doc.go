// Package marrow is a 2D skeletal animation library for [Ebitengine].
//
// Marrow provides the bone-tree transform model, keyframe clips, and the
// cross-fade blending engine needed to pose a rig of independently-textured
// rigid parts each frame. It is a strictly forward-kinematics poser: no
// physics, no inverse kinematics, no GPU skinning.
//
// # Quick start
//
// Build a rig out of [Bone] nodes, wrap it in a [Skeleton], register
// [Animation] clips, and tick it from your game loop:
//
//	root := marrow.NewContainerBone("root")
//	torso := marrow.NewBone("torso")
//	root.AddChild(torso)
//
//	skel := marrow.NewSkeleton(root)
//	skel.AddAnimation(idleClip)
//	skel.AddAnimation(walkClip)
//	skel.PlayAnimation("idle")
//
//	func (g *Game) Update() error        { g.skel.Update(1.0 / float64(ebiten.TPS())); return nil }
//	func (g *Game) Draw(s *ebiten.Image) { g.skel.Draw(s) }
//
// Switch clips with an immediate cut via [Skeleton.PlayAnimation], or
// cross-fade with [Skeleton.TransitionTo], which blends every bone animated
// by either clip along the shortest angular path.
//
// # Bones and visuals
//
// A [Bone] carries a local transform (position, rotation in degrees,
// non-uniform scale), a normalized pivot, and a signed depth order that
// controls paint order across the whole rig. Attach a texture with
// [Bone.LoadVisual]; a bone without one paints a solid placeholder
// rectangle, so an entirely untextured rig still renders and is useful for
// blocking out animations.
//
// # Clips
//
// An [Animation] maps bone names to time-ordered keyframe tracks. Clips
// reference bones by name rather than by pointer, so the same clip data fits
// any rig built from the same names. Author clips in code with
// [Animation.SetKeyframe], or convert a third-party export with
// [ImportAnimations], which remaps foreign bone names through an
// [AliasTable].
//
// For one-off procedural motion outside clip playback there are
// gween-backed helpers: [TweenBonePosition], [TweenBoneRotation],
// [TweenBoneScale].
//
// Marrow is single-threaded and frame-driven: one [Skeleton.Update] followed
// by one [Skeleton.Draw] per frame, from the game loop's goroutine.
//
// [Ebitengine]: https://ebitengine.org
package marrow
