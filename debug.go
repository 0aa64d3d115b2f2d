package marrow

import (
	"fmt"
	"os"
)

// globalDebug is a plain bool (no atomic — marrow is single-threaded).
var globalDebug bool

// SetDebug enables or disables debug diagnostics: stderr notes for missing
// textures, unknown animation names, and dropped import tracks, plus rig
// structure warnings on AddChild.
func SetDebug(enabled bool) {
	globalDebug = enabled
}

// debugLogf prints a diagnostic line to stderr. Callers gate on globalDebug.
func debugLogf(format string, args ...any) {
	_, _ = fmt.Fprintf(os.Stderr, "[marrow] "+format+"\n", args...)
}

// debugCheckTreeDepth warns on stderr if rig depth exceeds the threshold.
const debugMaxTreeDepth = 32

func debugCheckTreeDepth(b *Bone) {
	depth := 0
	for p := b; p != nil; p = p.Parent {
		depth++
	}
	if depth > debugMaxTreeDepth {
		debugLogf("warning: rig depth %d exceeds %d (bone %q)", depth, debugMaxTreeDepth, b.Name)
	}
}
