package router

import (
	"sort"

	"sweet-shop/internal/transport/http/ez"
)

// prioritizer lets a module control mount order (lower first). Modules
// without it mount at 100.
type prioritizer interface{ Priority() int }

// MountAll mounts every module on the shared access groups in priority order.
func MountAll(g ez.Groups, mods ...ez.Module) {
	mods = append([]ez.Module(nil), mods...)
	sort.SliceStable(mods, func(i, j int) bool {
		return priorityOf(mods[i]) < priorityOf(mods[j])
	})
	for _, m := range mods {
		m.Mount(g)
	}
}

func priorityOf(v any) int {
	if p, ok := v.(prioritizer); ok {
		return p.Priority()
	}
	return 100
}
