package models

import (
	"fmt"
	"regexp"
	"strings"
)

// Base states.
const (
	BaseOpen     = "open"
	BaseOpenLess = "open_less"
	BaseClosed   = "closed"
)

// Base field limits.
const (
	MaxBaseNameLen = 60
	maxBaseSlugLen = 40
)

// BaseEntry is one named base with a tri-state availability status.
type BaseEntry struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	State string `json:"state"`
}

// NormalizeBaseState coerces unrecognized states to open.
func NormalizeBaseState(state string) string {
	switch state {
	case BaseOpen, BaseOpenLess, BaseClosed:
		return state
	default:
		return BaseOpen
	}
}

var baseIDStrip = regexp.MustCompile(`[^a-z0-9_\-]`)

// NormalizeBase sanitizes a loaded base record: id restricted to
// [a-z0-9_-], name clamped, state coerced to the valid enum.
func NormalizeBase(b BaseEntry, idx int) BaseEntry {
	name := CleanText(b.Name, MaxBaseNameLen)
	if name == "" {
		name = fmt.Sprintf("LooooootyBase %d", idx+1)
	}

	id := baseIDStrip.ReplaceAllString(strings.ToLower(strings.TrimSpace(b.ID)), "")
	if id == "" {
		id = fmt.Sprintf("base_%d", idx+1)
	}

	return BaseEntry{
		ID:    id,
		Name:  name,
		State: NormalizeBaseState(b.State),
	}
}

var baseSlugPattern = regexp.MustCompile(`[^a-z0-9]+`)

// MakeBaseID derives a unique id from a base name, resolving collisions
// with a numeric suffix.
func MakeBaseID(name string, bases []BaseEntry) string {
	root := strings.Trim(baseSlugPattern.ReplaceAllString(strings.ToLower(name), "_"), "_")
	root = Clamp(root, maxBaseSlugLen)
	if root == "" {
		root = "base"
	}

	used := make(map[string]struct{}, len(bases))
	for _, b := range bases {
		used[b.ID] = struct{}{}
	}

	id := root
	for n := 2; ; n++ {
		if _, taken := used[id]; !taken {
			return id
		}
		id = fmt.Sprintf("%s_%d", root, n)
	}
}
