package reader

import (
	"errors"
	"fmt"
	"strings"
)

var rootAliasMap = map[string][]string{
	"HKEY_LOCAL_MACHINE":  {"HKLM"},
	"HKEY_CLASSES_ROOT":   {"HKCR"},
	"HKEY_CURRENT_USER":   {"HKCU"},
	"HKEY_USERS":          {"HKU"},
	"HKEY_CURRENT_CONFIG": {"HKCC"},
}

var rootAliasList = []string{
	"HKEY_LOCAL_MACHINE", "HKLM",
	"HKEY_CLASSES_ROOT", "HKCR",
	"HKEY_CURRENT_USER", "HKCU",
	"HKEY_USERS", "HKU",
	"HKEY_CURRENT_CONFIG", "HKCC",
}

// Find resolves a backslash or slash separated key path to a handle. The
// match is case-insensitive and tolerates a leading hive alias (HKLM,
// HKEY_LOCAL_MACHINE and friends) or the root key's own name.
func (h *Hive) Find(path string) (NodeID, error) {
	if err := h.ensureOpen(); err != nil {
		return 0, err
	}
	path = strings.TrimSpace(path)
	path = stripRootPrefix(path)
	segments := normalizePath(path)
	current := NodeID(h.head.RootCellOffset)
	if len(segments) == 0 {
		return current, nil
	}

	rootNK, err := h.nk(uint32(current))
	if err != nil {
		return 0, err
	}
	rootName, err := DecodeKeyName(rootNK)
	if err != nil {
		return 0, wrapFormatErr(err)
	}
	if strings.EqualFold(segments[0], rootName) || aliasMatches(rootName, segments[0]) {
		segments = segments[1:]
	}

	for _, seg := range segments {
		subs, err := h.Subkeys(current)
		if err != nil {
			return 0, err
		}
		matched := false
		for _, child := range subs {
			meta, err := h.StatKey(child)
			if err != nil {
				return 0, err
			}
			if strings.EqualFold(meta.Name, seg) {
				current = child
				matched = true
				break
			}
		}
		if !matched {
			return 0, &Error{
				Kind: ErrKindNotFound,
				Msg:  fmt.Sprintf("key %q not found", seg),
				Err:  ErrNotFound,
			}
		}
	}
	return current, nil
}

// WalkFunc is invoked once per key during Walk, in pre-order. depth is 0 for
// the starting key.
type WalkFunc func(id NodeID, depth int, meta KeyMeta) error

// SkipSubtree can be returned by a WalkFunc to prune descent below the
// current key without stopping the walk.
var SkipSubtree = errors.New("skip this subtree")

// Walk visits id and all keys below it in pre-order.
func (h *Hive) Walk(id NodeID, fn WalkFunc) error {
	if err := h.ensureOpen(); err != nil {
		return err
	}
	if fn == nil {
		return errors.New("reader: nil walk callback")
	}
	return h.walk(id, 0, fn)
}

func (h *Hive) walk(id NodeID, depth int, fn WalkFunc) error {
	meta, err := h.StatKey(id)
	if err != nil {
		return err
	}
	if err := fn(id, depth, meta); err != nil {
		if errors.Is(err, SkipSubtree) {
			return nil
		}
		return err
	}
	if meta.SubkeyN == 0 {
		return nil
	}
	subs, err := h.Subkeys(id)
	if err != nil {
		return err
	}
	for _, child := range subs {
		if err := h.walk(child, depth+1, fn); err != nil {
			return err
		}
	}
	return nil
}

func normalizePath(path string) []string {
	if path == "" || path == `\` || path == "/" {
		return nil
	}
	path = strings.ReplaceAll(path, "/", `\`)
	path = strings.TrimPrefix(path, `\`)
	if path == "" {
		return nil
	}
	parts := strings.Split(path, `\`)
	out := parts[:0]
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}

func stripRootPrefix(path string) string {
	upper := strings.ToUpper(path)
	for _, alias := range rootAliasList {
		if upper == alias {
			return ""
		}
		prefix := alias + `\`
		if strings.HasPrefix(upper, prefix) {
			return path[len(alias)+1:]
		}
	}
	return path
}

func aliasMatches(rootName, seg string) bool {
	for canon, aliases := range rootAliasMap {
		if !strings.EqualFold(rootName, canon) {
			continue
		}
		for _, alias := range aliases {
			if strings.EqualFold(seg, alias) {
				return true
			}
		}
		break
	}
	return false
}
