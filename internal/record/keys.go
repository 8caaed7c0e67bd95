package record

import (
	"fmt"
	"regexp"
	"strings"
)

// Key suffixes distinguishing the two sandbox kinds in the store.
const (
	suffixCIPool    = "SBX"
	suffixDeveloper = "DEVSBX"
)

// Key is the parsed form of a store key.
type Key struct {
	Pool          string
	Branch        string
	Discriminator string
	Kind          Kind
}

// String formats the key using the store naming convention. Pool and
// branch are upper-cased, matching how every writer has always formatted
// them.
func (k Key) String() string {
	suffix := suffixCIPool
	if k.Kind == KindDeveloper {
		suffix = suffixDeveloper
	}
	return fmt.Sprintf("%s_%s_%s_%s",
		strings.ToUpper(k.Pool), strings.ToUpper(k.Branch), k.Discriminator, suffix)
}

// ParseKey splits a store key into its components. The pool segment may
// itself contain underscores; the branch, discriminator, and kind suffix
// are always the last three segments.
func ParseKey(key string) (Key, bool) {
	var kind Kind
	switch {
	case strings.HasSuffix(key, "_"+suffixDeveloper):
		kind = KindDeveloper
	case strings.HasSuffix(key, "_"+suffixCIPool):
		kind = KindCIPool
	default:
		return Key{}, false
	}

	parts := strings.Split(key, "_")
	if len(parts) < 4 {
		return Key{}, false
	}

	return Key{
		Pool:          strings.Join(parts[:len(parts)-3], "_"),
		Branch:        parts[len(parts)-3],
		Discriminator: parts[len(parts)-2],
		Kind:          kind,
	}, true
}

// PoolPattern returns the listing pattern matching every CI pool record
// for a pool+branch group.
func PoolPattern(pool, branch string) string {
	return fmt.Sprintf(`^%s_%s_[^_]*_%s$`,
		regexp.QuoteMeta(strings.ToUpper(pool)), regexp.QuoteMeta(strings.ToUpper(branch)), suffixCIPool)
}

// CIPattern matches every CI pool record regardless of group.
func CIPattern() string {
	return fmt.Sprintf(`_%s$`, suffixCIPool)
}

// DeveloperPattern matches every developer sandbox record.
func DeveloperPattern() string {
	return fmt.Sprintf(`_%s$`, suffixDeveloper)
}

// AnyPattern matches every sandbox record of either kind.
func AnyPattern() string {
	return fmt.Sprintf(`_(%s|%s)$`, suffixCIPool, suffixDeveloper)
}
