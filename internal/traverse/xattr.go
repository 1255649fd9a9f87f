package traverse

import (
	"github.com/pkg/xattr"
)

// copyXattrs replicates extended attributes from src to dst. Unsupported
// filesystems and unreadable attributes are skipped, matching how cp -a
// treats them as best-effort.
func copyXattrs(src, dst string) error {
	names, err := xattr.LList(src)
	if err != nil {
		return nil
	}
	for _, name := range names {
		val, err := xattr.LGet(src, name)
		if err != nil {
			continue
		}
		_ = xattr.LSet(dst, name, val)
	}
	return nil
}
