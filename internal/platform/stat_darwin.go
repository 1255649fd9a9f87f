//go:build darwin

package platform

import (
	"golang.org/x/sys/unix"
)

func fromStat(st *unix.Stat_t) FileStat {
	return FileStat{
		Size:    st.Size,
		Blocks:  st.Blocks,
		BlkSize: int64(st.Blksize),
		Mode:    modeFromUnix(uint32(st.Mode)),
		Uid:     st.Uid,
		Gid:     st.Gid,
		Nlink:   uint64(st.Nlink),
		Dev:     uint64(st.Dev),
		Ino:     st.Ino,
		AtimeNs: st.Atimespec.Nano(),
		MtimeNs: st.Mtimespec.Nano(),
	}
}
