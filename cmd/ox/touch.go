package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/sys/unix"

	"github.com/oxtool/ox/internal/platform"
)

func newTouchCmd() *cobra.Command {
	var (
		noCreate  bool
		atimeOnly bool
		mtimeOnly bool
		reference string
	)

	cmd := &cobra.Command{
		Use:   "touch [flags] file...",
		Short: "Update file access and modification times",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Neither flag means both timestamps change.
			setAtime := atimeOnly || !mtimeOnly
			setMtime := mtimeOnly || !atimeOnly

			var times [2]unix.Timespec
			times[0] = unix.Timespec{Nsec: unix.UTIME_NOW}
			times[1] = unix.Timespec{Nsec: unix.UTIME_NOW}
			if reference != "" {
				st, err := platform.Stat(reference)
				if err != nil {
					return fmt.Errorf("touch: reference %s: %w", reference, err)
				}
				times[0] = unix.NsecToTimespec(st.AtimeNs)
				times[1] = unix.NsecToTimespec(st.MtimeNs)
			}
			if !setAtime {
				times[0] = unix.Timespec{Nsec: unix.UTIME_OMIT}
			}
			if !setMtime {
				times[1] = unix.Timespec{Nsec: unix.UTIME_OMIT}
			}

			var firstErr error
			for _, arg := range args {
				if _, err := os.Lstat(arg); err != nil {
					if !os.IsNotExist(err) {
						return fmt.Errorf("touch %s: %w", arg, err)
					}
					if noCreate {
						continue
					}
					f, err := os.OpenFile(arg, os.O_WRONLY|os.O_CREATE, 0o666)
					if err != nil {
						fmt.Fprintf(cmd.ErrOrStderr(), "ox: touch: %v\n", err)
						if firstErr == nil {
							firstErr = err
						}
						continue
					}
					f.Close()
				}

				if err := unix.UtimesNanoAt(unix.AT_FDCWD, arg, times[:], 0); err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "ox: touch: %s: %v\n", arg, err)
					if firstErr == nil {
						firstErr = err
					}
				}
			}
			return firstErr
		},
	}

	cmd.Flags().BoolVarP(&noCreate, "no-create", "c", false, "do not create missing files")
	cmd.Flags().BoolVarP(&atimeOnly, "atime", "a", false, "change only the access time")
	cmd.Flags().BoolVarP(&mtimeOnly, "mtime", "m", false, "change only the modification time")
	cmd.Flags().StringVarP(&reference, "reference", "r", "", "use this file's times instead of the current time")

	return cmd
}
