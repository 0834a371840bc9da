//go:build unix

package power

import (
	"os"

	"github.com/spf13/afero"
	"golang.org/x/sys/unix"
)

// checkAccess asks the kernel whether the real user may read and write
// path, the same question access(2) answers for the acpi_call file.
func checkAccess(fs afero.Fs, path string, fi os.FileInfo) error {
	if _, ok := fs.(*afero.OsFs); !ok {
		return checkModeBits(fi)
	}
	return unix.Access(path, unix.R_OK|unix.W_OK)
}
