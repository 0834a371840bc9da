//go:build !unix

package power

import (
	"os"

	"github.com/spf13/afero"
)

func checkAccess(_ afero.Fs, _ string, fi os.FileInfo) error {
	return checkModeBits(fi)
}
