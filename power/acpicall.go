package power

import (
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

// DefaultCallPath is where the acpi_call kernel module exposes its interface.
const DefaultCallPath = "/proc/acpi/call"

// Channel is a raw text interface to the firmware. The firmware keeps a
// single result slot: what Read returns depends on the last Write.
type Channel interface {
	// Write submits one command line.
	Write(command string) error
	// Read returns the current answer, without padding.
	Read() (string, error)
}

// Query writes command and reads its answer back.
func Query(ch Channel, command string) (string, error) {
	if err := ch.Write(command); err != nil {
		return "", err
	}
	return ch.Read()
}

// CallFile is a Channel over the acpi_call pseudo-file. The file is opened
// anew for every read and write.
type CallFile struct {
	fs   afero.Fs
	path string
	log  zerolog.Logger
}

type CallFileOption func(*CallFile)

// WithFs sets the filesystem the call file lives on, the OS by default.
func WithFs(fs afero.Fs) CallFileOption {
	return func(cf *CallFile) {
		cf.fs = fs
	}
}

// WithLogger sets the logger receiving the trace of every call, at debug level.
func WithLogger(l zerolog.Logger) CallFileOption {
	return func(cf *CallFile) {
		cf.log = l
	}
}

// OpenCallFile checks that path exists and is readable and writable.
// It doesn't read or write anything.
func OpenCallFile(path string, opts ...CallFileOption) (*CallFile, error) {
	cf := &CallFile{
		fs:   afero.NewOsFs(),
		path: path,
		log:  log.Logger,
	}
	for _, opt := range opts {
		opt(cf)
	}

	fi, err := cf.fs.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, &AccessError{
			Msg:         "the ACPI call interface doesn't exist on this system",
			Description: fmt.Sprintf("%q is missing (install the acpi_call kernel module)", path),
			Err:         err,
		}
	}
	if err == nil && fi.IsDir() {
		err = fmt.Errorf("%s is a directory", path)
	}
	if err == nil {
		err = checkAccess(cf.fs, path, fi)
	}
	if err != nil {
		return nil, &AccessError{
			Msg:         "you are not permitted to access the ACPI call interface",
			Description: fmt.Sprintf("%q isn't accessible for reading or writing (check its permissions or run as root)", path),
			Err:         err,
		}
	}
	return cf, nil
}

// Path returns the path of the call file.
func (cf *CallFile) Path() string {
	return cf.path
}

// Write sends command, terminated by a newline.
func (cf *CallFile) Write(command string) error {
	f, err := cf.fs.OpenFile(cf.path, os.O_WRONLY|os.O_TRUNC, 0)
	if err != nil {
		return fmt.Errorf("opening ACPI call interface for writing: %w", err)
	}
	_, err = f.WriteString(command + "\n")
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("writing to ACPI call interface: %w", err)
	}
	cf.log.Debug().Str("path", cf.path).Str("data", command).Msg("written to ACPI call interface")
	return nil
}

// Read returns the answer to the last command.
func (cf *CallFile) Read() (string, error) {
	buf, err := afero.ReadFile(cf.fs, cf.path)
	if err != nil {
		return "", fmt.Errorf("reading from ACPI call interface: %w", err)
	}
	ret := trimResponse(buf)
	cf.log.Debug().Str("path", cf.path).Str("data", ret).Msg("read from ACPI call interface")
	return ret, nil
}

// checkModeBits is the access check for filesystems that aren't the OS.
func checkModeBits(fi os.FileInfo) error {
	if fi.Mode().Perm()&0o600 != 0o600 {
		return os.ErrPermission
	}
	return nil
}
