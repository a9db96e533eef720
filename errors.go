package dfat

// ConstError is an error value that can be declared as a constant and
// matched with errors.Is after wrapping.
type ConstError string

func (err ConstError) Error() string { return string(err) }

const (
	ErrIO                ConstError = "i/o error"
	ErrLoad              ConstError = "file system load failed"
	ErrMalformedRecord   ConstError = "malformed record"
	ErrOutOfRange        ConstError = "block out of range"
	ErrNotFound          ConstError = "not found"
	ErrNotADirectory     ConstError = "not a directory"
	ErrNotAFile          ConstError = "not a file"
	ErrCorruptAllocation ConstError = "corrupt allocation"
	ErrDiskFull          ConstError = "disk full"

	ErrInvalidName   ConstError = "invalid name"
	ErrExists        ConstError = "name already exists"
	ErrDirectoryFull ConstError = "directory full"
	ErrNotEmpty      ConstError = "directory not empty"
)
