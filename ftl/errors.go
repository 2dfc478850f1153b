package ftl

import "github.com/pkg/errors"

// Sentinel errors returned by Engine operations. Callers compare against
// these with errors.Is; the engine never wraps them, since they're
// expected outcomes rather than causes to chain.
var (
	// ErrBufferFull is returned by Write when the write buffer cannot
	// accept the LBA and an eager flush did not free space.
	ErrBufferFull = errors.New("ftl: write buffer full")

	// ErrInvalidLBA is returned when lba/GroupSize >= Config.Groups.
	ErrInvalidLBA = errors.New("ftl: lba out of range")

	// ErrClosed is returned by any operation on an Engine after Close.
	ErrClosed = errors.New("ftl: engine closed")
)
