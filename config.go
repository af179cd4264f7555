package procmap

import (
	"github.com/ignaciocaff/procmap/internal/core"
)

// Configure installs the process-wide engine used by the pkg package. It
// fails when conn is nil.
func Configure(conn Connection, opts ...Option) error {
	return core.Configure(conn, newSettings(opts).engineOptions()...)
}
