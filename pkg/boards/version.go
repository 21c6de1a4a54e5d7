// Package boards holds release metadata for the boards module.
package boards

// Version is the current release.
const Version = "0.1.0"

// Revision is the source revision, stamped at build time.
var Revision = "dev"

// ModulePath is the Go module path.
const ModulePath = "github.com/mesh-intelligence/boards"
