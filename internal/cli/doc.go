// Package cli turns crepl's command line into an app.Config. It owns the
// cobra command tree, flag validation and the mapping of usage errors to
// process exit codes.
package cli
