// Package app wires the trend analysis web application: configuration,
// logging, the analysis service, CSV history persistence, and the chi
// router with its middleware chain. The cmd/web binary is a thin shell
// over this package.
package app
