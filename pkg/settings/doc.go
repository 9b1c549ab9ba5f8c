// Package settings persists the host-side state of a report: the template
// text, split into a fixed number of chunks, the uploaded resources and the
// view options.
package settings
