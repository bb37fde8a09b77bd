// Package file loads the folio configuration from a TOML file, by
// default ~/.folio/config.toml. Every setting has a working default so
// a missing file configures a fully offline installation.
package file
