// Package config defines the format-agnostic model of a saved REPL session
// and the Loader interface that concrete file formats implement.
//
// The `config.Model` is what the app turns into session state and the
// current input before materializing a program. Concrete loaders, such as
// the HCL one, live in separate packages.
package config
