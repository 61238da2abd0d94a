// Package config defines the format-agnostic configuration model of the
// plugin host, along with the Loader interface concrete formats implement.
//
// The Model starts from Default, is overlaid by configuration files (see
// package hcl) and finally by command-line flags, then checked by Validate.
package config
