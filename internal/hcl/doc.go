// Package hcl provides the concrete HCL implementation of config.Loader. It
// is responsible for finding and parsing .hcl files and overlaying the blocks
// they declare onto a config.Model.
package hcl
