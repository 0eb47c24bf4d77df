// Package render turns a palette into configuration files for target
// applications. Rendering is a pure function of the target, the palette
// and the home directory: it performs no I/O beyond reading the embedded
// templates.
package render
