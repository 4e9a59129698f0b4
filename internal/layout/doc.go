// Package layout computes the fixed heights gallery screens use to render
// rows before any image has loaded.
//
// Every value is a function of the device metrics passed in; nothing is
// cached at package level, so callers recompute on rotation or resize.
package layout
