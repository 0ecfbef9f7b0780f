// Package resource bounds what a sort worker may consume: memory held in
// partition buffers, exchange transfers in flight, and output bandwidth.
//
// A nil *Controller is valid and imposes no limits.
package resource
