// Package rle decodes run-length encoded cellular-automaton patterns into
// explicit live-cell coordinates.
//
// A document is a sequence of lines. Lines starting with '#' are comments and
// may carry "period N" and "c/N" directives. A line such as
// "x = 3, y = 3, rule = B3/S23" declares the bounding box and rule. All other
// lines form the body, which is decoded with the usual b/o/$/! tokens and
// optional digit run counts.
package rle
