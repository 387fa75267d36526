package stegimg

import "github.com/pcomorek/stegimg/internal/lsb"

// Grid is the RGB pixel array the codec reads and writes: three
// 8-bit channels per coordinate (R=0, G=1, B=2). Embedding mutates
// the grid in place; extraction treats it as read-only. The imgio
// package provides an implementation backed by image.Image.
type Grid = lsb.Grid
