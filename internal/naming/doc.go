// Package naming owns the output filename conventions for generated opacity
// files.
//
// Two conventions exist side by side because two historical workflows wrote
// different file kinds for RADMC-3D:
//
//	SchemePlain:   dustkappa_<base><mantle>_<temp>K_a<size>.inp
//	SchemeScatMat: dustkapscatmat_<base>_<temp>K_a<size>.inp
//
// The schemes are deliberately kept as distinct named strategies rather than
// merged; existing model directories depend on both on-disk layouts.
package naming
