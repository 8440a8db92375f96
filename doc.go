// Package aaigrid reads and writes rasters in the AAIGrid (ESRI ASCII grid)
// text format.
//
// A raster starts with a key-value header followed by the grid values in
// row-major order:
//
//	ncols         4
//	nrows         2
//	xllcorner     15
//	yllcorner     12
//	dx            1
//	dy            1
//	NODATA_value  -9999
//	 1 2 3 4
//	 5 6 7 8
//
// Header keys are case insensitive. A single cellsize line may replace dx and
// dy. The textual no-data value decides the element type of the grid: Int32
// without a decimal point, Float32 with one. Without a no-data line the type
// is inferred from the first values of the grid body.
package aaigrid
