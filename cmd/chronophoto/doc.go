// Command chronophoto composites image sequences into chronophotography
// style stills and videos by per-pixel outlier analysis over time.
package main
