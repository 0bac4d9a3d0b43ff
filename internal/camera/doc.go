// Package camera infers the camera channel layout of a task from a bounded
// sample of frame filenames.
//
// Capture rigs encode the camera index as the last digit before the image
// extension (front_000123_0.jpg, 000379_color_1.jpg). The detector collects
// the distinct trailing digits in the sample and builds an immutable manifest
// of channels. Fewer than two distinct digits, a disabled detector, or a
// sample with no matching names all fall back to a single implicit channel so
// ordinary single-camera datasets whose filenames happen to end in a digit are
// not misclassified.
//
// The sample size is a hard bound on scan cost: detection never traverses the
// full dataset.
package camera
