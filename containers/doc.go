// Package containers implements growable containers on top of the
// malloc arena. Each container stores its elements in a single chunk;
// while that chunk sits at the arena's tail growth happens in place,
// otherwise the container relocates into a larger chunk and gives the
// old one back for best-fit reuse.
//
// Containers are not thread safe, matching the arena they draw from.
package containers
