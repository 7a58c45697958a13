// Package media normalizes the image-carrying message element shapes behind
// one queryable accessor.
//
// The transport layer decodes an incoming attachment into one of three
// overlapping shapes: a group-scoped image, a friend-scoped image, or a
// flash image that itself wraps either of the two. Callers overwhelmingly
// want uniform metadata (dimensions, byte size, URL, content fingerprint)
// and only occasionally the concrete shape. [Element] implements each
// attribute once across all variants and offers typed narrowing for the
// rare caller that needs the inner type.
//
// Elements are constructed when a message is decoded and are immutable
// afterwards.
package media
