// Package pod implements a self-describing binary value codec: a closed
// catalogue of value kinds, a non-owning iterator with typed accessors, a
// streaming builder with push/pop framing, and a variadic compose/extract
// façade keyed by object properties.
//
// Every encoded value begins with an 8-byte header (body size, type id)
// followed by its body, native byte order, 8-byte aligned inside its
// container. The codec never allocates per value: builders and iterators
// operate directly on a caller-owned byte slice.
package pod
