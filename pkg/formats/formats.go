// Package formats provides readers and writers for the meshlet pipeline's
// file formats.
package formats

// Note: OBJ (Wavefront geometry input) is fully implemented in obj.go
// Note: meshlets.json (renderer JSON payload) is fully implemented in meshletjson.go
// Note: OMLT (packed binary meshlet container) is fully implemented in omlt.go
