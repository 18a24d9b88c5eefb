package extractor

// Tag is the polymorphism requirement from spec §9: tag reading accepts
// either an ID3 structure or a probe-JSON structure, behind one accessor
// shape regardless of source.
type Tag interface {
	Title() (string, bool)
	Artist() (string, bool)
	Album() (string, bool)
	Genre() (string, bool)
	// Track is kept as a string; it may be "01" or "2/14" depending on the
	// source, matching spec §4.B.
	Track() (string, bool)
}
