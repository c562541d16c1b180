package transform

// Document is a source file split around its disabled region.
type Document struct {
	Prefix string
	Region Region
	Suffix string
}

// Split cuts src into the text before the region, the region and the text after it.
func Split(src string, r Region) Document {
	return Document{
		Prefix: src[:r.Start],
		Region: r,
		Suffix: src[r.End:],
	}
}

// Join reassembles the document with region in place of the original region text.
func (d Document) Join(region string) string {
	b := make([]byte, 0, len(d.Prefix)+len(region)+len(d.Suffix))
	b = append(b, d.Prefix...)
	b = append(b, region...)
	b = append(b, d.Suffix...)
	return string(b)
}

// String returns the original source text.
func (d Document) String() string {
	return d.Join(d.Region.OpenMarker + d.Region.Body + d.Region.CloseMarker)
}
