// Package transform activates one group of a comment-disabled block of test
// groups, re-disabling the rest, by matching spans in the raw file text.
package transform

// Result is the outcome of a successful transformation.
type Result struct {
	// Text is the complete rewritten source.
	Text   string
	Region Region
	Block  SubBlock
	// Disabled lists the groups still inside the disabled region.
	Disabled []string
}

// Transform runs Locate, Extract and Rewrite over src.
func Transform(src string, opts Options) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	region, err := Locate(src, opts)
	if err != nil {
		return nil, err
	}

	block, err := Extract(region.Body, opts)
	if err != nil {
		return nil, err
	}

	doc := Split(src, region)
	return &Result{
		Text:     doc.Join(Rewrite(region, block)),
		Region:   region,
		Block:    block,
		Disabled: ListSubBlocks(Remainder(region.Body, block), opts.Keyword),
	}, nil
}

// List returns the names of the groups inside the disabled region of src.
func List(src string, opts Options) ([]string, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	region, err := Locate(src, opts)
	if err != nil {
		return nil, err
	}
	return ListSubBlocks(region.Body, opts.Keyword), nil
}
