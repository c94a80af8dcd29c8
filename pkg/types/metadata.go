package types

// PropertyDescriptor documents one property declared by an element type.
// Description may end in a bracketed unit annotation, as in
// "Focal length [mm]".
type PropertyDescriptor struct {
	Name        string    `json:"name"`
	Kind        ValueKind `json:"kind"`
	Description string    `json:"description"`
}

// ElementMetadata is the documentation record of a single element type,
// without its ancestors.
type ElementMetadata struct {
	Name        string
	Description string

	// Properties maps property name to its descriptor.
	Properties map[string]PropertyDescriptor

	// Sorted optionally lists the properties in display order. When empty,
	// every entry of Properties is displayed.
	Sorted []string
}

// MetadataChain is the resolved ancestry of an element type, most-derived
// first. Parent links are replaced by list order.
type MetadataChain []ElementMetadata

// Leaf returns the most-derived record, or the zero value for an empty chain.
func (c MetadataChain) Leaf() ElementMetadata {
	if len(c) == 0 {
		return ElementMetadata{}
	}
	return c[0]
}

// Ancestors returns every record except the most-derived one.
func (c MetadataChain) Ancestors() MetadataChain {
	if len(c) < 2 {
		return nil
	}
	return c[1:]
}
