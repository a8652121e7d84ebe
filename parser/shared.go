package parser

// ToShared converts an exclusively owned record slice into a slice of
// pointers that can be handed to multiple consumers.
func ToShared[T any](objects []T) []*T {
	shared := make([]*T, len(objects))
	for i := range objects {
		shared[i] = &objects[i]
	}
	return shared
}

// parseShared parses into a scratch slice and appends the records to
// dst as shared pointers.
func parseShared[T any](p Parser[T], dst *[]*T, maxBytes uint64) (bool, error) {
	var tmp []T
	more, err := p.Parse(&tmp, maxBytes)
	*dst = append(*dst, ToShared(tmp)...)
	return more, err
}
