package entity

// Image is a scanned headline image resolved by name.
type Image struct {
	Name        string
	ContentType string
	Data        []byte
}
