package entity

import (
	"fmt"
	"strings"
)

// maxImageNameLength bounds image names accepted from requests and spreadsheets.
const maxImageNameLength = 255

// ValidateImageName checks that an image name addresses a single object by name.
// Images are resolved against a base URL, a local folder or a bucket prefix, so names
// must not contain path separators or parent references.
func ValidateImageName(name string) error {
	if strings.TrimSpace(name) == "" {
		return &ValidationError{Field: "image_name", Message: "image name is required"}
	}

	if len(name) > maxImageNameLength {
		return &ValidationError{
			Field:   "image_name",
			Message: fmt.Sprintf("image name must not exceed %d characters", maxImageNameLength),
		}
	}

	if strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
		return &ValidationError{Field: "image_name", Message: "image name must not contain path elements"}
	}

	if strings.ContainsRune(name, 0) {
		return &ValidationError{Field: "image_name", Message: "image name contains invalid characters"}
	}

	return nil
}
