package employee

import (
	"regexp"
	"strings"
)

type ImageType string

const (
	ImagePNG  ImageType = "PNG"
	ImageJPG  ImageType = "JPG"
	ImageJPEG ImageType = "JPEG"
)

// DefaultPhoto is shown when the employee has no photo.
const DefaultPhoto = "/assets/images/employee.png"

var dataURLRe = regexp.MustCompile(`^data:image/(png|jpg|jpeg);base64,([A-Za-z0-9/+=]+)$`)

type Photo struct {
	EntityID  int64     `json:"entityId,omitempty"`
	ImageType ImageType `json:"imageType,omitempty"`
	Photo     string    `json:"photo,omitempty"`
}

// DataURL renders the photo the way a browser previews it.
func (p Photo) DataURL() string {
	if p.Photo == "" || p.ImageType == "" {
		return ""
	}
	return "data:image/" + strings.ToLower(string(p.ImageType)) + ";base64," + p.Photo
}

// ParseDataURL splits an accepted data URL into its image type and base64
// payload. Anything else is rejected.
func ParseDataURL(s string) (ImageType, string, bool) {
	m := dataURLRe.FindStringSubmatch(s)
	if m == nil {
		return "", "", false
	}
	return ImageType(strings.ToUpper(m[1])), m[2], true
}

// PreviewURL is the photo data URL or DefaultPhoto.
func PreviewURL(e Employee) string {
	if p, ok := e.Photo(); ok {
		if url := p.DataURL(); url != "" {
			return url
		}
	}
	return DefaultPhoto
}
