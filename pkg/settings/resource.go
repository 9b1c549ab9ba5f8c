package settings

import (
	"encoding/base64"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// ErrResourceNotFound is returned when no resource has the requested name.
var ErrResourceNotFound = errors.New("resource not found")

// Resource is an uploaded file kept inline as a data URL.
type Resource struct {
	Name  string `json:"name"`
	Size  string `json:"size"`
	Value string `json:"value"`
}

// NewResource encodes data as a data URL. The MIME type is detected from
// the content; name is sanitized with SanitizeName.
func NewResource(name string, data []byte) Resource {
	mime := strings.ReplaceAll(mimetype.Detect(data).String(), " ", "")
	return Resource{
		Name:  SanitizeName(name),
		Size:  fmt.Sprintf("%dkb", int(math.Round(float64(len(data))/1024))),
		Value: "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data),
	}
}

// SanitizeName replaces everything but ASCII letters and digits with an
// underscore. Characters outside the Basic Multilingual Plane count twice.
func SanitizeName(name string) string {
	var sb strings.Builder
	sb.Grow(len(name))
	for _, r := range name {
		switch {
		case 'a' <= r && r <= 'z', 'A' <= r && r <= 'Z', '0' <= r && r <= '9':
			sb.WriteRune(r)
		case r > 0xFFFF:
			sb.WriteString("__")
		default:
			sb.WriteByte('_')
		}
	}
	return sb.String()
}
