package metadata

import (
	"os"

	"github.com/mwantia/gostash/pkg/geo"
	"github.com/rwcarlsen/goexif/exif"
)

// Extractor reads GPS coordinates embedded in a file. Implementations
// report absence instead of failing for unsupported or corrupt files.
type Extractor interface {
	Location(path string) (geo.Location, bool)
}

// ExifExtractor reads coordinates from EXIF metadata of image files.
type ExifExtractor struct{}

func NewExifExtractor() *ExifExtractor {
	return &ExifExtractor{}
}

// Location returns the embedded GPS position, or false when the file is
// unreadable, carries no EXIF data or no usable coordinates.
func (e *ExifExtractor) Location(path string) (geo.Location, bool) {
	file, err := os.Open(path)
	if err != nil {
		return geo.Location{}, false
	}
	defer file.Close()

	data, err := exif.Decode(file)
	if err != nil {
		return geo.Location{}, false
	}

	lat, lon, err := data.LatLong()
	if err != nil {
		return geo.Location{}, false
	}
	if lat == 0 && lon == 0 {
		// Cameras write zeroed GPS fields when no fix was available
		return geo.Location{}, false
	}

	return geo.Location{Latitude: lat, Longitude: lon}, true
}
