package geo

import (
	"bytes"
	"log/slog"
	"math"

	"github.com/rwcarlsen/goexif/exif"
)

// Locator extracts an embedded location from photo bytes. ok is false when
// the photo carries no usable location; extraction errors are never fatal.
type Locator interface {
	Locate(photo []byte) (coord Coordinate, ok bool)
}

// ExifLocator reads the GPSLatitude/GPSLongitude tags of JPEG/TIFF photos.
type ExifLocator struct{}

func (ExifLocator) Locate(photo []byte) (coord Coordinate, ok bool) {
	if len(photo) == 0 {
		return Coordinate{}, false
	}

	// Uploaded bytes are untrusted; a malformed EXIF block must not take
	// down the request.
	defer func() {
		if r := recover(); r != nil {
			slog.Warn("exif decoder panicked", "panic", r)
			coord, ok = Coordinate{}, false
		}
	}()

	x, err := exif.Decode(bytes.NewReader(photo))
	if err != nil {
		slog.Debug("photo has no readable EXIF block", "error", err)
		return Coordinate{}, false
	}

	lat, lon, err := x.LatLong()
	if err != nil {
		slog.Debug("photo has no GPS tags", "error", err)
		return Coordinate{}, false
	}
	// A zero denominator in a GPS rational decodes to Inf or NaN without an error.
	if !finite(lat) || !finite(lon) {
		slog.Debug("photo has malformed GPS tags", "latitude", lat, "longitude", lon)
		return Coordinate{}, false
	}

	return Coordinate{Latitude: lat, Longitude: lon}, true
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
