package geo

// Source tags where a resolved coordinate came from.
type Source string

const (
	SourcePhoto  Source = "photo"
	SourceBackup Source = "backup"
)

// Resolution is the outcome of a successful Resolve. The unavailable case is
// reported as ErrNoLocationAvailable, so a Resolution always holds a usable
// coordinate.
type Resolution struct {
	Coordinate Coordinate
	Source     Source
}

// Resolver picks the coordinate used for an attendance submission: the
// photo's embedded GPS position first, the client supplied backup second.
type Resolver struct {
	region  BoundingBox
	locator Locator
}

func NewResolver(region BoundingBox, locator Locator) *Resolver {
	if locator == nil {
		locator = ExifLocator{}
	}
	return &Resolver{region: region, locator: locator}
}

// Region returns the operating region the resolver validates against.
func (r *Resolver) Region() BoundingBox {
	return r.region
}

// Resolve never mutates its inputs and has no side effects.
func (r *Resolver) Resolve(photo []byte, backup *Coordinate) (Resolution, error) {
	var res Resolution

	if coord, ok := r.locator.Locate(photo); ok {
		res = Resolution{Coordinate: coord, Source: SourcePhoto}
	} else if backup != nil {
		res = Resolution{Coordinate: *backup, Source: SourceBackup}
	} else {
		return Resolution{}, ErrNoLocationAvailable
	}

	if err := res.Coordinate.Validate(); err != nil {
		return Resolution{}, err
	}
	if err := r.region.Check(res.Coordinate); err != nil {
		return Resolution{}, err
	}
	return res, nil
}
