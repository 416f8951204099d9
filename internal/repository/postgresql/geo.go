package postgresql

import (
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/geo"
	"github.com/jackc/pgx/v5/pgtype"
)

// The company anchor lives in a POINT column with x = longitude and
// y = latitude. These two helpers are the only place the axes are mapped.

func pointFromCoordinate(c geo.Coordinate) pgtype.Point {
	return pgtype.Point{
		P:     pgtype.Vec2{X: c.Longitude, Y: c.Latitude},
		Valid: true,
	}
}

func coordinateFromPoint(p pgtype.Point) geo.Coordinate {
	return geo.Coordinate{Latitude: p.P.Y, Longitude: p.P.X}
}
