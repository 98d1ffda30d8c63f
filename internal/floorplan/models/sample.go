package models

import "math"

// SampleRoom is a 4 m x 3 m rectangular room with one door, one window, a
// table and a bed. It is used for demos and as a fixture.
func SampleRoom() *RoomSnapshot {
	place := func(yaw float64, x, y, z float64) Mat4 {
		return Translation(Vec3{x, y, z}).Mul(RotationY(yaw))
	}
	wall := func(length float64, t Mat4) Surface {
		return Surface{Category: SurfaceWall, Dimensions: Vec3{length, 2.5, 0.2}, Transform: t}
	}

	return &RoomSnapshot{
		Walls: []Surface{
			wall(4, place(0, 0, 1.25, -1.5)),
			wall(3, place(math.Pi/2, 2, 1.25, 0)),
			wall(4, place(math.Pi, 0, 1.25, 1.5)),
			wall(3, place(-math.Pi/2, -2, 1.25, 0)),
		},
		Doors: []Surface{
			{Category: SurfaceDoor, Dimensions: Vec3{0.9, 2.05, 0.05}, Transform: place(0, -1, 1.025, -1.5)},
		},
		Windows: []Surface{
			{Category: SurfaceWindow, Dimensions: Vec3{1.2, 1.2, 0.05}, Transform: place(math.Pi, 0.5, 1.5, 1.5)},
		},
		Objects: []FurnitureObject{
			{Category: ObjectTable, Dimensions: Vec3{1.2, 0.75, 0.8}, Transform: place(0, 0, 0.375, 0)},
			{Category: ObjectBed, Dimensions: Vec3{1.6, 0.5, 2.0}, Transform: place(math.Pi/2, 1, 0.25, 0.5)},
		},
	}
}
