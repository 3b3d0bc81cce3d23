package message

// Coordinate bounds accepted on the wire
const (
	MaxCoordinate = 1000000
	MinCoordinate = -1000000
	MaxIDLength   = 128
)

// Envelope is decoded first to route a message by type
type Envelope struct {
	Type string `json:"type"`
}

// Pointer: a press, release or drag of the primary button
type Pointer struct {
	Type  string `json:"type" validate:"required,eq=pointer"`
	Event string `json:"event" validate:"required,oneof=press release drag"`
	X     *int   `json:"x" validate:"required,min=-1000000,max=1000000"`
	Y     *int   `json:"y" validate:"required,min=-1000000,max=1000000"`
}

// Cursor: live pointer position while no button is held
type Cursor struct {
	Type string  `json:"type" validate:"required,eq=cursor"`
	X    float64 `json:"x" validate:"min=-1000000,max=1000000"`
	Y    float64 `json:"y" validate:"min=-1000000,max=1000000"`
}

// Authenticate is the first frame a client sends
type Authenticate struct {
	Type  string `json:"type" validate:"required,eq=authenticate"`
	Token string `json:"token" validate:"omitempty,hexadecimal,max=128"`
}

// Click: a press on the image viewer
type Click struct {
	X *int `json:"x" validate:"required,min=0,max=1000000"`
	Y *int `json:"y" validate:"required,min=0,max=1000000"`
}
