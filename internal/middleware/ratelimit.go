package middleware

// ShapeCounter counts shapes on a surface (avoids import cycle with room)
type ShapeCounter interface {
	ShapeCount() int
}

// RateLimit holds the server's capacity limits
type RateLimit struct {
	MaxRoomSize       int
	MaxShapes         int
	MaxMessageSize    int
	MaxRooms          int
	MessagesPerSecond float64
	BurstSize         int
}

// CanAddShape: checks if a room's surface has space for another shape
func (rl *RateLimit) CanAddShape(counter ShapeCounter) bool {
	return counter.ShapeCount() < rl.MaxShapes
}

// ValidateMessageSize: checks if a message is within the size limit
func (rl *RateLimit) ValidateMessageSize(msgSize int) bool {
	return msgSize <= rl.MaxMessageSize
}
