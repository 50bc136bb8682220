package multi

import "time"

// User is declared in one file.
type User struct {
	ID        uint
	CreatedAt time.Time
}
