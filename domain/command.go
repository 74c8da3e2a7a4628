package domain

import (
	"time"
)

// SendCommand asks the pipeline to process one user submission.
type SendCommand struct {
	Text      string
	CreatedAt time.Time
}
