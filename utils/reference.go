package utils

import (
	"fmt"
	"math/rand"
	"time"
)

// GenerateComplaintCode issues the public tracking code for a complaint.
// Format: GOV-YYYY-NNNN. Collisions are caught by the unique index on the
// column; callers retry with a fresh code.
func GenerateComplaintCode() string {
	return fmt.Sprintf("GOV-%d-%04d", time.Now().Year(), rand.Intn(10000))
}
