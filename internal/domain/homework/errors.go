// internal/domain/homework/errors.go
package homework

import "fmt"

// Errors returned by a poll cycle. Callers match them with errors.Is; the
// wrapping error carries the details.
var (
	ErrAPIConnection = fmt.Errorf("homework API is unreachable")
	ErrAPIResponse   = fmt.Errorf("homework API returned an unexpected response")
	ErrShape         = fmt.Errorf("homework API response has an unexpected shape")
	ErrUnknownStatus = fmt.Errorf("homework record has an unknown status")
	ErrDelivery      = fmt.Errorf("notification was not delivered")
)
