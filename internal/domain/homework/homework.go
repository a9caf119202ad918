// internal/domain/homework/homework.go
package homework

import (
	"context"
	"fmt"
)

// Status is the review state reported by the homework API.
type Status string

const (
	StatusApproved  Status = "approved"
	StatusReviewing Status = "reviewing"
	StatusRejected  Status = "rejected"
)

var statusVerdicts = map[Status]string{
	StatusApproved:  "Работа проверена: ревьюеру всё понравилось. Ура!",
	StatusReviewing: "Работа взята на проверку ревьюером.",
	StatusRejected:  "Работа проверена: у ревьюера есть замечания.",
}

// Verdict returns the user-facing text for the status.
func (s Status) Verdict() (string, bool) {
	v, ok := statusVerdicts[s]
	return v, ok
}

// Record is a single homework submission as reported by the API.
type Record struct {
	Name   string
	Status Status
}

// Source fetches raw homework statuses changed since fromDate (unix seconds).
type Source interface {
	Fetch(ctx context.Context, fromDate int64) (any, error)
}

// Validate unwraps the API envelope. The top-level value must be an object
// whose "homeworks" key holds an array of objects; nothing is defaulted.
func Validate(response any) ([]Record, error) {
	envelope, ok := response.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: top-level value is %T, want object", ErrShape, response)
	}

	rawList, ok := envelope["homeworks"]
	if !ok {
		return nil, fmt.Errorf("%w: key \"homeworks\" is missing", ErrShape)
	}
	items, ok := rawList.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: \"homeworks\" is %T, want array", ErrShape, rawList)
	}

	records := make([]Record, 0, len(items))
	for i, item := range items {
		fields, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: homeworks[%d] is %T, want object", ErrShape, i, item)
		}
		// Missing or non-string fields stay empty and are rejected by Render.
		name, _ := fields["homework_name"].(string)
		status, _ := fields["status"].(string)
		records = append(records, Record{Name: name, Status: Status(status)})
	}
	return records, nil
}

// Render builds the notification text for a record.
func Render(r Record) (string, error) {
	if r.Name == "" {
		return "", fmt.Errorf("%w: record has no homework_name", ErrUnknownStatus)
	}
	verdict, ok := r.Status.Verdict()
	if !ok {
		return "", fmt.Errorf("%w: %q for homework %q", ErrUnknownStatus, r.Status, r.Name)
	}
	return fmt.Sprintf("Изменился статус проверки работы \"%s\". %s", r.Name, verdict), nil
}
