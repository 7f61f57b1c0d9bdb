package connection

import (
	"context"
)

// Send calls method and returns the decoded result. A nil pointer is
// returned when the backend answered with NONE or NULL.
func Send[Result any](ctx context.Context, c Connection, method string, params ...any) (*Result, error) {
	var res *Result
	if err := c.Send(ctx, &res, method, params...); err != nil {
		return nil, err
	}
	return res, nil
}
