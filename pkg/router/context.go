package router

import (
	"context"
)

// requestContext carries cancellation of the incoming request and the values
// of the router base context.
type requestContext struct {
	context.Context
	base context.Context
}

func (c requestContext) Value(key any) any {
	if v := c.Context.Value(key); v != nil {
		return v
	}

	return c.base.Value(key)
}
