package router

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/mitchellh/mapstructure"
	"github.com/questx-lab/focus/pkg/errorx"
	"github.com/questx-lab/focus/pkg/xcontext"
)

func route[Request, Response any](
	r *Router,
	method string,
	pattern string,
	handler HandlerFunc[Request, Response],
) {
	befores := append([]MiddlewareFunc(nil), r.befores...)
	afters := append([]MiddlewareFunc(nil), r.afters...)
	closers := append([]CloserFunc(nil), r.closers...)
	base := r.ctx

	r.mux.HandleFunc(pattern, func(w http.ResponseWriter, req *http.Request) {
		var ctx context.Context = requestContext{Context: req.Context(), base: base}
		ctx = xcontext.WithHTTPRequest(ctx, req)

		ctx = serve(ctx, method, befores, afters, handler)

		writeResponse(ctx, w)
		for _, c := range closers {
			c(ctx)
		}
	})
}

func serve[Request, Response any](
	ctx context.Context,
	method string,
	befores, afters []MiddlewareFunc,
	handler HandlerFunc[Request, Response],
) context.Context {
	req := xcontext.HTTPRequest(ctx)
	if req.Method != method {
		return xcontext.WithError(ctx, errorx.New(errorx.MethodNotAllowed, "Method Not Allowed"))
	}

	var err error
	for _, m := range befores {
		if ctx, err = runMiddleware(ctx, m); err != nil {
			return xcontext.WithError(ctx, err)
		}
	}

	var request Request
	if err := parseRequest(req, &request); err != nil {
		xcontext.Logger(ctx).Debugf("Cannot parse request: %v", err)
		return xcontext.WithError(ctx, errorx.New(errorx.BadRequest, "Invalid request"))
	}

	resp, err := handler(ctx, &request)
	if err != nil {
		return xcontext.WithError(ctx, err)
	}
	ctx = xcontext.WithResponse(ctx, resp)

	for _, m := range afters {
		if ctx, err = runMiddleware(ctx, m); err != nil {
			return xcontext.WithError(ctx, err)
		}
	}

	return ctx
}

func runMiddleware(ctx context.Context, m MiddlewareFunc) (context.Context, error) {
	newCtx, err := m(ctx)
	if newCtx == nil {
		newCtx = ctx
	}

	return newCtx, err
}

func parseRequest(req *http.Request, v any) error {
	switch req.Method {
	case http.MethodGet:
		query := map[string]any{}
		for key, values := range req.URL.Query() {
			if len(values) == 1 {
				query[key] = values[0]
			} else {
				query[key] = values
			}
		}

		decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			TagName:          "json",
			WeaklyTypedInput: true,
			Result:           v,
		})
		if err != nil {
			return err
		}

		return decoder.Decode(query)

	case http.MethodPost:
		if req.Body == nil {
			return nil
		}

		err := json.NewDecoder(req.Body).Decode(v)
		if errors.Is(err, io.EOF) {
			return nil
		}

		return err
	}

	return nil
}
