package templates

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// RenderBatch renders tmpl once per context, at most limit at a time
// (limit <= 0 means unbounded). Results are in the same order as contexts.
// The batch stops early if ctx is cancelled.
func RenderBatch(ctx context.Context, tmpl Template, contexts []RenderContext, limit int) ([]Rendered, error) {
	if err := tmpl.Validate(); err != nil {
		return nil, err
	}

	out := make([]Rendered, len(contexts))

	g, gctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}

	for i, rc := range contexts {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out[i] = tmpl.Render(rc)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
