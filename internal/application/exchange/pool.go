package exchange

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Outcome resultado de una unidad de trabajo del pool; los fallos son valores, no se propagan.
type Outcome struct {
	Key string
	Err error
}

// Report agregado de un documento procesado.
type Report struct {
	Succeeded int
	Failed    int
}

// Add suma los resultados de outcomes.
func (r *Report) Add(outcomes []Outcome) {
	for _, o := range outcomes {
		if o.Err != nil {
			r.Failed++
		} else {
			r.Succeeded++
		}
	}
}

// runBounded ejecuta fn para cada elemento con como máximo limit tareas simultáneas y espera
// a todas. Un panic en una tarea se convierte en el error de esa tarea.
func runBounded[T any](ctx context.Context, limit int, items []T, key func(T) string, fn func(context.Context, T) error) []Outcome {
	if limit <= 0 {
		limit = 1
	}
	out := make([]Outcome, len(items))
	var g errgroup.Group
	g.SetLimit(limit)
	for i, item := range items {
		g.Go(func() (err error) {
			out[i].Key = key(item)
			defer func() {
				if r := recover(); r != nil {
					out[i].Err = fmt.Errorf("panic: %v", r)
				}
			}()
			out[i].Err = fn(ctx, item)
			return nil
		})
	}
	_ = g.Wait()
	return out
}
