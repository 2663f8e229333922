package render

// Evaluator composites scenes into a Grid.
type Evaluator struct {
	Grid *Grid
}

func NewEvaluator(g *Grid) *Evaluator { return &Evaluator{Grid: g} }

// Evaluate renders every command of scene at time t, in order. Later
// commands overwrite earlier ones where masks overlap; untouched cells keep
// whatever the grid held.
func (e *Evaluator) Evaluate(scene Scene, t float64) {
	for _, cmd := range scene {
		mask, c := cmd.Eval(t)
		e.Grid.Render(mask, c)
	}
}
