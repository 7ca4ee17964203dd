package payoff

// Sample keeps every nth step plus the final one, for charts that cannot
// show every month. Steps are returned unchanged.
func Sample(steps []Step, every int) []Step {
	if every <= 1 || len(steps) == 0 {
		return steps
	}

	out := make([]Step, 0, len(steps)/every+2)

	for i, s := range steps {
		if i%every == 0 || i == len(steps)-1 {
			out = append(out, s)
		}
	}

	return out
}
