package search

// findReady returns the subset of operators in plan that have not yet
// executed and whose dependencies are all either already executed or
// absent from the plan entirely (a soft-missing dependency is treated as
// satisfied). Order within the result follows plan order.
//
// findReady is idempotent: called again with the same plan and executed
// set it returns the same list.
func findReady(plan []Operator, executed map[string]bool) []Operator {
	ready := make([]Operator, 0, len(plan))

	for _, op := range plan {
		if executed[op.Name()] {
			continue
		}

		satisfied := true
		for _, dep := range op.DependsOn() {
			if executed[dep] {
				continue
			}
			if !operationExists(plan, dep) {
				// Soft-missing dependency: absent from the plan, so it's
				// treated as already satisfied.
				continue
			}
			satisfied = false
			break
		}

		if satisfied {
			ready = append(ready, op)
		}
	}

	return ready
}

func operationExists(plan []Operator, name string) bool {
	for _, op := range plan {
		if op.Name() == name {
			return true
		}
	}
	return false
}
