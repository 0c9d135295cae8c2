package search

// BuildPlan derives the ordered candidate operator list from a Config.
//
// The order is a fixed logical bias — query shaping precedes retrieval,
// retrieval precedes post-processing — used only as a tie-break; actual
// execution order is governed by the dependency scheduler. BuildPlan is a
// pure function: it never fails and never mutates cfg.
func BuildPlan(cfg Config) []Operator {
	plan := make([]Operator, 0, 8)

	if cfg.QueryExpansion != nil {
		plan = append(plan, cfg.QueryExpansion)
	}
	if cfg.QueryInterpretation != nil {
		plan = append(plan, cfg.QueryInterpretation)
	}
	if cfg.QdrantFilter != nil {
		plan = append(plan, cfg.QdrantFilter)
	}

	// Embedding and VectorSearch are required; a nil slot here is a
	// programmer error in the caller, not a runtime condition this
	// function handles. The executor asserts both are present before
	// calling BuildPlan.
	if cfg.Embedding != nil {
		plan = append(plan, cfg.Embedding)
	}
	if cfg.VectorSearch != nil {
		plan = append(plan, cfg.VectorSearch)
	}

	if cfg.Recency != nil {
		plan = append(plan, cfg.Recency)
	}
	if cfg.Reranking != nil {
		plan = append(plan, cfg.Reranking)
	}
	if cfg.Completion != nil {
		plan = append(plan, cfg.Completion)
	}

	return plan
}
