package engine

// ============================================================================
// FILTERS — Year-Range + State Filtering via RecordView
// ============================================================================
// Single pass: malformed check, range check, and state check per record.
// Returns a SubView (index list into parent) — zero data copy.
// ============================================================================

// Contains reports whether a well-formed record passes the normalized filter.
// The caller is expected to pass a filter that went through Normalize.
func (f FilterSpec) Contains(r Record) bool {
	if r.Year < f.StartYear || r.Year > f.EndYear {
		return false
	}
	if f.IsAllStates() {
		return true
	}
	return r.State == f.State
}

// ApplyFilter returns a view of the well-formed records matching filter.
// The year range is normalized first, so reversed bounds behave like the
// swapped ones. Malformed records are excluded and reported to the reject
// hook, if any.
func ApplyFilter(view RecordView, filter FilterSpec, opts ...Option) RecordView {
	cfg := applyOptions(opts)
	return applyFilter(view, filter.Normalize(), cfg)
}

func applyFilter(view RecordView, f FilterSpec, cfg *config) RecordView {
	n := view.Len()
	indices := make([]int, 0, n)
	for i := 0; i < n; i++ {
		r := view.At(i)
		if reason := r.Reason(); reason != RejectNone {
			if cfg.RejectHook != nil {
				cfg.RejectHook(r, reason)
			}
			continue
		}
		if f.Contains(r) {
			indices = append(indices, i)
		}
	}
	return newSubView(view, indices)
}
