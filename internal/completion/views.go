package completion

// RowPredicate decides whether a classified row belongs in a view.
type RowPredicate func(ClassifiedRow) bool

// All is satisfied when every predicate is.
func All(preds ...RowPredicate) RowPredicate {
	return func(r ClassifiedRow) bool {
		for _, p := range preds {
			if !p(r) {
				return false
			}
		}
		return true
	}
}

// Not negates a predicate.
func Not(pred RowPredicate) RowPredicate {
	return func(r ClassifiedRow) bool {
		return !pred(r)
	}
}

// HasFacts matches rows that were not synthesized by Merge.
func HasFacts() RowPredicate {
	return func(r ClassifiedRow) bool {
		return !r.Synthetic
	}
}

// AnyCompleted matches rows with at least one Completed cell.
func AnyCompleted() RowPredicate {
	return func(r ClassifiedRow) bool {
		for _, c := range r.Cells {
			if c.Status == Completed {
				return true
			}
		}
		return false
	}
}

// AllCompleted matches rows whose every in-scope cell is Completed. A row
// with no cells matches vacuously.
func AllCompleted() RowPredicate {
	return func(r ClassifiedRow) bool {
		for _, c := range r.Cells {
			if c.Status != Completed {
				return false
			}
		}
		return true
	}
}

// AirstripUsed matches rows whose airstrip has any precedent at all.
func AirstripUsed(precedent Precedent) RowPredicate {
	return func(r ClassifiedRow) bool {
		return precedent.Used(r.Airstrip.Ident)
	}
}

// CompleteView keeps rows backed by at least one in-scope checkout.
func CompleteView() RowPredicate {
	return All(HasFacts(), AnyCompleted())
}

// IncompleteView keeps rows with something left to do at an airstrip that is
// in use. An airstrip nobody has completed anything at is not incomplete, it
// is simply not in use yet.
func IncompleteView(precedent Precedent) RowPredicate {
	return All(Not(AllCompleted()), AirstripUsed(precedent))
}

// Select returns the rows matching pred, preserving order.
func Select(rows []ClassifiedRow, pred RowPredicate) []ClassifiedRow {
	out := make([]ClassifiedRow, 0, len(rows))
	for _, r := range rows {
		if pred(r) {
			out = append(out, r)
		}
	}
	return out
}

// twoState reports every non-Completed cell as Pending. The complete view
// only distinguishes what a pilot has done from what they have not.
func twoState(r ClassifiedRow) ClassifiedRow {
	cells := make([]Cell, len(r.Cells))
	for i, c := range r.Cells {
		if c.Status != Completed {
			c.Status = Pending
		}
		cells[i] = c
	}
	r.Cells = cells
	return r
}
