package bikeshare

import "iter"

// View is a read-only subset of a Table, held as indices into it so that
// filtering never copies or modifies trips.
type View struct {
	table   *Table
	indices []int
}

func (v *View) Len() int { return len(v.indices) }

func (v *View) City() City { return v.table.City }

// Fields reports which optional fields the underlying table carries.
func (v *View) Fields() Fields { return v.table.Fields }

// Trip returns a copy of the i'th trip of the view. It panics if i is out of
// range, like indexing a slice.
func (v *View) Trip(i int) Trip {
	return v.table.Trips[v.indices[i]]
}

// All yields the trips of the view in order.
func (v *View) All() iter.Seq2[int, Trip] {
	return func(yield func(int, Trip) bool) {
		for i, idx := range v.indices {
			if !yield(i, v.table.Trips[idx]) {
				return
			}
		}
	}
}
