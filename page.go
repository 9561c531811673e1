package bikeshare

import (
	"fmt"
	"iter"
)

// Page is a slice of a view's trips starting at Offset.
type Page struct {
	Offset  int
	Rows    []Trip
	HasMore bool
}

// RowPage returns up to size trips starting at offset. HasMore is true iff
// offset+size is short of the end of the view. An offset at or past the end
// gives an empty page. Views never change, so the same arguments always give
// the same rows.
func (v *View) RowPage(offset, size int) (Page, error) {
	if offset < 0 || size <= 0 {
		return Page{}, fmt.Errorf("%w: offset %d, size %d", ErrInvalidPage, offset, size)
	}
	// offset+size can overflow, so compare against what is left instead.
	left := max(v.Len()-offset, 0)
	end := offset + min(size, left)
	page := Page{Offset: offset, HasMore: size < left}
	for i := offset; i < end; i++ {
		page.Rows = append(page.Rows, v.Trip(i))
	}
	return page, nil
}

// Pages yields consecutive pages of size trips from the start of the view,
// ending with the page whose HasMore is false. An empty view yields a single
// empty page; a size below one yields nothing.
func (v *View) Pages(size int) iter.Seq[Page] {
	return func(yield func(Page) bool) {
		if size <= 0 {
			return
		}
		for offset := 0; ; offset += size {
			page, err := v.RowPage(offset, size)
			if err != nil || !yield(page) || !page.HasMore {
				return
			}
		}
	}
}
