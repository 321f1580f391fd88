package nn

import "gonum.org/v1/gonum/mat"

// gonum refuses zero-sized dense matrices, so a weight matrix with no rows
// or no columns is represented by nil. Every helper below takes the logical
// dimensions explicitly and returns nil whenever a result would be empty.

// appendRow returns w grown by one trailing all-zero row.
func appendRow(w *mat.Dense, rows, cols int) *mat.Dense {
	return resize(w, rows+1, cols)
}

// appendColumn returns w grown by one trailing all-zero column.
func appendColumn(w *mat.Dense, rows, cols int) *mat.Dense {
	return resize(w, rows, cols+1)
}

// resize returns a rows x cols matrix holding w in its top-left corner.
func resize(w *mat.Dense, rows, cols int) *mat.Dense {
	if rows == 0 || cols == 0 {
		return nil
	}
	out := mat.NewDense(rows, cols, nil)
	if w != nil {
		out.Copy(w)
	}
	return out
}

// deleteRow returns w without row i.
func deleteRow(w *mat.Dense, i, rows, cols int) *mat.Dense {
	if rows-1 == 0 || cols == 0 || w == nil {
		return nil
	}
	out := mat.NewDense(rows-1, cols, nil)
	dst := 0
	for r := 0; r < rows; r++ {
		if r == i {
			continue
		}
		out.SetRow(dst, w.RawRowView(r))
		dst++
	}
	return out
}

// deleteColumn returns w without column j. Later columns shift left.
func deleteColumn(w *mat.Dense, j, rows, cols int) *mat.Dense {
	if rows == 0 || cols-1 == 0 || w == nil {
		return nil
	}
	out := mat.NewDense(rows, cols-1, nil)
	for r := 0; r < rows; r++ {
		dst := 0
		for c := 0; c < cols; c++ {
			if c == j {
				continue
			}
			out.Set(r, dst, w.At(r, c))
			dst++
		}
	}
	return out
}

// columnIsZero reports whether every entry of column j is zero.
func columnIsZero(w *mat.Dense, j, rows int) bool {
	if w == nil {
		return true
	}
	for r := 0; r < rows; r++ {
		if w.At(r, j) != 0 {
			return false
		}
	}
	return true
}

// cloneDense returns an independent copy of w.
func cloneDense(w *mat.Dense) *mat.Dense {
	if w == nil {
		return nil
	}
	return mat.DenseCopyOf(w)
}
