package batch

// Progress is a snapshot taken after a batch completes.
type Progress struct {
	Items       int
	ItemsDone   int
	Batches     int
	BatchesDone int
}

// Fraction returns the share of items processed, in [0,1]. An empty run
// is fully done.
func (p Progress) Fraction() float64 {
	if p.Items == 0 {
		return 1
	}
	return float64(p.ItemsDone) / float64(p.Items)
}

// Done reports whether every batch has completed.
func (p Progress) Done() bool {
	return p.BatchesDone >= p.Batches
}
