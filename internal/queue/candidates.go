package queue

import "github.com/hupe1980/kdtree/internal/arena"

// Candidates is a bounded buffer of query candidates stored in a result pool.
type Candidates struct {
	pool  *arena.Pool
	refs  []arena.Ref
	limit int
}

// NewCandidates creates a buffer over pool holding at most pool.Cap() entries.
// The pool is reset so the buffer starts empty.
func NewCandidates(pool *arena.Pool) *Candidates {
	pool.Reset()
	return &Candidates{
		pool:  pool,
		limit: pool.Cap(),
	}
}

// Offer adds point at the given distance. While the buffer has room the point
// is appended unconditionally; once full it replaces the current worst entry
// if it is strictly closer.
func (c *Candidates) Offer(point []float32, distance float32) error {
	if len(c.refs) < c.limit {
		r, err := c.pool.Acquire(point)
		if err != nil {
			return err
		}
		c.pool.SetDistance(r, distance)
		c.refs = append(c.refs, r)
		return nil
	}

	c.Sort()
	worst := c.refs[len(c.refs)-1]
	if distance < c.pool.Distance(worst) {
		c.pool.SetPoint(worst, point)
		c.pool.SetDistance(worst, distance)
	}
	return nil
}

// Sort orders the buffer by ascending distance using insertion sort.
// Entries with equal distance keep their insertion order.
func (c *Candidates) Sort() {
	for i := 1; i < len(c.refs); i++ {
		v := c.refs[i]
		d := c.pool.Distance(v)
		j := i
		for j > 0 && c.pool.Distance(c.refs[j-1]) > d {
			c.refs[j] = c.refs[j-1]
			j--
		}
		c.refs[j] = v
	}
}

// Len returns the number of buffered candidates.
func (c *Candidates) Len() int { return len(c.refs) }

// At returns the point and distance of the i-th buffered candidate.
// The point aliases pool memory.
func (c *Candidates) At(i int) ([]float32, float32) {
	r := c.refs[i]
	return c.pool.Point(r), c.pool.Distance(r)
}

// Release empties the buffer and its backing pool.
func (c *Candidates) Release() {
	c.refs = c.refs[:0]
	c.pool.Reset()
}
