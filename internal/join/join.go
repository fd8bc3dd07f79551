package join

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/zeebo/xxh3"

	"travel-etl/internal/etlerr"
	"travel-etl/internal/table"
)

// TraceFunc observes the row count after each executed step (1-based).
type TraceFunc func(step int, s Step, rows int)

// Execute runs plan over the loaded tables and returns the joined table.
func Execute(set table.Set, plan Plan) (*table.Table, error) {
	return ExecuteTrace(set, plan, nil)
}

// ExecuteTrace is Execute with a per-step observer; trace may be nil.
func ExecuteTrace(set table.Set, plan Plan, trace TraceFunc) (*table.Table, error) {
	cur, ok := set[plan.Base]
	if !ok || cur == nil {
		return nil, &etlerr.JoinKeyError{Step: 0, Table: plan.Base, Reason: "table not loaded"}
	}
	for i, s := range plan.Steps {
		right, ok := set[s.Right]
		if !ok || right == nil {
			return nil, &etlerr.JoinKeyError{Step: i + 1, Table: s.Right, Reason: "table not loaded"}
		}
		next, err := innerJoin(i+1, cur, right, s)
		if err != nil {
			return nil, err
		}
		if trace != nil {
			trace(i+1, s, next.Len())
		}
		cur = next
	}
	cur.Name = OutputName
	return cur, nil
}

// InnerJoin joins left and right on s.LeftOn = s.RightOn. Left row order is
// preserved and, per left row, matches are emitted in right row order. Rows
// without a match on either side are dropped. NULL keys never match.
func InnerJoin(left, right *table.Table, s Step) (*table.Table, error) {
	return innerJoin(0, left, right, s)
}

func innerJoin(n int, left, right *table.Table, s Step) (*table.Table, error) {
	lk := left.Index(s.LeftOn)
	if lk < 0 {
		return nil, &etlerr.JoinKeyError{Step: n, Table: left.Name, Column: s.LeftOn}
	}
	rk := right.Index(s.RightOn)
	if rk < 0 {
		return nil, &etlerr.JoinKeyError{Step: n, Table: right.Name, Column: s.RightOn}
	}

	cols, rightIdx, err := mergeColumns(left, right, lk, rk, s)
	if err != nil {
		return nil, &etlerr.JoinKeyError{Step: n, Table: right.Name, Reason: err.Error()}
	}

	idx := newIndex(right, rk)
	out := &table.Table{Name: left.Name, Columns: cols}
	for _, lrow := range left.Rows {
		key, ok := keyOf(lrow[lk])
		if !ok {
			continue
		}
		for _, r := range idx.lookup(key) {
			row := make([]any, 0, len(cols))
			row = append(row, lrow...)
			for _, j := range rightIdx {
				row = append(row, right.Rows[r][j])
			}
			out.Rows = append(out.Rows, row)
		}
	}
	return out, nil
}

// mergeColumns computes the output header and which right columns to carry.
// When both keys share a name the right key is folded into the left one.
func mergeColumns(left, right *table.Table, lk, rk int, s Step) ([]table.Column, []int, error) {
	sameKey := s.LeftOn == s.RightOn

	rightIdx := make([]int, 0, len(right.Columns))
	for j := range right.Columns {
		if sameKey && j == rk {
			continue
		}
		rightIdx = append(rightIdx, j)
	}

	rightNames := make(map[string]bool, len(rightIdx))
	for _, j := range rightIdx {
		rightNames[right.Columns[j].Name] = true
	}

	cols := make([]table.Column, 0, len(left.Columns)+len(rightIdx))
	leftNames := make(map[string]bool, len(left.Columns))
	for i, c := range left.Columns {
		if rightNames[c.Name] && !(sameKey && i == lk) {
			c.Name += s.Suffixes[0]
		}
		leftNames[left.Columns[i].Name] = true
		cols = append(cols, c)
	}
	for _, j := range rightIdx {
		c := right.Columns[j]
		if leftNames[c.Name] {
			c.Name += s.Suffixes[1]
		}
		cols = append(cols, c)
	}

	seen := make(map[string]bool, len(cols))
	for _, c := range cols {
		if seen[c.Name] {
			return nil, nil, fmt.Errorf("duplicate column %q after suffixing %q", c.Name, s.Suffixes)
		}
		seen[c.Name] = true
	}
	return cols, rightIdx, nil
}

// index buckets right rows by the xxh3 hash of their canonical key and keeps
// the key itself to resolve collisions.
type index struct {
	buckets map[uint64][]int
	keys    []string
}

func newIndex(t *table.Table, col int) *index {
	idx := &index{
		buckets: make(map[uint64][]int, len(t.Rows)),
		keys:    make([]string, len(t.Rows)),
	}
	for r, row := range t.Rows {
		key, ok := keyOf(row[col])
		if !ok {
			continue
		}
		idx.keys[r] = key
		h := xxh3.HashString(key)
		idx.buckets[h] = append(idx.buckets[h], r)
	}
	return idx
}

func (idx *index) lookup(key string) []int {
	cand := idx.buckets[xxh3.HashString(key)]
	if len(cand) == 0 {
		return nil
	}
	var out []int
	for _, r := range cand {
		if idx.keys[r] == key {
			out = append(out, r)
		}
	}
	return out
}

// keyOf renders a join key into a type-tagged canonical string. Integral
// floats collapse onto integers so 1 and 1.0 match. ok is false for NULL.
func keyOf(v any) (string, bool) {
	switch x := v.(type) {
	case nil:
		return "", false
	case int64:
		return "i:" + strconv.FormatInt(x, 10), true
	case int:
		return "i:" + strconv.Itoa(x), true
	case int32:
		return "i:" + strconv.FormatInt(int64(x), 10), true
	case float64:
		if x == math.Trunc(x) && math.Abs(x) < 1<<53 {
			return "i:" + strconv.FormatInt(int64(x), 10), true
		}
		return "f:" + strconv.FormatFloat(x, 'g', -1, 64), true
	case string:
		return "s:" + x, true
	case []byte:
		return "s:" + string(x), true
	case bool:
		return "b:" + strconv.FormatBool(x), true
	case time.Time:
		return "t:" + x.UTC().Format(time.RFC3339Nano), true
	default:
		return fmt.Sprintf("v:%T:%v", v, v), true
	}
}
