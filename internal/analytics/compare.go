package analytics

// Comparison holds the count of one value on two selections.
type Comparison struct {
	Value  string `json:"value"`
	First  int    `json:"first"`
	Second int    `json:"second"`
}

// Compare aligns two count tables by value. Values missing from one side
// count as zero. Order follows first, then values only present in second.
func Compare(first, second []Count) []Comparison {
	out := make([]Comparison, 0, len(first)+len(second))
	index := make(map[string]int, len(first)+len(second))
	for _, c := range first {
		index[c.Value] = len(out)
		out = append(out, Comparison{Value: c.Value, First: c.Count})
	}
	for _, c := range second {
		if i, ok := index[c.Value]; ok {
			out[i].Second = c.Count
			continue
		}
		index[c.Value] = len(out)
		out = append(out, Comparison{Value: c.Value, Second: c.Count})
	}
	return out
}
