package theory

// SplitRules normalizes the theory's rule list to disjoint
// intervals: two fixed-point phases, each repeatedly
// replacing one rule with the output of a splitting primitive until no
// further split applies. Caches are invalidated and rebuilt afterward.
//
// Running SplitRules twice in succession is idempotent: once no
// rule's SplitNeqRule and no ordered pair's SplitRule yields a
// result, a second pass finds nothing to do.
func (t *Theory) SplitRules() {
	t.splitDisequalities()
	t.splitOverlaps()
	t.Materialize()
}

// splitDisequalities is phase 1: repeatedly pick any rule whose
// SplitNeqRule yields a non-empty result, remove it, and append the
// two replacements. Deterministic: always picks the lowest-index
// splittable rule.
func (t *Theory) splitDisequalities() {
	for {
		idx := -1
		for i, r := range t.rules {
			if parts := r.SplitNeqRule(); parts != nil {
				idx = i
				t.rules = replaceAt(t.rules, i, parts)
				break
			}
		}
		if idx == -1 {
			return
		}
	}
}

// splitOverlaps is phase 2: repeatedly pick any ordered pair (r1, r2)
// of current rules such that r1.SplitRule(r2) yields a non-empty
// result, remove r1, and append the replacements. Deterministic:
// scans (i, j) in index order and acts on the first hit.
func (t *Theory) splitOverlaps() {
	for {
		found := false
		for i := range t.rules {
			for j := range t.rules {
				if i == j {
					continue
				}
				if parts := t.rules[i].SplitRule(t.rules[j]); parts != nil {
					t.rules = replaceAt(t.rules, i, parts)
					found = true
					break
				}
			}
			if found {
				break
			}
		}
		if !found {
			return
		}
	}
}
