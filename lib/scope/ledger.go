package scope

// GenerationLedger records which resources were materialized by a prior run
// generation so builders can apply "already exists, skip" checks instead of
// re-declaring them. Idempotency here is structural, not transactional.
type GenerationLedger struct {
	seen map[NetworkResourceRef]struct{}
}

func NewGenerationLedger(refs []NetworkResourceRef) *GenerationLedger {
	l := &GenerationLedger{seen: make(map[NetworkResourceRef]struct{}, len(refs))}
	for _, ref := range refs {
		l.seen[ref] = struct{}{}
	}
	return l
}

// Contains reports whether the resource was materialized by a prior run.
func (l *GenerationLedger) Contains(ref NetworkResourceRef) bool {
	if l == nil {
		return false
	}
	_, ok := l.seen[ref]
	return ok
}

// Record marks a resource as materialized in this run.
func (l *GenerationLedger) Record(ref NetworkResourceRef) {
	if l.seen == nil {
		l.seen = make(map[NetworkResourceRef]struct{})
	}
	l.seen[ref] = struct{}{}
}
