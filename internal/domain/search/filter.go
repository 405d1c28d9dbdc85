package search

// Filter narrows a similarity query to a subset of the stored chunks.
// All supplied constraints are conjunctive; zero values mean "no constraint".
// It is a typed value object rather than a free-form map so that the filter
// contract is explicit and nothing is interpolated into query strings by
// callers.
type Filter struct {
	documentIDs         []string
	excludedDocumentIDs []string
	ownerScope          string
	caseID              string
}

// NewFilter creates a filter. Any argument may be empty.
func NewFilter(ownerScope, caseID string, documentIDs []string) Filter {
	return Filter{
		ownerScope:  ownerScope,
		caseID:      caseID,
		documentIDs: cloneStrings(documentIDs),
	}
}

// WithOwnerScope returns a copy constrained to the given tenant scope.
func (f Filter) WithOwnerScope(scope string) Filter {
	f.ownerScope = scope
	return f
}

// WithExcludedDocuments returns a copy that rejects chunks belonging to the
// given documents.
func (f Filter) WithExcludedDocuments(documentIDs ...string) Filter {
	f.excludedDocumentIDs = append(cloneStrings(f.excludedDocumentIDs), documentIDs...)
	return f
}

// DocumentIDs returns the document allow-list (nil means any document).
func (f Filter) DocumentIDs() []string { return f.documentIDs }

// ExcludedDocumentIDs returns documents whose chunks must not be returned.
func (f Filter) ExcludedDocumentIDs() []string { return f.excludedDocumentIDs }

// OwnerScope returns the tenant constraint (empty means any).
func (f Filter) OwnerScope() string { return f.ownerScope }

// CaseID returns the case constraint (empty means any).
func (f Filter) CaseID() string { return f.caseID }

// IsEmpty reports whether the filter constrains nothing.
func (f Filter) IsEmpty() bool {
	return f.ownerScope == "" && f.caseID == "" &&
		len(f.documentIDs) == 0 && len(f.excludedDocumentIDs) == 0
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s))
	copy(out, s)
	return out
}
