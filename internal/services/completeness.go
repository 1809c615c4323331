package services

import (
	"sort"

	"github.com/pulistar/alumni/internal/types"
)

// RequiredDocumentTypes is the set of document types a graduate must upload
// before unified generation auto-triggers. The slice order is also the
// canonical page order inside the unified artifact.
var RequiredDocumentTypes = []types.DocumentType{
	types.DocTypeMomentoOLE,
	types.DocTypeDatosEgresado,
	types.DocTypeBolsaEmpleo,
}

// preferredOrder extends the canonical order with the open "otro" category,
// used by the flexible comparator on the lazy generation path.
var preferredOrder = []types.DocumentType{
	types.DocTypeMomentoOLE,
	types.DocTypeDatosEgresado,
	types.DocTypeBolsaEmpleo,
	types.DocTypeOther,
}

// HasAllRequiredDocuments reports whether the distinct types present in docs
// cover every required type. Unified rows must never reach this function;
// they are filtered out at the repo query.
func HasAllRequiredDocuments(docs []*types.GraduateDocument) bool {
	present := make(map[types.DocumentType]bool, len(docs))
	for _, d := range docs {
		if d == nil || d.Unified {
			continue
		}
		present[d.Type] = true
	}
	for _, required := range RequiredDocumentTypes {
		if !present[required] {
			return false
		}
	}
	return true
}

func typeIndex(order []types.DocumentType, t types.DocumentType) int {
	for i, o := range order {
		if o == t {
			return i
		}
	}
	return -1
}

// SortCanonical orders documents by the required-type sequence. Documents of
// types outside the sequence keep their relative input order and sort after
// the known types. The sort is stable so repeated runs over the same set
// produce identical page ordering.
func SortCanonical(docs []*types.GraduateDocument) []*types.GraduateDocument {
	sorted := make([]*types.GraduateDocument, len(docs))
	copy(sorted, docs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return lessByOrder(RequiredDocumentTypes, sorted[i].Type, sorted[j].Type)
	})
	return sorted
}

// SortFlexible orders documents for lazy generation: required types first in
// canonical order, then "otro", then anything else in original order.
func SortFlexible(docs []*types.GraduateDocument) []*types.GraduateDocument {
	sorted := make([]*types.GraduateDocument, len(docs))
	copy(sorted, docs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return lessByOrder(preferredOrder, sorted[i].Type, sorted[j].Type)
	})
	return sorted
}

func lessByOrder(order []types.DocumentType, a, b types.DocumentType) bool {
	ia := typeIndex(order, a)
	ib := typeIndex(order, b)
	if ia != -1 && ib != -1 {
		return ia < ib
	}
	// Known types come before unknown ones; two unknowns keep input order.
	if ia != -1 {
		return true
	}
	return false
}
