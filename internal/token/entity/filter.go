package entity

import "strings"

// genericClassPredicate is the "is a token" predicate search callers put in
// their filter expressions.
const genericClassPredicate = "(class=" + ClassToken + ")"

// RewriteTypeFilter narrows a search filter to one token family.
//
// When typeOption names a known type, the generic class predicate is replaced
// textually with the type-specific one; otherwise the filter is returned
// unchanged and matches every token. No other part of the filter is touched.
func RewriteTypeFilter(filter, typeOption string) string {
	tt := TokenTypeFromString(typeOption)
	if !tt.IsKnown() {
		return filter
	}

	return strings.ReplaceAll(filter, genericClassPredicate, "(class="+ClassForType(tt)+")")
}
