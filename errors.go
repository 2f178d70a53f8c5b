package pathmod

import (
	"errors"
	"fmt"
	"strings"
)

// Issue codes (exported consts for IDE completion and type safety by convention)
const (
	CodeNotStruct    = "not_struct"    // container type is not a plain struct
	CodeNoFields     = "no_fields"     // container struct declares zero fields
	CodeVariantType  = "variant_type"  // container is an interface (variant) type
	CodeNilSelector  = "nil_selector"  // For/MustFor received a nil selector
	CodeNotAField    = "not_a_field"   // selector did not address storage inside the container
	CodeMisaligned   = "misaligned"    // derived offset is not aligned for the field type
	CodeUnknownField = "unknown_field" // ForName: no field with that name
	CodeIndexRange   = "index_range"   // ForIndex: index outside [0, NumField)
	CodeTypeMismatch = "type_mismatch" // declared field type differs from the requested field type
	CodeUnknownType  = "unknown_type"  // generator: no type declaration with that name in the package
	CodeGenericType  = "generic_type"  // generator: target declares type parameters, layout is not fixed
)

// Issue represents a single construction-time rejection.
type Issue struct {
	Container string // Go type of the container, e.g. "main.User".
	Field     string // Field name or index when known, "" otherwise.
	Code      string // One of the codes listed above.
	Message   string
}

func (i Issue) Error() string {
	if i.Field == "" {
		return fmt.Sprintf("pathmod: %s: %s (%s)", i.Container, i.Message, i.Code)
	}
	return fmt.Sprintf("pathmod: %s.%s: %s (%s)", i.Container, i.Field, i.Message, i.Code)
}

// Issues is a collection of construction rejections that implements error.
// The generator aggregates one Issue per rejected target type.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := n
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		fmt.Fprintf(b, "%s at %s", it.Code, it.Container)
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// AsIssue extracts an Issue from an error using errors.As internally.
func AsIssue(err error) (Issue, bool) {
	if err == nil {
		return Issue{}, false
	}
	var is Issue
	if errors.As(err, &is) {
		return is, true
	}
	return Issue{}, false
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}
