package metadata

import (
	"fmt"
	"strings"
)

// InvalidMergeInputError reports that one side of a top-level Merge call was
// not mapping-like.
type InvalidMergeInputError struct {
	Value any
}

func (e *InvalidMergeInputError) Error() string {
	return fmt.Sprintf("metadata: can only merge two mapping-based objects, got %T", e.Value)
}

// MergeConflictError reports an unresolvable same-key conflict, a strategy
// whose merge failed, or a conflict surfaced under the error policy. Key is
// empty when the failure is not tied to a specific key.
type MergeConflictError struct {
	Key     string
	Message string
	Cause   error
}

func (e *MergeConflictError) Error() string {
	b := &strings.Builder{}
	b.WriteString("metadata: merge conflict")
	if e.Key != "" {
		fmt.Fprintf(b, " at key %q", e.Key)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Cause != nil {
		fmt.Fprintf(b, ": %v", e.Cause)
	}
	return b.String()
}

func (e *MergeConflictError) Unwrap() error { return e.Cause }

// InvalidMetadataTypeError reports an attempt to assign a non-mapping,
// non-nil value to a metadata slot.
type InvalidMetadataTypeError struct {
	Value any
}

func (e *InvalidMetadataTypeError) Error() string {
	return fmt.Sprintf("metadata: meta attribute must be mapping-like, got %T", e.Value)
}

// InvalidPolicyError reports an unrecognized conflict policy value.
type InvalidPolicyError struct {
	Policy ConflictPolicy
}

func (e *InvalidPolicyError) Error() string {
	return fmt.Sprintf("metadata: conflict policy must be one of %q, %q, or %q, got %q",
		ConflictSilent, ConflictWarn, ConflictError, string(e.Policy))
}

// AttributeNameCollisionError reports a MetaAttribute name that collides
// with an attribute already present on the owner type.
type AttributeNameCollisionError struct {
	Name  string
	Owner string
}

func (e *AttributeNameCollisionError) Error() string {
	return fmt.Sprintf("metadata: %q not allowed as a MetaAttribute name on %s", e.Name, e.Owner)
}
