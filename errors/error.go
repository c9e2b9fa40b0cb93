package errors

import (
	"fmt"
)

// EndOfIteratorError occurs when Next is called on an exhausted Iterator
type EndOfIteratorError struct{}

// Error returns a textual representation of this EndOfIteratorError
func (e EndOfIteratorError) Error() string {
	return "No more elements"
}

// EmptyDatasetError occurs when an identity-free reduction is applied to zero elements
type EmptyDatasetError struct{}

// Error returns a textual representation of this EmptyDatasetError
func (e EmptyDatasetError) Error() string {
	return "Dataset is empty"
}

// PartitionError tags a transform failure with the partition it arose in
type PartitionError struct {
	Partition int
	Cause     error
}

// Error returns a textual representation of this PartitionError
func (e PartitionError) Error() string {
	return fmt.Sprintf("Partition %d failed: %v", e.Partition, e.Cause)
}

// Unwrap returns the underlying cause of this PartitionError
func (e PartitionError) Unwrap() error {
	return e.Cause
}

// PartitionerMismatchError occurs when two Datasets being joined or cogrouped
// carry incompatible partitioners
type PartitionerMismatchError struct {
	Left  string
	Right string
}

// Error returns a textual representation of this PartitionerMismatchError
func (e PartitionerMismatchError) Error() string {
	return fmt.Sprintf("Partitioners are incompatible: %s vs %s", e.Left, e.Right)
}

// NotPairError occurs when a keyed operation encounters an element which is not a Pair
type NotPairError struct{ Value interface{} }

// Error returns a textual representation of this NotPairError
func (e NotPairError) Error() string {
	return fmt.Sprintf("Element %v is not a Pair", e.Value)
}

// NotBucketError occurs when the exchange phase encounters an element which is not a Bucket
type NotBucketError struct{ Value interface{} }

// Error returns a textual representation of this NotBucketError
func (e NotBucketError) Error() string {
	return fmt.Sprintf("Element %v is not a Bucket", e.Value)
}
