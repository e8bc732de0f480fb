package transfer

import (
	"github.com/hashicorp/go-multierror"

	"github.com/gistfs/gistfs/model/vfs"
)

// Status is the outcome of one item of a batch operation.
type Status string

const (
	// StatusWritten means the item was transferred.
	StatusWritten Status = "written"
	// StatusSkipped means the item was left untouched, either declined
	// by the user or dropped after a cancellation.
	StatusSkipped Status = "skipped"
	// StatusFailed means the transfer of this item failed; the failure
	// does not abort the sibling items of the batch.
	StatusFailed Status = "failed"
)

// Item is the outcome of one address of a batch operation.
type Item struct {
	Target  string
	Address vfs.Address
	Status  Status
	Err     error
}

// Report is the cumulative outcome of a batch operation. Items that
// completed stay committed even when later items fail or the batch is
// cancelled.
type Report struct {
	Items []Item
}

func (r *Report) add(item Item) {
	r.Items = append(r.Items, item)
}

// Count returns the number of items with the given status.
func (r *Report) Count(status Status) int {
	n := 0
	for _, item := range r.Items {
		if item.Status == status {
			n++
		}
	}
	return n
}

// Err returns the accumulated failures of the batch, or nil if no item
// failed.
func (r *Report) Err() error {
	var result *multierror.Error
	for _, item := range r.Items {
		if item.Status == StatusFailed && item.Err != nil {
			result = multierror.Append(result, item.Err)
		}
	}
	return result.ErrorOrNil()
}
