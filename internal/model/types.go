package model

import (
	"context"

	"github.com/a1s/ntable/internal/column"
	"github.com/a1s/ntable/internal/params"
)

// TableListener represents a table model listener.
type TableListener interface {
	// TableColumnsBuilt notifies the columns were (re)built.
	TableColumnsBuilt([]*column.Accessor)

	// TableDataChanged notifies a reload replaced the dataset.
	TableDataChanged(rows []any)

	// TableLoadingChanged notifies a reload started or finished.
	TableLoadingChanged(loading bool)

	// TableLoadFailed notifies the load failed.
	TableLoadFailed(error)
}

// TableModel is the controller surface a view drives.
type TableModel interface {
	// Params returns the bound parameters.
	Params() *params.Params

	// Columns returns the built columns.
	Columns() []*column.Accessor

	// Apply mutates the bound parameters and runs an update cycle.
	Apply(func(*params.Params))

	// SortBy sorts by a column.
	SortBy(col *column.Accessor, multi bool)

	// Resolver returns the filter data resolver of the built columns.
	Resolver() *column.Resolver

	// Reload reloads the bound parameters.
	Reload() *params.Result

	// Wait blocks until the current reload finished.
	Wait(context.Context) error

	// AddListener registers a table listener.
	AddListener(TableListener)

	// RemoveListener unregisters a table listener.
	RemoveListener(TableListener)
}
