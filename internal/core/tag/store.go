// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package tag

import "context"

// Repository defines the persistence operations for tags.
type Repository interface {
	// List returns one page of projected rows and the total number of rows
	// matching the filter, both read from the same snapshot.
	List(ctx context.Context, query ListQuery) ([]View, int, error)

	// Count returns the number of tags and the number of [CipaiType] tags
	// in one atomic read.
	Count(ctx context.Context) (Counts, error)

	// GetByID returns nil without error when the tag does not exist.
	GetByID(ctx context.Context, id int) (*Tag, error)

	// Create inserts a tag and returns it with its assigned id.
	Create(ctx context.Context, attrs Attributes) (*Tag, error)

	// Update overwrites the non-nil attributes of an existing tag.
	// It returns NOT_FOUND when id does not exist.
	Update(ctx context.Context, id int, attrs Attributes) (*Tag, error)

	// Delete removes a tag and returns the deleted row.
	// It returns NOT_FOUND when id does not exist.
	Delete(ctx context.Context, id int) (*Tag, error)
}
