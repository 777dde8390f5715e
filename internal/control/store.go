// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package control

import "context"

// Repository persists control items.
type Repository interface {
	// List returns every item, newest id first.
	List(context context.Context) ([]*Control, error)

	// FindByID returns apperr NOT_FOUND for a missing id.
	FindByID(context context.Context, id int64) (*Control, error)

	// Create sets the generated ID and timestamps on control.
	Create(context context.Context, control *Control) error

	// Update rewrites every writable column of control.ID.
	Update(context context.Context, control *Control) error

	// Delete returns apperr NOT_FOUND when no row was removed.
	Delete(context context.Context, id int64) error
}
