// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package hour

import "context"

// Repository defines the persistence contract for hour records.
type Repository interface {
	List(context context.Context) ([]*Hour, error)
	ListByOwner(context context.Context, userCode string) ([]*Hour, error)
	FindByID(context context.Context, id int64) (*Hour, error)
	OwnerOf(context context.Context, id int64) (string, error)
	Create(context context.Context, hour *Hour) error

	// Update and Delete only touch the row when userCode still owns it.
	Update(context context.Context, hour *Hour) error
	Delete(context context.Context, id int64, userCode string) error
}
