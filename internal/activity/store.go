// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package activity

import "context"

// Repository is the append-only storage of entries.
type Repository interface {
	Append(context context.Context, entry *Entry) error
	ListNewestFirst(context context.Context) ([]*Entry, error)
}
