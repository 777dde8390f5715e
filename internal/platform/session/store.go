// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by a [Store] when the record is absent or expired.
var ErrNotFound = errors.New("session: not found")

// Store persists session records. Implementations must treat an expired
// record as absent.
type Store interface {
	Load(context context.Context, id string) (*Data, error)
	Save(context context.Context, id string, data *Data, ttl time.Duration) error
	Delete(context context.Context, id string) error
}
