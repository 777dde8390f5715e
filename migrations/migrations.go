// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package migrations embeds the SQL schema migrations applied at startup.
package migrations

import "embed"

// Files holds every *.sql migration, named <version>_<title>.<up|down>.sql.
//
//go:embed *.sql
var Files embed.FS
