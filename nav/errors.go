// nav/errors.go
// Copyright(c) 2024-2026 judy contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package nav

import (
	"errors"
)

var (
	ErrInvalidWaypointIndex = errors.New("Invalid waypoint index")
)
