// sim/errors.go
// Copyright(c) 2024-2026 judy contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package sim

import (
	"errors"
)

var (
	ErrDuplicateAssetName  = errors.New("Duplicate asset name")
	ErrInvalidSimRate      = errors.New("Invalid simulation rate")
	ErrNoMatchingVariant   = errors.New("No weapon variant matches the requested category")
	ErrNoOwnship           = errors.New("Exercise has no Ownship asset")
	ErrNoWeaponInventory   = errors.New("No remaining inventory for the requested category")
	ErrOwnshipDelete       = errors.New("Ownship cannot be deleted")
	ErrOwnshipDomainChange = errors.New("Ownship domain cannot be changed")
	ErrUnknownEntity       = errors.New("Unknown entity id")
)
