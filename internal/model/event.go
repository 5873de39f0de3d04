// Copyright (c) 2025-2026 Aurevra Jewelry
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model holds shared constants for the event log.
package model

// Event log severity levels.
const (
	EventLevelInfo    = "info"
	EventLevelWarning = "warning"
	EventLevelError   = "error"
)

// Event log categories.
const (
	EventCategoryAuth    = "auth"
	EventCategoryCart    = "cart"
	EventCategoryCatalog = "catalog"
	EventCategoryOrder   = "order"
	EventCategoryAdmin   = "admin"
	EventCategoryCache   = "cache"
	EventCategorySystem  = "system"
)
