package org

import "time"

// DefaultProcessorSelector is the initial active-processor selector written
// into settings rows created by provisioning.
const DefaultProcessorSelector = "stripe"

// Organization is an isolated tenant account (a synagogue/community).
type Organization struct {
	ID           int64
	Name         string
	Slug         string
	ContactEmail string
	ContactPhone string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Settings is the one-to-one configuration row for an organization.
type Settings struct {
	OrgID           int64
	ActiveProcessor string
	// Credentials holds per-processor credential blobs keyed by processor
	// kind, stored as jsonb.
	Credentials []byte
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
