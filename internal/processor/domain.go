package processor

import "time"

// Processor is a configured payment backend owned by an organization.
type Processor struct {
	ID          int64
	OrgID       int64
	Kind        string
	Credentials []byte
	IsDefault   bool
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CampaignLink associates a campaign with a processor. At most one link per
// campaign is flagged primary.
type CampaignLink struct {
	CampaignID  int64
	ProcessorID int64
	IsPrimary   bool
}
