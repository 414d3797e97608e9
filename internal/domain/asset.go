package domain

import "time"

// AssetType enumerates asset kinds.
type AssetType string

const AssetTypeImage AssetType = "image"

// Asset is a published generation result. Content holds its public URL.
type Asset struct {
	ID               string
	BusinessID       string
	Type             AssetType
	Prompt           string
	Content          string
	StyleID          string
	AspectRatio      string
	CampaignID       string
	IsCampaignAnchor bool
	MIMEType         string
	Bytes            int64
	CreatedAt        time.Time
}
