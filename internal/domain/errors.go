package domain

import "errors"

var (
	ErrNotFound         = errors.New("not found")
	ErrInvalidCampaign  = errors.New("invalid campaign request")
	ErrBusinessNotFound = errors.New("business not found")
	ErrCampaignNotFound = errors.New("campaign not found")
	ErrNoAnchor         = errors.New("campaign has no anchor image")
	ErrCampaignBusy     = errors.New("campaign is being modified by another operation")
	ErrProviderFailure  = errors.New("provider failure")
	ErrNoImageReturned  = errors.New("provider returned no image")
	ErrUploadFailed     = errors.New("asset upload failed")
)
