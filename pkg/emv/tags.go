// Package emv implements the candidate-application side of EMV
// application selection: building candidate records from payment system
// directory entries or FCI responses, maintaining the candidate list, and
// applying the support, priority and confirmation rules of Book 1.
package emv

// BER-TLV tags consumed during application selection (EMV Book 1).
const (
	TagAID                  = "4F" // Application Identifier (ADF Name) in a directory entry
	TagApplicationLabel     = "50"
	TagApplicationTemplate  = "61"
	TagFCITemplate          = "6F"
	TagRecordTemplate       = "70"
	TagDFName               = "84" // Dedicated File Name in an FCI
	TagPriorityIndicator    = "87" // Application Priority Indicator
	TagSFI                  = "88" // Short File Identifier of the directory EF
	TagDDFName              = "9D"
	TagIssuerCodeTableIndex = "9F11"
	TagPreferredName        = "9F12" // Application Preferred Name
)
