package models

// Permission strings embedded in session token claims. These are the
// capability vocabulary; roles never gate behavior directly.
const (
	PermReportLostItem  = "REPORT_LOST_ITEM"
	PermReportFoundItem = "REPORT_FOUND_ITEM"
	PermSubmitClaim     = "SUBMIT_CLAIM"
	PermVerifyClaim     = "VERIFY_CLAIM"
	PermManageItems     = "MANAGE_ITEMS"
	PermManageReports   = "MANAGE_REPORTS"
	PermManageUsers     = "MANAGE_USERS"
)
