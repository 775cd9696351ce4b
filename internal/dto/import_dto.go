package dto

// ImportReport summarizes an admin Excel team import.
type ImportReport struct {
	Created int          `json:"created"`
	Updated int          `json:"updated"`
	Total   int          `json:"total"`
	Skipped []SkippedRow `json:"skipped"`
}

// SkippedRow explains why one spreadsheet row was not imported.
type SkippedRow struct {
	TeamName string `json:"team_name"`
	Reason   string `json:"reason"`
}
