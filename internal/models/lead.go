package models

import "time"

type LeadStatus string

const (
	LeadStatusNew       LeadStatus = "NEW"
	LeadStatusContacted LeadStatus = "CONTACTED"
	LeadStatusQualified LeadStatus = "QUALIFIED"
	LeadStatusConverted LeadStatus = "CONVERTED"
	LeadStatusLost      LeadStatus = "LOST"
)

type LeadRating string

const (
	RatingHot  LeadRating = "HOT"
	RatingWarm LeadRating = "WARM"
	RatingCold LeadRating = "COLD"
)

type Lead struct {
	ID        string     `json:"id"`
	FirstName string     `json:"first_name"`
	LastName  string     `json:"last_name"`
	Email     string     `json:"email"`
	Phone     string     `json:"phone"`
	Company   string     `json:"company"`
	JobTitle  string     `json:"job_title"`
	Source    string     `json:"source"`
	Status    LeadStatus `json:"status"`
	Score     int        `json:"score"`
	Rating    LeadRating `json:"rating"`
	OwnerID   string     `json:"owner_id"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// LeadScoringCriteria holds the per-field point values used to score a lead.
type LeadScoringCriteria struct {
	HasEmail      int
	HasPhone      int
	HasCompany    int
	HasJobTitle   int
	SourceWeights map[string]int
}

var DefaultScoringCriteria = LeadScoringCriteria{
	HasEmail:    20,
	HasPhone:    15,
	HasCompany:  15,
	HasJobTitle: 10,
	SourceWeights: map[string]int{
		"REFERRAL":   30,
		"WEBSITE":    20,
		"EVENT":      15,
		"COLD_CALL":  5,
		"ADVERTISED": 10,
	},
}

type LeadFilter struct {
	Status  *LeadStatus
	Rating  *LeadRating
	OwnerID *string
}
