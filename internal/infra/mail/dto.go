package mail

// Message is one outbound HTML email. All recipients go in a single send.
type Message struct {
	From    string
	To      []string
	Subject string
	HTML    string
}

// NewLeadData feeds the operator notification for a freshly captured lead.
type NewLeadData struct {
	SiteName    string
	Name        string
	Phone       string
	Email       string
	City        string
	Notes       string
	Source      string
	LandingPage string
	Priority    string
	LeadID      string
}

type ContactData struct {
	SiteName string
	Name     string
	Email    string
	Phone    string
	Business string
	Message  string
}

// AssignmentData is what the receiving client sees about a lead.
type AssignmentData struct {
	SiteName   string
	ClientName string
	Name       string
	Phone      string
	Email      string
	City       string
	Notes      string
	LeadID     string
}
