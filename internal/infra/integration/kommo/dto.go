package kommo

// CreateLeadInput is the CRM-side view of a captured lead.
type CreateLeadInput struct {
	LeadID       string
	CustomerName string
	Phone        string
	Email        string
	City         string
	Source       string
	Tags         []string
}

type ContactResponse struct {
	ID        int    `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type embeddedIDs struct {
	Embedded struct {
		Leads []struct {
			ID int `json:"id"`
		} `json:"leads"`
		Contacts []struct {
			ID int `json:"id"`
		} `json:"contacts"`
	} `json:"_embedded"`
}
