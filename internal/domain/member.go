package domain

// Member is the commerce-side customer record a cart belongs to.
type Member struct {
	ID    string `json:"id"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

// UserAccount is the identity-side record for a registered user. Its
// MemberID links back to the commerce member when the two differ.
type UserAccount struct {
	ID       string `json:"id"`
	UserName string `json:"userName"`
	MemberID string `json:"memberId,omitempty"`
}
