package user

// Principal is the verified identity attached to authenticated requests.
// Verification happens at the gatekeeper service; this core trusts the result.
type Principal struct {
	UserID string
	Name   string
	School string
}
