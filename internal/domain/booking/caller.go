package booking

type Role string

const (
	RoleClient   Role = "client"
	RoleProvider Role = "provider"
	RoleAdmin    Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleClient, RoleProvider, RoleAdmin:
		return true
	}
	return false
}

// Caller é a identidade já resolvida por quem chama o motor.
// Um Caller nil significa requisição anônima.
type Caller struct {
	ID   string
	Role Role
}

func (c *Caller) Authenticated() bool {
	return c != nil && c.ID != ""
}

func (c *Caller) IsAdmin() bool {
	return c.Authenticated() && c.Role == RoleAdmin
}
