package resources

// Resource is a protected asset an app may be granted access to. Which
// apps may reach it is held in the permissions link store, not here.
type Resource struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
