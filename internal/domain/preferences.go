package domain

// Preferences are the two UI flags persisted next to the shop state.
type Preferences struct {
	IsAdmin    bool   `json:"isAdmin"`
	SearchTerm string `json:"searchTerm"`
}
