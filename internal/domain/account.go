package domain

// Account is an authenticated end-user identity issued by the auth provider.
type Account struct {
	UID         string `json:"uid"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName,omitempty"`
	PhotoURL    string `json:"photoURL,omitempty"`
}

// Profile is the editable "users" record keyed by account UID, separate
// from the account identity itself.
type Profile struct {
	UID       string `json:"uid"`
	Email     string `json:"email"`
	Name      string `json:"name,omitempty"`
	Address   string `json:"address,omitempty"`
	CreatedAt string `json:"createdAt"`
}
