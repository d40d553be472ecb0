package domain

import "time"

// DirectoryUser is a user account as returned by the identity directory.
type DirectoryUser struct {
	ID                string
	DisplayName       string
	UserPrincipalName string
	JobTitle          string
	Department        string
	CompanyName       string
	City              string
	State             string
	AccountEnabled    bool
	CreatedDateTime   string
}

// Location is an office location inferred from directory users.
type Location struct {
	Name     string
	State    string
	Timezone string
}

// SyncedUser pairs a directory user with the tenant it was read from.
type SyncedUser struct {
	Tenant string
	User   DirectoryUser
}

// ParseDirectoryTime parses the directory's creation timestamp. Empty and
// "None" values yield nil.
func ParseDirectoryTime(v string) (*time.Time, error) {
	if v == "" || v == "None" {
		return nil, nil
	}

	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return nil, err
	}

	return &t, nil
}
