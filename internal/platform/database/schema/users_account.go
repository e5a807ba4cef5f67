package schema

// AccountTable represents the 'users.account' table
type AccountTable struct {
	Table        string
	ID           string
	Email        string
	PasswordHash string
	GivenName    string
	FamilyName   string
	BirthDate    string
	Interests    string
	Description  string
	CreatedAt    string
	UpdatedAt    string
}

// Account is the schema definition for users.account
var Account = AccountTable{
	Table:        "users.account",
	ID:           "id",
	Email:        "email",
	PasswordHash: "passwordhash",
	GivenName:    "givenname",
	FamilyName:   "familyname",
	BirthDate:    "birthdate",
	Interests:    "interests",
	Description:  "description",
	CreatedAt:    "createdat",
	UpdatedAt:    "updatedat",
}
