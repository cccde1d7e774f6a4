package domain

type User struct {
	ID        int64  `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Role      string `json:"role"`
}

func (u User) FullName() string {
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// Settings are the organization-wide system settings of the remote API.
type Settings struct {
	Currency          string `json:"currency"`
	OrganizationName  string `json:"organizationName"`
	Location          string `json:"location"`
	OrganizationEmail string `json:"organizationEmail"`
	OrganizationPhone string `json:"organizationPhone"`
	TIN               string `json:"tin"`
}

// Session is populated at login, read when a register opens and cleared at
// logout. Settings is nil when they could not be fetched.
type Session struct {
	ID       string
	Token    string
	User     User
	Settings *Settings
}

func (s Session) CurrencyCode() string {
	if s.Settings == nil {
		return ""
	}
	return s.Settings.Currency
}
