package model

// CustomerProfile is the attribute record of a bank customer contacted by a
// term-deposit marketing campaign. It is a value type: callers receive copies,
// so a profile cannot change once constructed.
type CustomerProfile struct {
	Job       string
	Marital   string
	Education string
	Default   string
	Housing   string
	Loan      string
	Contact   string
	Month     string
	Poutcome  string
	Balance   float64
	Age       int
	Day       int
	Campaign  int
	Pdays     int
	Previous  int
}
