package userdata

// Status is the outcome of a status-returning operation. Besides the
// constants below, a failed operation returns a Status carrying the driver
// message, optionally prefixed (see Register).
type Status string

// Outcomes shared with the application front end. The literal values are
// matched by callers and must not change.
const (
	StatusSuccess                  Status = "success"
	StatusEmailExists              Status = "Email already exists"
	StatusValidCredentials         Status = "True details"
	StatusEmailNotFound            Status = "Email does not exist"
	StatusIncorrectPassword        Status = "Incorrect password"
	StatusEmailInUse               Status = "Email already in use"
	StatusIncorrectCurrentPassword Status = "Current password is incorrect"
	StatusConnectionFailed         Status = "Database connection failed"
)

const (
	insertErrorPrefix       = "Insert error: "
	registrationErrorPrefix = "Registration error: "
)

// OK reports whether s is one of the two positive outcomes.
func (s Status) OK() bool {
	return s == StatusSuccess || s == StatusValidCredentials
}

func (s Status) String() string {
	return string(s)
}
