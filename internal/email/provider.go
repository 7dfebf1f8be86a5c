package email

// Email is a single outbound message.
type Email struct {
	To      []string
	Subject string
	Body    string
	HTML    bool
}

// Provider sends outbound mail.
type Provider interface {
	Send(email *Email) error
	Validate() error
}
