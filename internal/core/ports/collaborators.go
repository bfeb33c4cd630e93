package ports

import "context"

// MailJob is one verification email waiting to be delivered.
type MailJob struct {
	To    string
	Name  string
	Token string
}

// Mailer is the outbound email collaborator. Delivery failure is non-fatal
// to the flows that trigger it; callers log a warning and continue.
type Mailer interface {
	Send(ctx context.Context, job MailJob) error
}

// MailDispatcher decouples request handling from email delivery. Enqueue
// never blocks beyond channel-buffer capacity.
type MailDispatcher interface {
	Enqueue(job MailJob)
}

// ProviderIdentity is what the external identity provider asserts about a
// credential it accepted.
type ProviderIdentity struct {
	Email     string
	Name      string
	SubjectID string
}

// IdentityProvider verifies a provider-issued credential against the
// expected audience.
type IdentityProvider interface {
	Verify(ctx context.Context, credential, audience string) (*ProviderIdentity, error)
}
