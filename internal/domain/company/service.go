package company

import "context"

// CompanyService exposes the authenticated company's own profile. The company
// is identified by claims, never by a caller-supplied ID.
type CompanyService interface {
	GetProfile(ctx context.Context) (CompanyResponse, error)
}
