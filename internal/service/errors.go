package service

import "errors"

var (
	ErrNotFound                 = errors.New("record not found")
	ErrCodeNotFound             = errors.New("referral code not found")
	ErrAffiliateInactive        = errors.New("affiliate is not active")
	ErrAffiliateStatusInvalid   = errors.New("affiliate status invalid")
	ErrAffiliateEmailTaken      = errors.New("affiliate email already registered")
	ErrAffiliateCodeExhausted   = errors.New("referral code generation exhausted retries")
	ErrAffiliateHasApplications = errors.New("affiliate has attributed applications")
	ErrAttributionConflict      = errors.New("application already attributed to another affiliate")
	ErrApplicationStatusInvalid = errors.New("application status invalid")
	ErrInvalidCredentials       = errors.New("invalid username or password")
	ErrInvalidInput             = errors.New("invalid input")
)
