package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"
)

const (
	certChainHeader    = "SignatureCertChainUrl"
	signatureHeader    = "Signature"
	signature256Header = "Signature-256"
	certHost           = "s3.amazonaws.com"
	certPathPrefix     = "/echo.api/"
	timestampTolerance = 150 * time.Second
)

// Verifier performs the envelope checks the voice platform requires of a
// hosted skill: certificate URL shape, signature presence, request freshness
// and application ID. Cryptographic signature validation is left to the
// fronting gateway.
type Verifier struct {
	enabled       bool
	applicationID string
	now           func() time.Time
}

func NewVerifier(enabled bool, applicationID string) *Verifier {
	return &Verifier{
		enabled:       enabled,
		applicationID: applicationID,
		now:           time.Now,
	}
}

func (v *Verifier) Verify(header http.Header, env RequestEnvelope) error {
	if !v.enabled {
		return nil
	}

	if err := verifyCertChainURL(header.Get(certChainHeader)); err != nil {
		return err
	}

	if header.Get(signature256Header) == "" && header.Get(signatureHeader) == "" {
		return errors.New("missing signature header")
	}

	ts, err := time.Parse(time.RFC3339, env.Request.Timestamp)
	if err != nil {
		return fmt.Errorf("invalid timestamp %q: %w", env.Request.Timestamp, err)
	}
	if age := v.now().Sub(ts); age > timestampTolerance || age < -timestampTolerance {
		return fmt.Errorf("timestamp %s outside tolerance", env.Request.Timestamp)
	}

	if v.applicationID != "" && env.ApplicationID() != v.applicationID {
		return fmt.Errorf("unexpected application id %q", env.ApplicationID())
	}

	return nil
}

func verifyCertChainURL(raw string) error {
	if raw == "" {
		return errors.New("missing certificate chain url")
	}

	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid certificate chain url: %w", err)
	}

	if !strings.EqualFold(u.Scheme, "https") {
		return fmt.Errorf("certificate chain url scheme %q is not https", u.Scheme)
	}
	if !strings.EqualFold(u.Hostname(), certHost) {
		return fmt.Errorf("certificate chain url host %q not allowed", u.Hostname())
	}
	if port := u.Port(); port != "" && port != "443" {
		return fmt.Errorf("certificate chain url port %q not allowed", port)
	}
	if !strings.HasPrefix(path.Clean(u.Path), certPathPrefix) {
		return fmt.Errorf("certificate chain url path %q not allowed", u.Path)
	}

	return nil
}
