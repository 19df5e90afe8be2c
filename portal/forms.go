package portal

import (
	"io"
	"regexp"
	"strings"

	"github.com/feltops/clubportal/internal/errors"
)

var (
	phonePattern   = regexp.MustCompile(`^\d{10}$`)
	aadhaarPattern = regexp.MustCompile(`^\d{12}$`)
	panPattern     = regexp.MustCompile(`^[A-Z]{5}[0-9]{4}[A-Z]$`)
)

// FileAttachment is a form-held upload that has not touched the network yet.
type FileAttachment struct {
	Name        string
	ContentType string
	Reader      io.Reader
	Size        int64
}

// PlayerForm is the create-player modal's draft state. It lives only for
// the duration of the submission.
type PlayerForm struct {
	Name          string
	Phone         string
	Email         string
	AadhaarNumber string
	PANNumber     string
	Aadhaar       *FileAttachment
	PAN           *FileAttachment
}

// validate runs the pre-submit guards. These block the API call and drive a
// toast; the backend revalidates everything.
func (f *PlayerForm) validate() (string, error) {
	if strings.TrimSpace(f.Name) == "" {
		return "Player name is required", errors.Wrapf(errors.ErrMissingField, "[PlayerForm validate] name")
	}
	if !phonePattern.MatchString(f.Phone) {
		return "Enter a valid 10-digit phone number", errors.Wrapf(errors.ErrValidation, "[PlayerForm validate] phone")
	}
	if f.Aadhaar == nil {
		return "Aadhaar document is required", errors.Wrapf(errors.ErrDocumentMissing, "[PlayerForm validate] aadhaar file")
	}
	if f.AadhaarNumber != "" && !aadhaarPattern.MatchString(f.AadhaarNumber) {
		return "Aadhaar number must be 12 digits", errors.Wrapf(errors.ErrValidation, "[PlayerForm validate] aadhaar number")
	}
	if f.PANNumber != "" && !panPattern.MatchString(f.PANNumber) {
		return "Enter a valid PAN number", errors.Wrapf(errors.ErrValidation, "[PlayerForm validate] pan number")
	}
	return "", nil
}

// SuspensionForm is the suspend-player modal's draft state.
type SuspensionForm struct {
	PlayerID string
	Type     string
	Reason   string
}

func (f *SuspensionForm) validate() (string, error) {
	if strings.TrimSpace(f.Type) == "" || strings.TrimSpace(f.Reason) == "" {
		return "Suspension type and reason are required", errors.Wrapf(errors.ErrValidation, "[SuspensionForm validate]")
	}
	return "", nil
}
