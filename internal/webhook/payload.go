package webhook

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Payload is the subset of the GitHub webhook schema this service consumes.
// Validation of required fields is deferred to the handler that needs them,
// since ignored events legitimately omit most of these.
type Payload struct {
	Action       string       `json:"action"`
	Repository   Repository   `json:"repository"`
	Sender       Sender       `json:"sender"`
	Installation Installation `json:"installation"`
}

type Repository struct {
	FullName      string `json:"full_name" validate:"required"`
	URL           string `json:"url" validate:"required"`
	DefaultBranch string `json:"default_branch" validate:"required"`
}

type Sender struct {
	Login string `json:"login" validate:"required"`
}

type Installation struct {
	ID int64 `json:"id" validate:"required"`
}

var validate = validator.New()

// Parse decodes a webhook body. Unknown fields are ignored; required-field
// checks happen in Validate.
func Parse(body []byte) (*Payload, error) {
	var p Payload
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, fmt.Errorf("failed to parse webhook payload: %w", err)
	}
	return &p, nil
}

// Validate checks that every field the repository-created handler reads is
// present.
func (p *Payload) Validate() error {
	if err := validate.Struct(p); err != nil {
		return fmt.Errorf("webhook payload missing required fields: %w", err)
	}
	return nil
}

// OwnerAndName splits the repository full name into its owner and name parts.
func (r Repository) OwnerAndName() (string, string, error) {
	parts := strings.SplitN(r.FullName, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid repository full name: %q", r.FullName)
	}
	return parts[0], parts[1], nil
}
