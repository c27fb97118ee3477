package client

import (
	"strings"

	ierr "github.com/factupro/factupro/internal/errors"
	"github.com/factupro/factupro/internal/types"
)

// Client is the counterparty a document is addressed to
type Client struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	MF      string `json:"mf"`
	Address string `json:"address"`
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`

	types.BaseModel
}

func (c *Client) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ierr.NewError("client name is required").
			WithHint("Please provide the client name").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// Snapshot returns an owned copy for embedding into a document
func (c *Client) Snapshot() Client {
	return *c
}
