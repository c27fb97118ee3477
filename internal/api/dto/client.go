package dto

import (
	"strings"

	"github.com/factupro/factupro/internal/domain/client"
	"github.com/factupro/factupro/internal/types"
	"github.com/factupro/factupro/internal/validator"
)

type CreateClientRequest struct {
	Name    string `json:"name" validate:"required"`
	MF      string `json:"mf"`
	Address string `json:"address"`
	Email   string `json:"email,omitempty" validate:"omitempty,email"`
	Phone   string `json:"phone,omitempty"`
}

type UpdateClientRequest struct {
	Name    *string `json:"name,omitempty" validate:"omitempty,min=1"`
	MF      *string `json:"mf,omitempty"`
	Address *string `json:"address,omitempty"`
	Email   *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone   *string `json:"phone,omitempty"`
}

type ClientResponse struct {
	*client.Client
}

// ListClientsResponse represents the response for listing clients
type ListClientsResponse = types.ListResponse[*ClientResponse]

func (r *CreateClientRequest) Validate() error {
	return validator.ValidateRequest(r)
}

func (r *CreateClientRequest) ToClient() *client.Client {
	return &client.Client{
		ID:        types.GenerateUUIDWithPrefix(types.UUID_PREFIX_CLIENT),
		Name:      strings.TrimSpace(r.Name),
		MF:        r.MF,
		Address:   r.Address,
		Email:     r.Email,
		Phone:     r.Phone,
		BaseModel: types.GetDefaultBaseModel(),
	}
}

func (r *UpdateClientRequest) Validate() error {
	return validator.ValidateRequest(r)
}

// Apply copies the provided fields onto c
func (r *UpdateClientRequest) Apply(c *client.Client) {
	if r.Name != nil {
		c.Name = strings.TrimSpace(*r.Name)
	}
	if r.MF != nil {
		c.MF = *r.MF
	}
	if r.Address != nil {
		c.Address = *r.Address
	}
	if r.Email != nil {
		c.Email = *r.Email
	}
	if r.Phone != nil {
		c.Phone = *r.Phone
	}
}
