package vault

import (
	vault "github.com/hashicorp/vault/api"
)

// Client wraps a Vault API client authenticated via AppRole.
type Client struct {
	client *vault.Client
}
