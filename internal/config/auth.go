package config

import "github.com/casdoor/casdoor-go-sdk/casdoorsdk"

// AuthConfig points at the Casdoor instance that issues user tokens.
type AuthConfig struct {
	Endpoint         string
	ClientID         string
	ClientSecret     string
	Certificate      string
	OrganizationName string
	ApplicationName  string
}

func (c *AuthConfig) NewCasdoorClient() *casdoorsdk.Client {
	return casdoorsdk.NewClient(
		c.Endpoint,
		c.ClientID,
		c.ClientSecret,
		c.Certificate,
		c.OrganizationName,
		c.ApplicationName,
	)
}
