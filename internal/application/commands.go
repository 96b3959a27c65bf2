package application

import (
	"github.com/bnema/notebook-runner-cli/internal/domain"
)

type SetTokenCommand struct {
	Ref   string
	Value string
}

type DeleteTokenCommand struct {
	Ref string
}

type StopServerCommand struct {
	Endpoint domain.EndpointConfig
	// Wait blocks until the hub no longer lists the server.
	Wait bool
}
