package api

import (
	"github.com/JaimeStill/redline/internal/analysis"
	"github.com/JaimeStill/redline/internal/uploads"
	"github.com/JaimeStill/redline/internal/users"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Users    users.System
	Uploads  uploads.System
	Analysis analysis.System
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(runtime *Runtime) *Domain {
	return &Domain{
		Users: users.New(
			runtime.Database.Connection(),
			runtime.Logger,
		),
		Uploads: uploads.New(
			runtime.Storage,
			runtime.Logger,
			runtime.MaxUploadSize,
		),
		Analysis: analysis.New(
			runtime.Model,
			runtime.ModelTimeout,
			runtime.MaxConcurrent,
			runtime.Logger,
		),
	}
}
