package handler

// RESPONSE ENVELOPES:
// Every success body is an object keyed by what it contains, so clients can
// add fields later without breaking:
//
//	GET    /jobs       → {"jobs": [...], "numOfJobs": 2}
//	GET    /jobs/{id}  → {"job": {...}}
//	PATCH  /jobs/{id}  → {"updatedJob": {...}}
//	POST   /auth/login → {"user": {"name": "Ana"}, "token": "eyJ..."}
//
// Errors never use these types; they go through httpx.WriteError.

import (
	"github.com/sakif/jobs-api/internal/model"
	"github.com/sakif/jobs-api/internal/service"
)

type jobsResponse struct {
	Jobs      []model.Job `json:"jobs"`
	NumOfJobs int         `json:"numOfJobs"`
}

type jobResponse struct {
	Job *model.Job `json:"job"`
}

type updatedJobResponse struct {
	UpdatedJob *model.Job `json:"updatedJob"`
}

type authResponse struct {
	User  model.PublicProfile `json:"user"`
	Token string              `json:"token"`
}

func newAuthResponse(res *service.AuthResult) authResponse {
	return authResponse{User: res.User.Profile(), Token: res.Token}
}

type meResponse struct {
	User *model.User `json:"user"`
}
