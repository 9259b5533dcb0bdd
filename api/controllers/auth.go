package controllers

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/pbertoldo/workshop-backend/api/responses"
	"github.com/pbertoldo/workshop-backend/api/validators"
	"github.com/pbertoldo/workshop-backend/internal/staff"
	pkgAuth "github.com/pbertoldo/workshop-backend/pkg/auth"
	"github.com/pbertoldo/workshop-backend/pkg/config"
	"github.com/pbertoldo/workshop-backend/pkg/db/models"
	"github.com/pbertoldo/workshop-backend/pkg/enums"
	pkgerrors "github.com/pbertoldo/workshop-backend/pkg/errors"
	"github.com/pbertoldo/workshop-backend/pkg/logger"
)

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type staffProfile struct {
	ID     uuid.UUID       `json:"id"`
	Name   string          `json:"name"`
	Email  string          `json:"email"`
	Role   enums.StaffRole `json:"role"`
	Active bool            `json:"active"`
}

func toStaffProfile(member *models.Staff) staffProfile {
	return staffProfile{
		ID:     member.ID,
		Name:   member.Name,
		Email:  member.Email,
		Role:   member.Role,
		Active: member.Active,
	}
}

type loginResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	ExpiresIn   int          `json:"expires_in"`
	Staff       staffProfile `json:"staff"`
}

// Login verifies credentials and mints a staff access token.
func Login(svc staff.Service, jwtCfg config.JWTConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "staff service unavailable"))
			return
		}

		var payload loginRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		member, err := svc.VerifyCredentials(r.Context(), payload.Email, payload.Password)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		token, err := pkgAuth.MintAccessToken(jwtCfg, time.Now(), pkgAuth.AccessTokenPayload{
			StaffID: member.ID,
			Role:    member.Role,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint access token"))
			return
		}

		responses.WriteSuccess(w, loginResponse{
			AccessToken: token,
			TokenType:   "Bearer",
			ExpiresIn:   jwtCfg.ExpirationMinutes * 60,
			Staff:       toStaffProfile(member),
		})
	}
}
