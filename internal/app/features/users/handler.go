// internal/app/features/users/handler.go
package users

import (
	"context"
	"net/http"

	"github.com/dalemusser/educollab/internal/app/policy/userpolicy"
	userstore "github.com/dalemusser/educollab/internal/app/store/users"
	"github.com/dalemusser/educollab/internal/app/system/apierrors"
	"github.com/dalemusser/educollab/internal/app/system/auth"
	"github.com/dalemusser/educollab/internal/app/system/formutil"
	"github.com/dalemusser/educollab/internal/app/system/normalize"
	"github.com/dalemusser/educollab/internal/app/system/timeouts"
	"github.com/dalemusser/educollab/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves user profiles.
type Handler struct {
	Users  *userstore.Store
	ErrLog *apierrors.ErrorLogger
	Log    *zap.Logger
}

// NewHandler constructs a users Handler backed by db.
func NewHandler(db *mongo.Database, errLog *apierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Users:  userstore.New(db),
		ErrLog: errLog,
		Log:    logger,
	}
}

type upsertInput struct {
	DisplayName string `json:"displayName" validate:"max=200" label:"Display name"`
	Email       string `json:"email" validate:"omitempty,email" label:"Email"`
	Role        string `json:"role" validate:"omitempty,oneof=student mentor" label:"Role"`
	AvatarURL   string `json:"avatarUrl" validate:"omitempty,url,max=2048" label:"Avatar URL"`
}

// HandleUpsert records the caller's profile on sign-in. The first call creates
// it; later calls refresh display name and avatar and keep role and email.
func (h *Handler) HandleUpsert(w http.ResponseWriter, r *http.Request) {
	p, ok := auth.CurrentPrincipal(r)
	if !ok {
		apierrors.Unauthorized(w, "No token provided")
		return
	}

	var in upsertInput
	if err := formutil.DecodeJSON(r, &in); err != nil {
		apierrors.Invalid(w, err)
		return
	}
	in.DisplayName = normalize.Name(in.DisplayName)
	in.Email = normalize.Email(in.Email)
	in.Role = normalize.Enum(in.Role)
	if err := formutil.Check(in); err != nil {
		apierrors.Invalid(w, err)
		return
	}

	// The token's email wins over the body.
	email := p.Email
	if email == "" {
		email = in.Email
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.Users.UpsertByPrincipal(ctx, models.User{
		PrincipalID: p.ID,
		DisplayName: in.DisplayName,
		Email:       email,
		Role:        in.Role,
		AvatarURL:   in.AvatarURL,
	})
	if err != nil {
		h.ErrLog.LogServerError(w, r, "upsert user failed", err, apierrors.DatabaseMessage)
		return
	}
	h.Log.Debug("user upserted", zap.String("principal_id", p.ID.String()))
	apierrors.WriteJSON(w, http.StatusOK, u)
}

// ServeUser returns the profile for the principalId path parameter.
func (h *Handler) ServeUser(w http.ResponseWriter, r *http.Request) {
	pid := models.PrincipalID(chi.URLParam(r, "principalId"))

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.Users.GetByPrincipal(ctx, pid)
	if err != nil {
		h.ErrLog.LogStoreError(w, r, "get user failed", err, "User")
		return
	}
	apierrors.WriteJSON(w, http.StatusOK, u)
}

type updateInput struct {
	DisplayName *string `json:"displayName" validate:"omitempty,max=200" label:"Display name"`
	AvatarURL   *string `json:"avatarUrl" validate:"omitempty,url,max=2048" label:"Avatar URL"`
}

// HandleUpdate changes the caller's own display name or avatar.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	p, ok := auth.CurrentPrincipal(r)
	if !ok {
		apierrors.Unauthorized(w, "No token provided")
		return
	}
	target := models.PrincipalID(chi.URLParam(r, "principalId"))
	if d := userpolicy.CanEditProfile(p, target); !d.Allowed {
		apierrors.Denied(w, d)
		return
	}

	var in updateInput
	if err := formutil.DecodeJSON(r, &in); err != nil {
		apierrors.Invalid(w, err)
		return
	}
	if in.DisplayName != nil {
		name := normalize.Name(*in.DisplayName)
		in.DisplayName = &name
	}
	if err := formutil.Check(in); err != nil {
		apierrors.Invalid(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.Users.UpdateProfile(ctx, target, userstore.ProfilePatch{
		DisplayName: in.DisplayName,
		AvatarURL:   in.AvatarURL,
	})
	if err != nil {
		h.ErrLog.LogStoreError(w, r, "update user failed", err, "User")
		return
	}
	apierrors.WriteJSON(w, http.StatusOK, u)
}
