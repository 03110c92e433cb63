package controllers

import (
	"net/http"

	"go-shopping/middleware"
	"go-shopping/usecase"
)

// UserController handles account and profile requests
type UserController struct {
	auth    *usecase.AuthUsecase
	profile *usecase.ProfileUsecase
}

// NewUserController creates a new UserController
func NewUserController(auth *usecase.AuthUsecase, profile *usecase.ProfileUsecase) *UserController {
	return &UserController{auth: auth, profile: profile}
}

// Register handles user registration
func (uc *UserController) Register(w http.ResponseWriter, r *http.Request) {
	var in usecase.RegisterInput
	if !decodeJSON(w, r, &in) {
		return
	}
	user, err := uc.auth.Register(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

// Login handles user authentication
func (uc *UserController) Login(w http.ResponseWriter, r *http.Request) {
	var in usecase.LoginInput
	if !decodeJSON(w, r, &in) {
		return
	}
	res, err := uc.auth.Login(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// ForgotPassword emails a password reset link
func (uc *UserController) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var in usecase.ForgotPasswordInput
	if !decodeJSON(w, r, &in) {
		return
	}
	if err := uc.auth.ForgotPassword(r.Context(), in); err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, http.StatusAccepted, "Password reset email sent.")
}

// ResetPassword sets a new password from a reset token
func (uc *UserController) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var in usecase.ResetPasswordInput
	if !decodeJSON(w, r, &in) {
		return
	}
	if err := uc.auth.ResetPassword(r.Context(), in); err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "Password updated. You can now log in.")
}

// Logout forgets the session's stored display name
func (uc *UserController) Logout(w http.ResponseWriter, r *http.Request) {
	if err := uc.auth.Logout(r.Context(), middleware.CurrentUserID(r.Context())); err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "Logged out.")
}

// GetProfile retrieves the authenticated user's profile
func (uc *UserController) GetProfile(w http.ResponseWriter, r *http.Request) {
	user, err := uc.profile.GetProfile(r.Context(), middleware.CurrentUserID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// UpdateProfile completes the profile. Accepts JSON or a multipart form with
// an optional image.
func (uc *UserController) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var (
		in    usecase.ProfileInput
		image *usecase.Upload
	)
	if isMultipart(r) {
		if err := r.ParseMultipartForm(maxUploadSize); err != nil {
			writeJSON(w, http.StatusBadRequest, apiError{Error: "bad_request", Message: "Invalid form"})
			return
		}
		in = usecase.ProfileInput{
			FirstName: r.FormValue("firstName"),
			LastName:  r.FormValue("lastName"),
			Mobile:    r.FormValue("mobile"),
			Gender:    r.FormValue("gender"),
		}
		var (
			done func()
			err  error
		)
		image, done, err = formImage(r)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, apiError{Error: "bad_request", Message: "Invalid image"})
			return
		}
		defer done()
	} else if !decodeJSON(w, r, &in) {
		return
	}

	user, err := uc.profile.UpdateProfile(r.Context(), middleware.CurrentUserID(r.Context()), in, image)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}
